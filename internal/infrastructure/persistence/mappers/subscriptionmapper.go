package mappers

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) *models.SubscriptionModel
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	method := vo.PaymentMethod(model.PaymentMethod)
	if model.PaymentMethod != "" {
		var err error
		if method, err = vo.NewPaymentMethod(model.PaymentMethod); err != nil {
			return nil, fmt.Errorf("failed to parse payment method: %w", err)
		}
	}

	entity, err := subscription.ReconstructSubscription(
		model.ID,
		model.UserID,
		model.PlanID,
		vo.SubscriptionStatus(model.Status),
		model.StartDate,
		model.EndDate,
		model.AmountPaid,
		method,
		model.PaymentReference,
		model.AutoRenew,
		model.ActivatedAt,
		model.CancelledAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}
	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) *models.SubscriptionModel {
	if entity == nil {
		return nil
	}

	return &models.SubscriptionModel{
		ID:               entity.ID(),
		UserID:           entity.UserID(),
		PlanID:           entity.PlanID(),
		Status:           entity.Status().String(),
		StartDate:        entity.StartDate(),
		EndDate:          entity.EndDate(),
		AmountPaid:       entity.AmountPaid(),
		PaymentMethod:    entity.PaymentMethod().String(),
		PaymentReference: entity.PaymentReference(),
		AutoRenew:        entity.AutoRenew(),
		ActivatedAt:      entity.ActivatedAt(),
		CancelledAt:      entity.CancelledAt(),
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}

func (m *SubscriptionMapperImpl) ToEntities(items []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(items, m.ToEntity, func(model *models.SubscriptionModel) uint {
		return model.ID
	})
}
