package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/db"
	"github.com/memberhub/memberhub/internal/shared/mapper"
)

// SubscriptionPaymentRepository implements subscription.PaymentRepository.
type SubscriptionPaymentRepository struct {
	db *gorm.DB
}

// NewSubscriptionPaymentRepository creates a new subscription payment repository.
func NewSubscriptionPaymentRepository(db *gorm.DB) *SubscriptionPaymentRepository {
	return &SubscriptionPaymentRepository{db: db}
}

func (r *SubscriptionPaymentRepository) Create(ctx context.Context, p *subscription.Payment) error {
	model := mappers.SubscriptionPaymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create subscription payment: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	return p.SetID(model.ID)
}

func (r *SubscriptionPaymentRepository) Update(ctx context.Context, p *subscription.Payment) error {
	model := mappers.SubscriptionPaymentToModel(p)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionPaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"gateway_response": datatypes.JSONMap(model.GatewayResponse),
			"notes":            model.Notes,
			"paid_at":          model.PaidAt,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update subscription payment: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.

	return nil
}

func (r *SubscriptionPaymentRepository) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.SubscriptionPaymentModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete subscription payment: %w", err)
	}
	return nil
}

func (r *SubscriptionPaymentRepository) GetByID(ctx context.Context, id uint) (*subscription.Payment, error) {
	var model models.SubscriptionPaymentModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get subscription payment: %w", err)
	}

	return mappers.SubscriptionPaymentToDomain(&model)
}

func (r *SubscriptionPaymentRepository) GetByReference(ctx context.Context, reference string) (*subscription.Payment, error) {
	var model models.SubscriptionPaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("payment_reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("failed to get subscription payment by reference: %w", err)
	}

	return mappers.SubscriptionPaymentToDomain(&model)
}

func (r *SubscriptionPaymentRepository) ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*subscription.Payment, error) {
	var paymentModels []models.SubscriptionPaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscription payments: %w", err)
	}

	return mapper.MapRowsWithID(paymentModels, mappers.SubscriptionPaymentToDomain,
		func(m *models.SubscriptionPaymentModel) uint { return m.ID })
}
