package mappers

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
)

func SubscriptionPaymentToModel(p *subscription.Payment) *models.SubscriptionPaymentModel {
	model := &models.SubscriptionPaymentModel{
		ID:               p.ID(),
		SubscriptionID:   p.SubscriptionID(),
		Amount:           p.Amount(),
		PaymentMethod:    p.Method().String(),
		PaymentReference: p.Reference(),
		Status:           p.Status().String(),
		Notes:            p.Notes(),
		PaidAt:           p.PaidAt(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}

	if len(p.GatewayResponse()) > 0 {
		model.GatewayResponse = p.GatewayResponse()
	}

	return model
}

func SubscriptionPaymentToDomain(model *models.SubscriptionPaymentModel) (*subscription.Payment, error) {
	method, err := vo.NewPaymentMethod(model.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("invalid payment method: %w", err)
	}

	var response map[string]any
	if model.GatewayResponse != nil {
		response = model.GatewayResponse
	}

	return subscription.ReconstructPayment(
		model.ID,
		model.SubscriptionID,
		model.Amount,
		method,
		model.PaymentReference,
		vo.PaymentStatus(model.Status),
		response,
		model.Notes,
		model.PaidAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
