package mappers

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
)

func TransactionToModel(t *payment.Transaction) *models.TransactionModel {
	model := &models.TransactionModel{
		ID:                    t.ID(),
		Reference:             t.Reference(),
		Provider:              t.Provider().String(),
		Purpose:               t.Purpose().String(),
		Status:                t.Status().String(),
		UserID:                t.UserID(),
		PayerEmail:            t.PayerEmail(),
		SubscriptionPaymentID: t.SubscriptionPaymentID(),
		Amount:                t.Money().Amount(),
		Currency:              t.Money().Currency(),
		GatewayReference:      t.GatewayReference(),
		VerifiedAt:            t.VerifiedAt(),
		CreatedAt:             t.CreatedAt(),
		UpdatedAt:             t.UpdatedAt(),
	}

	if len(t.Response()) > 0 {
		model.Response = t.Response()
	}

	return model
}

func TransactionToDomain(model *models.TransactionModel) (*payment.Transaction, error) {
	provider, err := vo.NewProvider(model.Provider)
	if err != nil {
		return nil, err
	}

	money, err := vo.NewMoney(model.Amount, model.Currency)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction amount: %w", err)
	}

	var response map[string]any
	if model.Response != nil {
		response = model.Response
	}

	return payment.ReconstructTransaction(
		model.ID,
		model.Reference,
		provider,
		vo.Purpose(model.Purpose),
		vo.TransactionStatus(model.Status),
		model.UserID,
		model.PayerEmail,
		model.SubscriptionPaymentID,
		money,
		model.GatewayReference,
		response,
		model.VerifiedAt,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
