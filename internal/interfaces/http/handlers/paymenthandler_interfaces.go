package handlers

import (
	"context"

	"github.com/memberhub/memberhub/internal/application/payment/usecases"
)

type initiatePaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.InitiatePaymentCommand) (*usecases.CheckoutResult, error)
}

type verifyPaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.VerifyPaymentCommand) (*usecases.ReconcileResult, error)
}

type handleWebhookUseCase interface {
	Execute(ctx context.Context, cmd usecases.HandleWebhookCommand) (*usecases.WebhookResult, error)
}

type initiateDonationUseCase interface {
	Execute(ctx context.Context, cmd usecases.InitiateDonationCommand) (*usecases.CheckoutResult, error)
}
