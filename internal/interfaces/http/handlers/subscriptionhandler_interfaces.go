package handlers

import (
	"context"

	subdto "github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler

type createSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, subscriptionID uint) (*subdto.SubscriptionDTO, error)
}

type activateSubscriptionUseCase interface {
	Execute(ctx context.Context, subscriptionID uint) (*subdto.SubscriptionDTO, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, subscriptionID uint) (*subdto.SubscriptionDTO, error)
}

type getActiveSubscriptionUseCase interface {
	Execute(ctx context.Context, userID uint) (*subdto.SubscriptionDTO, error)
}

type listSubscriptionHistoryUseCase interface {
	Execute(ctx context.Context, query usecases.ListSubscriptionHistoryQuery) (*usecases.ListSubscriptionHistoryResult, error)
}

type recordSubscriptionPaymentUseCase interface {
	Execute(ctx context.Context, cmd usecases.RecordSubscriptionPaymentCommand) (*subdto.PaymentRecordedDTO, error)
}

type listPlansUseCase interface {
	Execute(ctx context.Context) ([]*subdto.PlanDTO, error)
}
