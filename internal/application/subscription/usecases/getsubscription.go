package usecases

import (
	"context"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// GetSubscriptionUseCase loads one subscription.
type GetSubscriptionUseCase struct {
	subRepo subscription.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

// NewGetSubscriptionUseCase creates a new use case.
func NewGetSubscriptionUseCase(subRepo subscription.Repository, clock biztime.Clock, logger logger.Interface) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{subRepo: subRepo, clock: clock, logger: logger}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*dto.SubscriptionDTO, error) {
	sub, err := loadSubscription(ctx, uc.subRepo, subscriptionID, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	return dto.ToSubscriptionDTO(sub, uc.clock.Today()), nil
}
