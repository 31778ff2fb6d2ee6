package usecases

import (
	"context"
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// ExpireSubscriptionsUseCase applies the passive expiry rule in bulk. Reads
// and writes apply it anyway, so nothing depends on this running.
type ExpireSubscriptionsUseCase struct {
	subRepo   subscription.Repository
	clock     biztime.Clock
	batchSize int
	logger    logger.Interface
}

// NewExpireSubscriptionsUseCase creates a new use case.
func NewExpireSubscriptionsUseCase(subRepo subscription.Repository, clock biztime.Clock, batchSize int, logger logger.Interface) *ExpireSubscriptionsUseCase {
	if batchSize <= 0 {
		batchSize = 500
	}
	return &ExpireSubscriptionsUseCase{subRepo: subRepo, clock: clock, batchSize: batchSize, logger: logger}
}

func (uc *ExpireSubscriptionsUseCase) Execute(ctx context.Context) (int, error) {
	n, err := uc.subRepo.ExpireOverdue(ctx, uc.clock.Today(), uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	if n > 0 {
		uc.logger.Infow("subscriptions expired", "count", n)
	}
	return int(n), nil
}
