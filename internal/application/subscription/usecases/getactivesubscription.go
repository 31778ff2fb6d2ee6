package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// GetActiveSubscriptionUseCase returns the subscription covering today.
type GetActiveSubscriptionUseCase struct {
	subRepo subscription.Repository
	clock   biztime.Clock
	logger  logger.Interface
}

// NewGetActiveSubscriptionUseCase creates a new use case.
func NewGetActiveSubscriptionUseCase(subRepo subscription.Repository, clock biztime.Clock, logger logger.Interface) *GetActiveSubscriptionUseCase {
	return &GetActiveSubscriptionUseCase{subRepo: subRepo, clock: clock, logger: logger}
}

func (uc *GetActiveSubscriptionUseCase) Execute(ctx context.Context, userID uint) (*dto.SubscriptionDTO, error) {
	today := uc.clock.Today()
	sub, err := uc.subRepo.GetActiveByUserID(ctx, userID, today)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("no active subscription")
		}
		uc.logger.Errorw("failed to get active subscription", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}
	return dto.ToSubscriptionDTO(sub, today), nil
}
