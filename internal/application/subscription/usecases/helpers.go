package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// loadSubscription fetches a subscription and persists the passive expiry
// rule if it fires, so every read sees a status that agrees with today.
func loadSubscription(
	ctx context.Context,
	repo subscription.Repository,
	id uint,
	clock biztime.Clock,
	log logger.Interface,
) (*subscription.Subscription, error) {
	sub, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, subscription.ErrSubscriptionNotFound) {
			return nil, apperrors.NewNotFoundError("subscription not found")
		}
		log.Errorw("failed to get subscription", "error", err, "subscription_id", id)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	if sub.ApplyPassiveExpiry(clock.Today()) {
		if err := repo.Update(ctx, sub); err != nil {
			log.Warnw("failed to persist passive expiry", "error", err, "subscription_id", id)
		}
	}
	return sub, nil
}

func transitionError(err error) error {
	if errors.Is(err, subscription.ErrInvalidStatusTransition) {
		return apperrors.NewConflictError(err.Error())
	}
	return err
}
