package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const notificationTimeout = 30 * time.Second

// CancelSubscriptionUseCase cancels a subscription.
type CancelSubscriptionUseCase struct {
	subRepo    subscription.Repository
	memberRepo member.Repository
	notifier   notification.Notifier
	clock      biztime.Clock
	logger     logger.Interface
}

// NewCancelSubscriptionUseCase creates a new use case.
func NewCancelSubscriptionUseCase(
	subRepo subscription.Repository,
	memberRepo member.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		subRepo:    subRepo,
		memberRepo: memberRepo,
		notifier:   notification.NewNopNotifier(),
		clock:      clock,
		logger:     logger,
	}
}

func (uc *CancelSubscriptionUseCase) SetNotifier(n notification.Notifier) {
	uc.notifier = n
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*dto.SubscriptionDTO, error) {
	sub, err := loadSubscription(ctx, uc.subRepo, subscriptionID, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}

	if err := sub.Cancel(uc.clock.Now()); err != nil {
		uc.logger.Errorw("failed to cancel subscription", "error", err, "subscription_id", subscriptionID)
		return nil, transitionError(err)
	}

	if err := uc.subRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", subscriptionID)
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription cancelled successfully",
		"subscription_id", subscriptionID,
		"user_id", sub.UserID(),
		"status", sub.Status(),
	)
	notifySubscriptionEvent(ctx, uc.memberRepo, uc.notifier, uc.logger, notification.EventSubscriptionCancelled, sub)

	return dto.ToSubscriptionDTO(sub, uc.clock.Today()), nil
}
