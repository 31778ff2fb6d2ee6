package usecases

import (
	"context"
	"fmt"

	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/goroutine"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// ActivateSubscriptionUseCase is the manual activation used by admins. Only
// a pending subscription can be activated so activated_at is stamped once.
type ActivateSubscriptionUseCase struct {
	subRepo    subscription.Repository
	memberRepo member.Repository
	notifier   notification.Notifier
	clock      biztime.Clock
	logger     logger.Interface
}

// NewActivateSubscriptionUseCase creates a new use case.
func NewActivateSubscriptionUseCase(
	subRepo subscription.Repository,
	memberRepo member.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		subRepo:    subRepo,
		memberRepo: memberRepo,
		notifier:   notification.NewNopNotifier(),
		clock:      clock,
		logger:     logger,
	}
}

func (uc *ActivateSubscriptionUseCase) SetNotifier(n notification.Notifier) {
	uc.notifier = n
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, subscriptionID uint) (*dto.SubscriptionDTO, error) {
	sub, err := loadSubscription(ctx, uc.subRepo, subscriptionID, uc.clock, uc.logger)
	if err != nil {
		return nil, err
	}
	if !sub.IsPending() {
		return nil, apperrors.NewConflictError("subscription is not pending", sub.Status().String())
	}

	if err := sub.Activate(uc.clock.Now()); err != nil {
		uc.logger.Errorw("failed to activate subscription", "error", err, "subscription_id", subscriptionID)
		return nil, transitionError(err)
	}
	if err := uc.subRepo.Update(ctx, sub); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_id", subscriptionID)
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	uc.logger.Infow("subscription activated successfully", "subscription_id", subscriptionID, "user_id", sub.UserID())
	notifySubscriptionEvent(ctx, uc.memberRepo, uc.notifier, uc.logger, notification.EventSubscriptionActivated, sub)

	return dto.ToSubscriptionDTO(sub, uc.clock.Today()), nil
}

func notifySubscriptionEvent(
	ctx context.Context,
	memberRepo member.Repository,
	notifier notification.Notifier,
	log logger.Interface,
	event notification.Event,
	sub *subscription.Subscription,
) {
	holder, err := memberRepo.GetByID(ctx, sub.UserID())
	if err != nil {
		log.Warnw("skipping notification, member not found", "error", err, "user_id", sub.UserID())
		return
	}

	to := notification.Recipient{Email: holder.Email, Name: holder.FullName()}
	payload := notification.Payload{
		"subscription_id": sub.ID(),
		"status":          sub.Status().String(),
		"end_date":        biztime.FormatDate(sub.EndDate()),
	}
	goroutine.SafeGoWithTimeout(log, "subscription-notification", notificationTimeout, func(ctx context.Context) {
		if err := notifier.Send(ctx, event, to, payload); err != nil {
			log.Warnw("failed to send subscription notification", "error", err, "subscription_id", sub.ID(), "event", event)
		}
	})
}
