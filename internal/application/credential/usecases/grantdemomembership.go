package usecases

import (
	"context"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/application/notification"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/goroutine"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// GrantDemoMembershipUseCase activates a card without payment. The card ends
// up exactly as a successful membership payment would leave it.
type GrantDemoMembershipUseCase struct {
	cards        *CardService
	validityDays int
	notifier     notification.Notifier
	clock        biztime.Clock
	logger       logger.Interface
}

// NewGrantDemoMembershipUseCase creates a new use case.
func NewGrantDemoMembershipUseCase(
	cards *CardService,
	validityDays int,
	clock biztime.Clock,
	logger logger.Interface,
) *GrantDemoMembershipUseCase {
	if validityDays <= 0 {
		validityDays = 30
	}
	return &GrantDemoMembershipUseCase{
		cards:        cards,
		validityDays: validityDays,
		notifier:     notification.NewNopNotifier(),
		clock:        clock,
		logger:       logger,
	}
}

func (uc *GrantDemoMembershipUseCase) SetNotifier(n notification.Notifier) {
	uc.notifier = n
}

func (uc *GrantDemoMembershipUseCase) Execute(ctx context.Context, userID uint) (*dto.IDCardDTO, error) {
	card, holder, err := uc.cards.activate(ctx, userID, uc.validityDays)
	if err != nil {
		return nil, err
	}

	to := notification.Recipient{Email: holder.Email, Name: holder.FullName()}
	payload := notification.Payload{"id_number": card.IDNumber(), "validity_days": uc.validityDays}
	notifier := uc.notifier
	goroutine.SafeGoWithTimeout(uc.logger, "demo-membership-notification", notificationTimeout, func(ctx context.Context) {
		if err := notifier.Send(ctx, notification.EventMembershipDemoGranted, to, payload); err != nil {
			uc.logger.Warnw("failed to send demo membership notification", "error", err, "user_id", userID)
		}
	})

	uc.logger.Infow("demo membership granted", "user_id", userID, "days", uc.validityDays)
	return dto.ToIDCardDTO(card, holder, uc.clock.Today()), nil
}
