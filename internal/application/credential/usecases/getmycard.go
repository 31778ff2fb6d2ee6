package usecases

import (
	"context"
	"time"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const notificationTimeout = 30 * time.Second

// GetMyCardUseCase returns the caller's card, creating it on first use.
type GetMyCardUseCase struct {
	cards  *CardService
	clock  biztime.Clock
	logger logger.Interface
}

// NewGetMyCardUseCase creates a new use case.
func NewGetMyCardUseCase(cards *CardService, clock biztime.Clock, logger logger.Interface) *GetMyCardUseCase {
	return &GetMyCardUseCase{cards: cards, clock: clock, logger: logger}
}

// Execute returns the caller's card, creating it on first request.
func (uc *GetMyCardUseCase) Execute(ctx context.Context, userID uint) (*dto.IDCardDTO, error) {
	card, holder, err := uc.cards.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if card.RefreshExpiry(uc.clock.Today(), uc.clock.Now()) {
		if err := uc.cards.cardRepo.Update(ctx, card); err != nil {
			uc.logger.Warnw("failed to persist refreshed expiry", "error", err, "user_id", userID)
		}
	}
	return dto.ToIDCardDTO(card, holder, uc.clock.Today()), nil
}
