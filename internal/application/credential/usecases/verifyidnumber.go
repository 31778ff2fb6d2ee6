package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const msgCardNotFound = "Card not found or invalid verification ID"

// VerifyIDNumberUseCase is the public card check. Reading a card refreshes
// its expired flag so the stored value agrees with today's date.
type VerifyIDNumberUseCase struct {
	cardRepo   credential.Repository
	memberRepo member.Repository
	clock      biztime.Clock
	logger     logger.Interface
}

// NewVerifyIDNumberUseCase creates a new use case.
func NewVerifyIDNumberUseCase(
	cardRepo credential.Repository,
	memberRepo member.Repository,
	clock biztime.Clock,
	logger logger.Interface,
) *VerifyIDNumberUseCase {
	return &VerifyIDNumberUseCase{
		cardRepo:   cardRepo,
		memberRepo: memberRepo,
		clock:      clock,
		logger:     logger,
	}
}

func (uc *VerifyIDNumberUseCase) Execute(ctx context.Context, idNumber string) (*dto.VerificationDTO, error) {
	idNumber = strings.TrimSpace(idNumber)
	notFound := &dto.VerificationDTO{Valid: false, Error: msgCardNotFound, CardID: idNumber}
	if idNumber == "" {
		return notFound, nil
	}

	card, err := uc.cardRepo.GetByIDNumber(ctx, idNumber)
	if err != nil {
		if errors.Is(err, credential.ErrCardNotFound) {
			return notFound, nil
		}
		uc.logger.Errorw("failed to get id card", "error", err, "id_number", idNumber)
		return nil, fmt.Errorf("failed to get id card: %w", err)
	}

	now := uc.clock.Now()
	today := uc.clock.Today()
	if card.RefreshExpiry(today, now) {
		if err := uc.cardRepo.Update(ctx, card); err != nil {
			uc.logger.Errorw("failed to persist refreshed expiry", "error", err, "id_number", idNumber)
			return nil, fmt.Errorf("failed to update id card: %w", err)
		}
	}

	holder, err := uc.memberRepo.GetByID(ctx, card.UserID())
	if err != nil {
		uc.logger.Warnw("card holder not found", "error", err, "user_id", card.UserID())
		holder = nil
	}

	expired := card.Expired()
	return &dto.VerificationDTO{
		Valid:      true,
		Data:       dto.ToIDCardDTO(card, holder, today),
		VerifiedAt: &now,
		Expired:    &expired,
	}, nil
}
