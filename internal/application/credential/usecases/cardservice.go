package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// maxIDNumberAttempts bounds retries when a generated number is taken.
const maxIDNumberAttempts = 5

// CardService owns get-or-create and activation of id cards. Payment
// success and the demo grant both activate through it.
type CardService struct {
	cardRepo   credential.Repository
	memberRepo member.Repository
	generator  credential.IDNumberGenerator
	clock      biztime.Clock
	logger     logger.Interface
}

// NewCardService creates a new CardService.
func NewCardService(
	cardRepo credential.Repository,
	memberRepo member.Repository,
	generator credential.IDNumberGenerator,
	clock biztime.Clock,
	logger logger.Interface,
) *CardService {
	return &CardService{
		cardRepo:   cardRepo,
		memberRepo: memberRepo,
		generator:  generator,
		clock:      clock,
		logger:     logger,
	}
}

// GetOrCreate returns the member's card, creating it and assigning an id
// number on first use.
func (s *CardService) GetOrCreate(ctx context.Context, userID uint) (*credential.IDCard, *member.Member, error) {
	holder, err := s.memberRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, member.ErrMemberNotFound) {
			return nil, nil, apperrors.NewNotFoundError("member not found")
		}
		s.logger.Errorw("failed to get member", "error", err, "user_id", userID)
		return nil, nil, fmt.Errorf("failed to get member: %w", err)
	}

	card, err := s.cardRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		if card.IDNumber() == "" {
			if err := s.assignMissingNumber(ctx, card, holder); err != nil {
				return nil, nil, err
			}
		}
		return card, holder, nil
	case !errors.Is(err, credential.ErrCardNotFound):
		s.logger.Errorw("failed to get id card", "error", err, "user_id", userID)
		return nil, nil, fmt.Errorf("failed to get id card: %w", err)
	}

	now := s.clock.Now()
	card, err = credential.NewIDCard(userID, now)
	if err != nil {
		return nil, nil, err
	}
	if err := card.EnsureIDNumber(s.uniqueNumbers(ctx), holder.DateOfBirth, s.clock.Today()); err != nil {
		s.logger.Errorw("failed to generate id number", "error", err, "user_id", userID)
		return nil, nil, err
	}

	if err := s.cardRepo.Create(ctx, card); err != nil {
		if !apperrors.IsDuplicateError(err) {
			s.logger.Errorw("failed to create id card", "error", err, "user_id", userID)
			return nil, nil, fmt.Errorf("failed to create id card: %w", err)
		}
		// A concurrent request created the card first.
		existing, getErr := s.cardRepo.GetByUserID(ctx, userID)
		if getErr != nil {
			return nil, nil, apperrors.NewConflictError("id card is being created, retry shortly")
		}
		return existing, holder, nil
	}

	s.logger.Infow("id card created", "user_id", userID, "id_number", card.IDNumber())
	return card, holder, nil
}

// ActivateForDays makes the member's card valid for days from today.
func (s *CardService) ActivateForDays(ctx context.Context, userID uint, days int) error {
	_, _, err := s.activate(ctx, userID, days)
	return err
}

func (s *CardService) activate(ctx context.Context, userID uint, days int) (*credential.IDCard, *member.Member, error) {
	card, holder, err := s.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	if err := card.ActivateForDays(s.clock.Today(), days, s.clock.Now()); err != nil {
		return nil, nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.cardRepo.Update(ctx, card); err != nil {
		s.logger.Errorw("failed to update id card", "error", err, "user_id", userID)
		return nil, nil, fmt.Errorf("failed to update id card: %w", err)
	}

	s.logger.Infow("id card activated", "user_id", userID, "days", days, "expired_at", biztime.FormatDate(*card.ExpiredAt()))
	return card, holder, nil
}

func (s *CardService) assignMissingNumber(ctx context.Context, card *credential.IDCard, holder *member.Member) error {
	number, err := s.uniqueNumbers(ctx).Generate(holder.DateOfBirth, s.clock.Today())
	if err != nil {
		return err
	}
	if err := card.ReplaceNonCanonicalIDNumber(number, s.clock.Now()); err != nil {
		return err
	}
	if err := s.cardRepo.ReplaceIDNumber(ctx, card, ""); err != nil {
		s.logger.Errorw("failed to assign id number", "error", err, "user_id", card.UserID())
		return fmt.Errorf("failed to assign id number: %w", err)
	}
	return nil
}

func (s *CardService) uniqueNumbers(ctx context.Context) credential.IDNumberGenerator {
	return &uniqueIDNumbers{ctx: ctx, repo: s.cardRepo, gen: s.generator}
}

// uniqueIDNumbers retries the underlying generator until it yields a number
// no stored card carries.
type uniqueIDNumbers struct {
	ctx  context.Context
	repo credential.Repository
	gen  credential.IDNumberGenerator
}

func (u *uniqueIDNumbers) Generate(dob *time.Time, today time.Time) (string, error) {
	for attempt := 0; attempt < maxIDNumberAttempts; attempt++ {
		number, err := u.gen.Generate(dob, today)
		if err != nil {
			return "", err
		}
		taken, err := u.repo.ExistsByIDNumber(u.ctx, number)
		if err != nil {
			return "", fmt.Errorf("failed to check id number: %w", err)
		}
		if !taken {
			return number, nil
		}
	}
	return "", credential.ErrIDNumberConflict
}
