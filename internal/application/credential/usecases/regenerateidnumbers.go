package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/application/credential/dto"
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// RegenerateIDNumbersCommand selects the cards to renumber.
type RegenerateIDNumbersCommand struct {
	DryRun    bool
	BatchSize int
}

// RegenerateIDNumbersUseCase rewrites id numbers issued under older schemes
// to the LYA/LYY scheme. Canonical numbers are left alone.
type RegenerateIDNumbersUseCase struct {
	cardRepo   credential.Repository
	memberRepo member.Repository
	generator  credential.IDNumberGenerator
	clock      biztime.Clock
	logger     logger.Interface
}

// NewRegenerateIDNumbersUseCase creates a new use case.
func NewRegenerateIDNumbersUseCase(
	cardRepo credential.Repository,
	memberRepo member.Repository,
	generator credential.IDNumberGenerator,
	clock biztime.Clock,
	logger logger.Interface,
) *RegenerateIDNumbersUseCase {
	return &RegenerateIDNumbersUseCase{
		cardRepo:   cardRepo,
		memberRepo: memberRepo,
		generator:  generator,
		clock:      clock,
		logger:     logger,
	}
}

func (uc *RegenerateIDNumbersUseCase) Execute(ctx context.Context, cmd RegenerateIDNumbersCommand) (*dto.RegenerateSummary, error) {
	batch := cmd.BatchSize
	if batch <= 0 {
		batch = 200
	}

	summary := &dto.RegenerateSummary{DryRun: cmd.DryRun, Changes: []dto.IDNumberChange{}}
	unique := &uniqueIDNumbers{ctx: ctx, repo: uc.cardRepo, gen: uc.generator}
	today := uc.clock.Today()

	var afterID uint
	for {
		cards, err := uc.cardRepo.ListAfterID(ctx, afterID, batch)
		if err != nil {
			return summary, fmt.Errorf("failed to list id cards: %w", err)
		}
		if len(cards) == 0 {
			break
		}

		for _, card := range cards {
			afterID = card.ID()
			summary.Scanned++

			if credential.IsCanonicalIDNumber(card.IDNumber()) {
				summary.Skipped++
				continue
			}

			change := dto.IDNumberChange{CardID: card.ID(), UserID: card.UserID(), OldNumber: card.IDNumber()}
			if err := uc.regenerate(ctx, card, unique, today, cmd.DryRun, &change); err != nil {
				uc.logger.Warnw("failed to regenerate id number", "error", err, "card_id", card.ID(), "user_id", card.UserID())
				change.Error = err.Error()
				summary.Failed++
			} else {
				summary.Updated++
			}
			summary.Changes = append(summary.Changes, change)
		}
	}

	uc.logger.Infow("id number regeneration finished",
		"dry_run", cmd.DryRun,
		"scanned", summary.Scanned,
		"updated", summary.Updated,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (uc *RegenerateIDNumbersUseCase) regenerate(
	ctx context.Context,
	card *credential.IDCard,
	unique credential.IDNumberGenerator,
	today time.Time,
	dryRun bool,
	change *dto.IDNumberChange,
) error {
	var dob *time.Time
	holder, err := uc.memberRepo.GetByID(ctx, card.UserID())
	if err == nil {
		dob = holder.DateOfBirth
	} else if !errors.Is(err, member.ErrMemberNotFound) {
		return fmt.Errorf("failed to get member: %w", err)
	}

	number, err := unique.Generate(dob, today)
	if err != nil {
		return err
	}
	change.NewNumber = number
	if dryRun {
		return nil
	}

	oldNumber := card.IDNumber()
	if err := card.ReplaceNonCanonicalIDNumber(number, uc.clock.Now()); err != nil {
		return err
	}
	return uc.cardRepo.ReplaceIDNumber(ctx, card, oldNumber)
}
