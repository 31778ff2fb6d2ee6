package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/memberhub/memberhub/internal/application/subscription/dto"
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// PlanSeed is one entry of a plans seed file.
type PlanSeed struct {
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Price          string `yaml:"price"`
	DurationMonths int    `yaml:"duration_months"`
	Active         *bool  `yaml:"active"`
}

type planSeedFile struct {
	Plans []PlanSeed `yaml:"plans"`
}

// ParsePlanSeeds decodes a YAML document with a top-level plans list.
func ParsePlanSeeds(data []byte) ([]PlanSeed, error) {
	var file planSeedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse plan seeds: %w", err)
	}
	if len(file.Plans) == 0 {
		return nil, fmt.Errorf("plan seed file has no plans")
	}
	return file.Plans, nil
}

// SeedPlansUseCase upserts plans by name.
type SeedPlansUseCase struct {
	planRepo subscription.PlanRepository
	clock    biztime.Clock
	logger   logger.Interface
}

// NewSeedPlansUseCase creates a new use case.
func NewSeedPlansUseCase(planRepo subscription.PlanRepository, clock biztime.Clock, logger logger.Interface) *SeedPlansUseCase {
	return &SeedPlansUseCase{planRepo: planRepo, clock: clock, logger: logger}
}

func (uc *SeedPlansUseCase) Execute(ctx context.Context, seeds []PlanSeed) (*dto.SeedPlansResult, error) {
	result := &dto.SeedPlansResult{}
	now := uc.clock.Now()

	for _, seed := range seeds {
		price, err := decimal.NewFromString(seed.Price)
		if err != nil {
			return result, apperrors.NewValidationError("invalid plan price", seed.Name)
		}
		active := seed.Active == nil || *seed.Active

		existing, err := uc.planRepo.GetByName(ctx, seed.Name)
		switch {
		case err == nil:
			months := seed.DurationMonths
			if months == 0 {
				months = existing.DurationMonths()
			}
			if err := existing.Update(seed.Description, price, months, active, now); err != nil {
				return result, apperrors.NewValidationError(err.Error(), seed.Name)
			}
			if err := uc.planRepo.Update(ctx, existing); err != nil {
				return result, fmt.Errorf("failed to update plan %q: %w", seed.Name, err)
			}
			result.Updated++

		case errors.Is(err, subscription.ErrPlanNotFound):
			plan, err := subscription.NewPlan(seed.Name, seed.Description, price, seed.DurationMonths, now)
			if err != nil {
				return result, apperrors.NewValidationError(err.Error(), seed.Name)
			}
			if !active {
				if err := plan.Update(plan.Description(), plan.Price(), plan.DurationMonths(), false, now); err != nil {
					return result, err
				}
			}
			if err := uc.planRepo.Create(ctx, plan); err != nil {
				return result, fmt.Errorf("failed to create plan %q: %w", seed.Name, err)
			}
			result.Created++

		default:
			return result, fmt.Errorf("failed to get plan %q: %w", seed.Name, err)
		}
	}

	uc.logger.Infow("plans seeded", "created", result.Created, "updated", result.Updated)
	return result, nil
}
