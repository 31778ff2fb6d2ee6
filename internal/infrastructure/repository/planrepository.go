package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/mapper"
)

// PlanRepository implements subscription.PlanRepository.
type PlanRepository struct {
	db *gorm.DB
}

// NewPlanRepository creates a new plan repository.
func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *subscription.Plan) error {
	model := mappers.PlanToModel(plan)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return fmt.Errorf("%w: %s", subscription.ErrPlanNameExists, plan.Name())
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return plan.SetID(model.ID)
}

func (r *PlanRepository) Update(ctx context.Context, plan *subscription.Plan) error {
	model := mappers.PlanToModel(plan)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PlanModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"description":     model.Description,
			"price":           model.Price,
			"duration_months": model.DurationMonths,
			"is_active":       model.IsActive,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update plan: %w", result.Error)
	}
	// RowsAffected may be 0 when updated values are identical to existing values.
	return nil
}

func (r *PlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) GetByName(ctx context.Context, name string) (*subscription.Plan, error) {
	var model models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).Where("name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan by name: %w", err)
	}

	return mappers.PlanToDomain(&model), nil
}

func (r *PlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	var planModels []*models.PlanModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("is_active = ?", true).
		Order("price ASC, id ASC").
		Find(&planModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	return mapper.MapSlicePtr(planModels, mappers.PlanToDomain), nil
}
