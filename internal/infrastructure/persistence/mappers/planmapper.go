package mappers

import (
	"github.com/memberhub/memberhub/internal/domain/subscription"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
)

func PlanToModel(p *subscription.Plan) *models.PlanModel {
	return &models.PlanModel{
		ID:             p.ID(),
		Name:           p.Name(),
		Description:    p.Description(),
		Price:          p.Price(),
		DurationMonths: p.DurationMonths(),
		IsActive:       p.IsActive(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}

func PlanToDomain(model *models.PlanModel) *subscription.Plan {
	return subscription.ReconstructPlan(
		model.ID,
		model.Name,
		model.Description,
		model.Price,
		model.DurationMonths,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
