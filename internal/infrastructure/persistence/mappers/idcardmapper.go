package mappers

import (
	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
)

func IDCardToModel(c *credential.IDCard) *models.IDCardModel {
	model := &models.IDCardModel{
		ID:        c.ID(),
		UserID:    c.UserID(),
		FirstTime: c.FirstTime(),
		IsActive:  c.IsActive(),
		Expired:   c.Expired(),
		ExpiredAt: c.ExpiredAt(),
		Signature: c.Signature(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
	if n := c.IDNumber(); n != "" {
		model.IDNumber = &n
	}
	return model
}

func IDCardToDomain(model *models.IDCardModel) (*credential.IDCard, error) {
	var number string
	if model.IDNumber != nil {
		number = *model.IDNumber
	}
	return credential.ReconstructIDCard(
		model.ID,
		model.UserID,
		number,
		model.FirstTime,
		model.IsActive,
		model.Expired,
		model.ExpiredAt,
		model.Signature,
		model.CreatedAt,
		model.UpdatedAt,
	)
}
