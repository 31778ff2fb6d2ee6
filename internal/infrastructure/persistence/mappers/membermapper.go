package mappers

import (
	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
)

func MemberToDomain(model *models.UserModel) *member.Member {
	return &member.Member{
		ID:          model.ID,
		Email:       model.Email,
		FirstName:   model.FirstName,
		LastName:    model.LastName,
		DateOfBirth: model.DateOfBirth,
	}
}
