package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/member"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/db"
)

// MemberRepository reads card holders from the shared users table.
type MemberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) GetByID(ctx context.Context, id uint) (*member.Member, error) {
	var model models.UserModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, member.ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	return mappers.MemberToDomain(&model), nil
}
