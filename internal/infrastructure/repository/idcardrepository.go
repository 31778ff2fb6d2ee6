package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/credential"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/mapper"
)

// IDCardRepository implements credential.Repository.
type IDCardRepository struct {
	db    *gorm.DB
	clock biztime.Clock
}

// NewIDCardRepository creates a new id card repository.
func NewIDCardRepository(db *gorm.DB, clock biztime.Clock) *IDCardRepository {
	return &IDCardRepository{db: db, clock: clock}
}

func (r *IDCardRepository) Create(ctx context.Context, card *credential.IDCard) error {
	model := mappers.IDCardToModel(card)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create id card: %w", err)
	}

	return card.SetID(model.ID)
}

// Update writes everything except id_number, which only ReplaceIDNumber may
// change.
func (r *IDCardRepository) Update(ctx context.Context, card *credential.IDCard) error {
	model := mappers.IDCardToModel(card)

	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.IDCardModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"first_time": model.FirstTime,
			"is_active":  model.IsActive,
			"expired":    model.Expired,
			"expired_at": model.ExpiredAt,
			"signature":  model.Signature,
			"updated_at": model.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update id card: %w", err)
	}
	return nil
}

func (r *IDCardRepository) GetByUserID(ctx context.Context, userID uint) (*credential.IDCard, error) {
	return r.first(ctx, "user_id = ?", userID)
}

func (r *IDCardRepository) GetByIDNumber(ctx context.Context, idNumber string) (*credential.IDCard, error) {
	if idNumber == "" {
		return nil, credential.ErrCardNotFound
	}
	return r.first(ctx, "id_number = ?", idNumber)
}

func (r *IDCardRepository) first(ctx context.Context, query string, arg interface{}) (*credential.IDCard, error) {
	var model models.IDCardModel

	if err := db.GetTxFromContext(ctx, r.db).Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, credential.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to get id card: %w", err)
	}

	return mappers.IDCardToDomain(&model)
}

func (r *IDCardRepository) ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error) {
	var count int64

	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.IDCardModel{}).
		Where("id_number = ?", idNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check id number: %w", err)
	}
	return count > 0, nil
}

func (r *IDCardRepository) ReplaceIDNumber(ctx context.Context, card *credential.IDCard, oldNumber string) error {
	query := db.GetTxFromContext(ctx, r.db).Model(&models.IDCardModel{}).Where("id = ?", card.ID())
	if oldNumber == "" {
		query = query.Where("id_number IS NULL OR id_number = ''")
	} else {
		query = query.Where("id_number = ?", oldNumber)
	}

	result := query.Updates(map[string]interface{}{
		"id_number":  card.IDNumber(),
		"updated_at": card.UpdatedAt(),
	})
	if result.Error != nil {
		if apperrors.IsDuplicateError(result.Error) {
			return fmt.Errorf("%w: %s", credential.ErrIDNumberConflict, card.IDNumber())
		}
		return fmt.Errorf("failed to replace id number: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return credential.ErrIDNumberAssigned
	}
	return nil
}

func (r *IDCardRepository) ListAfterID(ctx context.Context, afterID uint, limit int) ([]*credential.IDCard, error) {
	var cardModels []models.IDCardModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Find(&cardModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list id cards: %w", err)
	}

	return mapper.MapRowsWithID(cardModels, mappers.IDCardToDomain,
		func(m *models.IDCardModel) uint { return m.ID })
}

func (r *IDCardRepository) CountByActive(ctx context.Context) (total, active int64, err error) {
	tx := db.GetTxFromContext(ctx, r.db)

	if err = tx.Model(&models.IDCardModel{}).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count id cards: %w", err)
	}
	if err = tx.Model(&models.IDCardModel{}).Where("is_active = ?", true).Count(&active).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count active id cards: %w", err)
	}
	return total, active, nil
}

func (r *IDCardRepository) ExpireOverdue(ctx context.Context, today time.Time) (int64, error) {
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.IDCardModel{}).
		Where("expired = ? AND expired_at < ?", false, biztime.TruncateDate(today)).
		Updates(map[string]interface{}{
			"expired":    true,
			"updated_at": r.clock.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire id cards: %w", result.Error)
	}
	return result.RowsAffected, nil
}
