package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/subscription"
	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/db"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// SubscriptionRepositoryImpl implements subscription.Repository. Every
// write applies passive expiry first.
type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	clock  biztime.Clock
	logger logger.Interface
}

// NewSubscriptionRepository creates a new subscription repository.
func NewSubscriptionRepository(
	db *gorm.DB,
	clock biztime.Clock,
	logger logger.Interface,
) subscription.Repository {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		clock:  clock,
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *subscription.Subscription) error {
	sub.ApplyPassiveExpiry(r.clock.Today())
	model := r.mapper.ToModel(sub)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err, "user_id", model.UserID)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := sub.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, sub *subscription.Subscription) error {
	sub.ApplyPassiveExpiry(r.clock.Today())
	model := r.mapper.ToModel(sub)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"status":            model.Status,
			"amount_paid":       model.AmountPaid,
			"payment_method":    model.PaymentMethod,
			"payment_reference": model.PaymentReference,
			"auto_renew":        model.AutoRenew,
			"activated_at":      model.ActivatedAt,
			"cancelled_at":      model.CancelledAt,
			"updated_at":        model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	// RowsAffected may be 0 when updated values are identical to existing values.
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get subscription by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) GetActiveByUserID(ctx context.Context, userID uint, today time.Time) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	today = biztime.TruncateDate(today)

	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
			userID, vo.StatusActive, today, today).
		Order("end_date DESC, id DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, subscription.ErrSubscriptionNotFound
		}
		r.logger.Errorw("failed to get active subscription", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get active subscription: %w", err)
	}

	return r.mapper.ToEntity(&model)
}

func (r *SubscriptionRepositoryImpl) ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*subscription.Subscription, int64, error) {
	var (
		items []*models.SubscriptionModel
		total int64
	)

	query := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}
	if err := query.Scopes(db.Paginate(page, pageSize)).Order("id DESC").Find(&items).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "user_id", userID, "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	subs, err := r.mapper.ToEntities(items)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return subs, total, nil
}

// ExpireOverdue selects a bounded batch first because SQLite has no
// UPDATE ... LIMIT.
func (r *SubscriptionRepositoryImpl) ExpireOverdue(ctx context.Context, today time.Time, limit int) (int64, error) {
	today = biztime.TruncateDate(today)
	tx := db.GetTxFromContext(ctx, r.db)

	var ids []uint
	if err := tx.Model(&models.SubscriptionModel{}).
		Where("status = ? AND end_date < ?", vo.StatusActive, today).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to find overdue subscriptions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := tx.Model(&models.SubscriptionModel{}).
		Where("id IN ? AND status = ? AND end_date < ?", ids, vo.StatusActive, today).
		Updates(map[string]interface{}{
			"status":     vo.StatusExpired,
			"updated_at": r.clock.Now(),
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire subscriptions: %w", result.Error)
	}
	return result.RowsAffected, nil
}
