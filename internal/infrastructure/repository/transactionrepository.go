package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/mappers"
	"github.com/memberhub/memberhub/internal/infrastructure/persistence/models"
	"github.com/memberhub/memberhub/internal/shared/db"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// TransactionRepository implements payment.TransactionRepository with gorm.
type TransactionRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB, logger logger.Interface) *TransactionRepository {
	return &TransactionRepository{db: db, logger: logger}
}

func (r *TransactionRepository) Create(ctx context.Context, txn *payment.Transaction) error {
	model := mappers.TransactionToModel(txn)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return txn.SetID(model.ID)
}

func (r *TransactionRepository) Delete(ctx context.Context, id uint) error {
	if err := db.GetTxFromContext(ctx, r.db).Delete(&models.TransactionModel{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) GetByReference(ctx context.Context, reference string) (*payment.Transaction, error) {
	var model models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("reference = ?", reference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}

	return mappers.TransactionToDomain(&model)
}

func (r *TransactionRepository) GetByGatewayReference(ctx context.Context, provider vo.Provider, gatewayReference string) (*payment.Transaction, error) {
	var model models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND gateway_reference = ?", provider, gatewayReference).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by gateway reference: %w", err)
	}

	return mappers.TransactionToDomain(&model)
}

func (r *TransactionRepository) UpdateGatewayReference(ctx context.Context, txn *payment.Transaction) error {
	err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("id = ?", txn.ID()).
		Updates(map[string]interface{}{
			"gateway_reference": txn.GatewayReference(),
			"updated_at":        txn.UpdatedAt(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update gateway reference: %w", err)
	}
	return nil
}

// Finalize is a compare-and-set on status: the WHERE clause only matches a
// row in a status the new one may follow, so exactly one concurrent caller
// sees a row change.
func (r *TransactionRepository) Finalize(ctx context.Context, txn *payment.Transaction) (bool, error) {
	priors := txn.Status().PriorStatuses()
	if len(priors) == 0 {
		return false, fmt.Errorf("transaction %s has no final status to persist", txn.Reference())
	}

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.TransactionModel{}).
		Where("id = ? AND status IN ?", txn.ID(), priors).
		Updates(map[string]interface{}{
			"status":      txn.Status(),
			"response":    datatypes.JSONMap(txn.Response()),
			"verified_at": txn.VerifiedAt(),
			"updated_at":  txn.UpdatedAt(),
		})
	if result.Error != nil {
		r.logger.Errorw("failed to finalize transaction", "error", result.Error, "reference", txn.Reference())
		return false, fmt.Errorf("failed to finalize transaction: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *TransactionRepository) ListPendingCreatedBefore(ctx context.Context, before time.Time, afterID uint, limit int) ([]*payment.Transaction, error) {
	var txnModels []models.TransactionModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND created_at < ? AND id > ?", vo.StatusPending, before, afterID).
		Order("id ASC").
		Limit(limit).
		Find(&txnModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}

	txns := make([]*payment.Transaction, 0, len(txnModels))
	for i := range txnModels {
		txn, err := mappers.TransactionToDomain(&txnModels[i])
		if err != nil {
			r.logger.Warnw("skipping unreadable transaction", "error", err, "id", txnModels[i].ID)
			continue
		}
		txns = append(txns, txn)
	}
	return txns, nil
}
