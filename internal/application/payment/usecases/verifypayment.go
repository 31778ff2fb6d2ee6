package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/memberhub/memberhub/internal/domain/payment"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// Reconciler is the reconciliation entry point shared by every path.
type Reconciler interface {
	Execute(ctx context.Context, reference string) (*ReconcileResult, error)
}

// VerifyPaymentCommand is a client poll for one transaction.
type VerifyPaymentCommand struct {
	Reference string
	// UserID restricts verification to the caller's own transactions. Nil
	// for the public donation check.
	UserID *uint
	// Purpose, when set, must match the transaction.
	Purpose vo.Purpose
}

// VerifyPaymentUseCase is the client polling path.
type VerifyPaymentUseCase struct {
	txnRepo    payment.TransactionRepository
	reconciler Reconciler
	logger     logger.Interface
}

// NewVerifyPaymentUseCase creates a new use case.
func NewVerifyPaymentUseCase(
	txnRepo payment.TransactionRepository,
	reconciler Reconciler,
	logger logger.Interface,
) *VerifyPaymentUseCase {
	return &VerifyPaymentUseCase{
		txnRepo:    txnRepo,
		reconciler: reconciler,
		logger:     logger,
	}
}

func (uc *VerifyPaymentUseCase) Execute(ctx context.Context, cmd VerifyPaymentCommand) (*ReconcileResult, error) {
	if cmd.Reference == "" {
		return nil, apperrors.NewValidationError("reference is required")
	}

	txn, err := uc.txnRepo.GetByReference(ctx, cmd.Reference)
	if err != nil {
		if errors.Is(err, payment.ErrTransactionNotFound) {
			return nil, apperrors.NewNotFoundError(msgNotFound)
		}
		uc.logger.Errorw("failed to get transaction", "error", err, "reference", cmd.Reference)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	if cmd.UserID != nil && (txn.UserID() == nil || *txn.UserID() != *cmd.UserID) {
		return nil, apperrors.NewNotFoundError(msgNotFound)
	}
	if cmd.Purpose != "" && txn.Purpose() != cmd.Purpose {
		return nil, apperrors.NewNotFoundError(msgNotFound)
	}

	result, err := uc.reconciler.Execute(ctx, cmd.Reference)
	if err != nil {
		return nil, err
	}
	if result.Outcome == OutcomeNotFound {
		return nil, apperrors.NewNotFoundError(msgNotFound)
	}
	return result, nil
}
