package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/memberhub/memberhub/internal/domain/payment"
	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// ReconcileStaleTransactionsUseCase re-verifies pending transactions that
// neither a webhook nor a client poll has settled. Each run resumes after
// the last transaction the previous run checked, so rows the gateway keeps
// reporting as pending cannot hide newer ones from the sweep.
type ReconcileStaleTransactionsUseCase struct {
	txnRepo    payment.TransactionRepository
	reconciler Reconciler
	clock      biztime.Clock
	staleAfter time.Duration
	batchSize  int
	logger     logger.Interface

	mu     sync.Mutex
	cursor uint
}

// NewReconcileStaleTransactionsUseCase creates a new sweep. staleAfter
// defaults to 15 minutes and batchSize to 100.
func NewReconcileStaleTransactionsUseCase(
	txnRepo payment.TransactionRepository,
	reconciler Reconciler,
	clock biztime.Clock,
	staleAfter time.Duration,
	batchSize int,
	logger logger.Interface,
) *ReconcileStaleTransactionsUseCase {
	if staleAfter <= 0 {
		staleAfter = 15 * time.Minute
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &ReconcileStaleTransactionsUseCase{
		txnRepo:    txnRepo,
		reconciler: reconciler,
		clock:      clock,
		staleAfter: staleAfter,
		batchSize:  batchSize,
		logger:     logger,
	}
}

// Execute checks one page of stale transactions and returns how many
// reached a final status. The cursor wraps to the start once a short page
// shows the end of the backlog.
func (uc *ReconcileStaleTransactionsUseCase) Execute(ctx context.Context) (int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	cutoff := uc.clock.Now().Add(-uc.staleAfter)
	pending, err := uc.txnRepo.ListPendingCreatedBefore(ctx, cutoff, uc.cursor, uc.batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale transactions: %w", err)
	}

	settled := 0
	for _, txn := range pending {
		if ctx.Err() != nil {
			return settled, ctx.Err()
		}
		uc.cursor = txn.ID()
		result, err := uc.reconciler.Execute(ctx, txn.Reference())
		if err != nil {
			uc.logger.Warnw("failed to reconcile stale transaction", "error", err, "reference", txn.Reference())
			continue
		}
		if result.Outcome == OutcomeSucceeded || result.Outcome == OutcomeFailed {
			settled++
		}
	}
	if len(pending) < uc.batchSize {
		uc.cursor = 0
	}

	if settled > 0 {
		uc.logger.Infow("stale transactions reconciled", "checked", len(pending), "settled", settled)
	}
	return settled, nil
}
