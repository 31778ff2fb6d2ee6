package payment

import (
	"context"
	"time"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
)

// TransactionRepository persists transactions.
type TransactionRepository interface {
	Create(ctx context.Context, txn *Transaction) error
	Delete(ctx context.Context, id uint) error
	GetByReference(ctx context.Context, reference string) (*Transaction, error)
	GetByGatewayReference(ctx context.Context, provider vo.Provider, gatewayReference string) (*Transaction, error)
	UpdateGatewayReference(ctx context.Context, txn *Transaction) error
	// Finalize persists txn's new status and response as one conditional
	// update that only matches a stored row in one of the status's prior
	// statuses. It returns false when another caller got there first.
	Finalize(ctx context.Context, txn *Transaction) (bool, error)
	// ListPendingCreatedBefore pages pending transactions created before the
	// cutoff in id order, starting after afterID.
	ListPendingCreatedBefore(ctx context.Context, before time.Time, afterID uint, limit int) ([]*Transaction, error)
}
