package credential

import (
	"context"
	"time"
)

// Repository persists id cards. Update never rewrites a stored id number
// except through ReplaceIDNumber.
type Repository interface {
	Create(ctx context.Context, card *IDCard) error
	Update(ctx context.Context, card *IDCard) error
	GetByUserID(ctx context.Context, userID uint) (*IDCard, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*IDCard, error)
	ExistsByIDNumber(ctx context.Context, idNumber string) (bool, error)
	// ReplaceIDNumber rewrites the number of a card whose stored number is
	// still oldNumber.
	ReplaceIDNumber(ctx context.Context, card *IDCard, oldNumber string) error
	// ListAfterID pages through all cards in id order.
	ListAfterID(ctx context.Context, afterID uint, limit int) ([]*IDCard, error)
	CountByActive(ctx context.Context) (total, active int64, err error)
	// ExpireOverdue flags cards whose expiry date lies before today.
	ExpireOverdue(ctx context.Context, today time.Time) (int64, error)
}
