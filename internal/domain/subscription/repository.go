package subscription

import (
	"context"
	"time"
)

// Repository persists subscriptions. Implementations apply the passive
// expiry rule on every Create and Update.
type Repository interface {
	Create(ctx context.Context, sub *Subscription) error
	Update(ctx context.Context, sub *Subscription) error
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	// GetActiveByUserID returns the user's subscription that is active on
	// today, or ErrSubscriptionNotFound.
	GetActiveByUserID(ctx context.Context, userID uint, today time.Time) (*Subscription, error)
	ListByUserID(ctx context.Context, userID uint, page, pageSize int) ([]*Subscription, int64, error)
	// ExpireOverdue bulk-applies the passive expiry rule and returns the
	// number of rows changed.
	ExpireOverdue(ctx context.Context, today time.Time, limit int) (int64, error)
}

// PlanRepository persists subscription plans.
type PlanRepository interface {
	Create(ctx context.Context, plan *Plan) error
	Update(ctx context.Context, plan *Plan) error
	GetByID(ctx context.Context, id uint) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	ListActive(ctx context.Context) ([]*Plan, error)
}

// PaymentRepository persists subscription payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uint) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	GetByReference(ctx context.Context, reference string) (*Payment, error)
	ListBySubscriptionID(ctx context.Context, subscriptionID uint) ([]*Payment, error)
}
