package dto

import "time"

// SubscriptionDTO is the API view of a subscription.
type SubscriptionDTO struct {
	ID               uint       `json:"id"`
	UserID           uint       `json:"user_id"`
	PlanID           uint       `json:"plan_id"`
	Status           string     `json:"status"`
	StartDate        string     `json:"start_date"`
	EndDate          string     `json:"end_date"`
	AmountPaid       string     `json:"amount_paid"`
	PaymentMethod    string     `json:"payment_method"`
	PaymentReference *string    `json:"payment_reference"`
	AutoRenew        bool       `json:"auto_renew"`
	IsActive         bool       `json:"is_active"`
	DaysUntilExpiry  int        `json:"days_until_expiry"`
	ActivatedAt      *time.Time `json:"activated_at"`
	CancelledAt      *time.Time `json:"cancelled_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// PlanDTO is the API view of a plan.
type PlanDTO struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Price          string    `json:"price"`
	DurationMonths int       `json:"duration_months"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PaymentDTO is the API view of a subscription payment.
type PaymentDTO struct {
	ID             uint       `json:"id"`
	SubscriptionID uint       `json:"subscription_id"`
	Amount         string     `json:"amount"`
	Method         string     `json:"payment_method"`
	Reference      string     `json:"payment_reference"`
	Status         string     `json:"status"`
	Notes          string     `json:"notes,omitempty"`
	PaidAt         *time.Time `json:"paid_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PaymentRecordedDTO pairs an offline payment with the subscription state it
// left behind.
type PaymentRecordedDTO struct {
	Payment      *PaymentDTO      `json:"payment"`
	Subscription *SubscriptionDTO `json:"subscription"`
}

// SeedPlansResult reports which default plans were created.
type SeedPlansResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}
