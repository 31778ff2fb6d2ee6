package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
// This is the anti-corruption layer between domain and database
type SubscriptionModel struct {
	ID               uint            `gorm:"primarykey"`
	UserID           uint            `gorm:"not null;index:idx_user_subscription"`
	PlanID           uint            `gorm:"not null;index:idx_plan_subscription"`
	Status           string          `gorm:"not null;size:20;index:idx_status_end_date,priority:1"`
	StartDate        time.Time       `gorm:"type:date;not null"`
	EndDate          time.Time       `gorm:"type:date;not null;index:idx_status_end_date,priority:2"`
	AmountPaid       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PaymentMethod    string          `gorm:"not null;size:20"`
	PaymentReference *string         `gorm:"uniqueIndex;size:100"`
	AutoRenew        bool            `gorm:"not null;default:false"`
	ActivatedAt      *time.Time
	CancelledAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
