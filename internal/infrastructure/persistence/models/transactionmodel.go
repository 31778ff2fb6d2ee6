package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

// TransactionModel is one attempted external charge. Reference is unique and
// is what the gateway echoes back.
type TransactionModel struct {
	ID                    uint              `gorm:"primarykey"`
	Reference             string            `gorm:"uniqueIndex;not null;size:64"`
	Provider              string            `gorm:"not null;size:20;index:idx_provider_gateway_ref,priority:1"`
	Purpose               string            `gorm:"not null;size:20"`
	Status                string            `gorm:"not null;size:10;default:pending;index:idx_status_created,priority:1"`
	UserID                *uint             `gorm:"index"`
	PayerEmail            string            `gorm:"not null;size:255"`
	SubscriptionPaymentID *uint             `gorm:"index"`
	Amount                decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	Currency              string            `gorm:"not null;size:3"`
	GatewayReference      *string           `gorm:"size:128;index:idx_provider_gateway_ref,priority:2"`
	Response              datatypes.JSONMap `gorm:"type:json"`
	VerifiedAt            *time.Time
	CreatedAt             time.Time `gorm:"index:idx_status_created,priority:2"`
	UpdatedAt             time.Time
}

// TableName specifies the table name for GORM
func (TransactionModel) TableName() string {
	return constants.TableTransactions
}
