package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

type SubscriptionPaymentModel struct {
	ID               uint              `gorm:"primarykey"`
	SubscriptionID   uint              `gorm:"not null;index"`
	Amount           decimal.Decimal   `gorm:"type:decimal(12,2);not null"`
	PaymentMethod    string            `gorm:"not null;size:20"`
	PaymentReference string            `gorm:"uniqueIndex;not null;size:100"`
	Status           string            `gorm:"not null;size:20;index"`
	GatewayResponse  datatypes.JSONMap `gorm:"type:json"`
	Notes            string            `gorm:"type:text"`
	PaidAt           *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionPaymentModel) TableName() string {
	return constants.TableSubscriptionPayments
}
