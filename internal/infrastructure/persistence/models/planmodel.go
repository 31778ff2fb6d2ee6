package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

type PlanModel struct {
	ID             uint            `gorm:"primarykey"`
	Name           string          `gorm:"uniqueIndex;not null;size:100"`
	Description    string          `gorm:"size:500"`
	Price          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DurationMonths int             `gorm:"not null;default:12"`
	IsActive       bool            `gorm:"not null;default:true;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName specifies the table name for GORM
func (PlanModel) TableName() string {
	return constants.TableSubscriptionPlans
}
