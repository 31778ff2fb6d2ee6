package models

import (
	"time"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

// IDCardModel stores a member's credential. IDNumber is NULL until assigned
// so the unique index ignores unnumbered cards.
type IDCardModel struct {
	ID        uint       `gorm:"primarykey"`
	UserID    uint       `gorm:"uniqueIndex;not null"`
	IDNumber  *string    `gorm:"uniqueIndex;size:64"`
	FirstTime bool       `gorm:"not null;default:true"`
	IsActive  bool       `gorm:"not null;default:false;index"`
	Expired   bool       `gorm:"not null;default:true"`
	ExpiredAt *time.Time `gorm:"type:date;index"`
	Signature *string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (IDCardModel) TableName() string {
	return constants.TableIDCards
}
