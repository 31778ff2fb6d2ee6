package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/memberhub/memberhub/internal/shared/constants"
)

// UserModel is the read side of the users table. Accounts are registered and
// authenticated by the identity service; only the columns this service
// needs are mapped.
type UserModel struct {
	ID          uint       `gorm:"primarykey"`
	Email       string     `gorm:"uniqueIndex;not null;size:255"`
	FirstName   string     `gorm:"size:100"`
	LastName    string     `gorm:"size:100"`
	DateOfBirth *time.Time `gorm:"type:date"`
	Role        string     `gorm:"not null;size:20;default:member"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return constants.TableUsers
}
