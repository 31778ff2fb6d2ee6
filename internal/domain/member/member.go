// Package member is the read model of a card holder. Members are registered
// and authenticated elsewhere; this service only reads them.
package member

import (
	"context"
	"errors"
	"strings"
	"time"
)

var ErrMemberNotFound = errors.New("member not found")

// Member is the read-only view of a user account that payments and cards need.
type Member struct {
	ID          uint
	Email       string
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
}

func (m *Member) FullName() string {
	return strings.TrimSpace(m.FirstName + " " + m.LastName)
}

// Repository loads members.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*Member, error)
}
