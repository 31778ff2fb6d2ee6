package credential

import (
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/shared/biztime"
)

// IDCard is a member's credential. Its id number is assigned once and never
// changes afterwards.
type IDCard struct {
	id        uint
	userID    uint
	idNumber  string
	firstTime bool
	isActive  bool
	expired   bool
	expiredAt *time.Time
	signature *string
	createdAt time.Time
	updatedAt time.Time
}

// NewIDCard returns an inactive, expired card that has never been activated.
func NewIDCard(userID uint, now time.Time) (*IDCard, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	return &IDCard{
		userID:    userID,
		firstTime: true,
		isActive:  false,
		expired:   true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructIDCard rebuilds an IDCard from persisted state.
func ReconstructIDCard(
	id, userID uint,
	idNumber string,
	firstTime, isActive, expired bool,
	expiredAt *time.Time,
	signature *string,
	createdAt, updatedAt time.Time,
) (*IDCard, error) {
	if id == 0 {
		return nil, fmt.Errorf("id card ID cannot be zero")
	}
	if expiredAt != nil {
		d := biztime.TruncateDate(*expiredAt)
		expiredAt = &d
	}
	return &IDCard{
		id:        id,
		userID:    userID,
		idNumber:  idNumber,
		firstTime: firstTime,
		isActive:  isActive,
		expired:   expired,
		expiredAt: expiredAt,
		signature: signature,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (c *IDCard) ID() uint              { return c.id }
func (c *IDCard) UserID() uint          { return c.userID }
func (c *IDCard) IDNumber() string      { return c.idNumber }
func (c *IDCard) FirstTime() bool       { return c.firstTime }
func (c *IDCard) IsActive() bool        { return c.isActive }
func (c *IDCard) Expired() bool         { return c.expired }
func (c *IDCard) ExpiredAt() *time.Time { return c.expiredAt }
func (c *IDCard) Signature() *string    { return c.signature }
func (c *IDCard) CreatedAt() time.Time  { return c.createdAt }
func (c *IDCard) UpdatedAt() time.Time  { return c.updatedAt }

func (c *IDCard) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("id card ID already set")
	}
	c.id = id
	return nil
}

// EnsureIDNumber assigns an id number if the card has none. A card that
// already carries a number is left untouched.
func (c *IDCard) EnsureIDNumber(gen IDNumberGenerator, dob *time.Time, today time.Time) error {
	if c.idNumber != "" {
		return nil
	}
	number, err := gen.Generate(dob, today)
	if err != nil {
		return err
	}
	c.idNumber = number
	return nil
}

// ReplaceNonCanonicalIDNumber swaps a number issued under an older scheme for
// a canonical one. Canonical numbers are never replaced.
func (c *IDCard) ReplaceNonCanonicalIDNumber(number string, now time.Time) error {
	if IsCanonicalIDNumber(c.idNumber) {
		return ErrIDNumberAssigned
	}
	if !IsCanonicalIDNumber(number) {
		return fmt.Errorf("replacement id number %q is not canonical", number)
	}
	c.idNumber = number
	c.updatedAt = now
	return nil
}

// ActivateForDays makes the card valid until today plus days. Payment
// success and the demo grant both come through here.
func (c *IDCard) ActivateForDays(today time.Time, days int, now time.Time) error {
	if days <= 0 {
		return ErrInvalidValidityDays
	}
	expiresAt := biztime.AddDays(today, days)
	c.isActive = true
	c.firstTime = false
	c.expired = false
	c.expiredAt = &expiresAt
	c.updatedAt = now
	return nil
}

// RefreshExpiry recomputes the expired flag: set when expiredAt lies before
// today, cleared otherwise. Reports whether the flag changed.
func (c *IDCard) RefreshExpiry(today time.Time, now time.Time) bool {
	expired := c.expiredAt != nil && c.expiredAt.Before(biztime.TruncateDate(today))
	if expired == c.expired {
		return false
	}
	c.expired = expired
	c.updatedAt = now
	return true
}

// DaysRemaining is the signed number of days until expiry, or nil for a card
// that has never been activated.
func (c *IDCard) DaysRemaining(today time.Time) *int {
	if c.expiredAt == nil {
		return nil
	}
	days := biztime.DaysBetween(today, *c.expiredAt)
	return &days
}
