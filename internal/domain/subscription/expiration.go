package subscription

import (
	"fmt"
	"time"

	"github.com/memberhub/memberhub/internal/shared/biztime"
)

// CutoffPolicy pins every subscription to one organization-wide renewal date.
type CutoffPolicy struct {
	Month time.Month
	Day   int
}

// DefaultCutoffPolicy expires memberships on July 3.
func DefaultCutoffPolicy() CutoffPolicy {
	return CutoffPolicy{Month: time.July, Day: 3}
}

// NewCutoffPolicy rejects month/day pairs that are not a date in every year,
// which rules out February 29.
func NewCutoffPolicy(month, day int) (CutoffPolicy, error) {
	if month < 1 || month > 12 || day < 1 {
		return CutoffPolicy{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidCutoff, month, day)
	}
	// 2023 is not a leap year; time.Date normalizes overflowing days.
	candidate := time.Date(2023, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Month() != time.Month(month) || candidate.Day() != day {
		return CutoffPolicy{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidCutoff, month, day)
	}
	return CutoffPolicy{Month: time.Month(month), Day: day}, nil
}

// EndDate returns the cutoff in start's year when start falls on or before
// it, otherwise the cutoff of the following year.
func (p CutoffPolicy) EndDate(start time.Time) time.Time {
	start = biztime.TruncateDate(start)
	cutoff := biztime.Date(start.Year(), p.Month, p.Day)
	if !start.After(cutoff) {
		return cutoff
	}
	return biztime.Date(start.Year()+1, p.Month, p.Day)
}

func (p CutoffPolicy) String() string {
	return fmt.Sprintf("%02d-%02d", int(p.Month), p.Day)
}
