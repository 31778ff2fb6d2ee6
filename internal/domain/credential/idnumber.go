package credential

import (
	"fmt"
	"regexp"
	"time"

	"github.com/memberhub/memberhub/internal/shared/biztime"
	"github.com/memberhub/memberhub/internal/shared/id"
)

const (
	PrefixAdult = "LYA"
	PrefixYouth = "LYY"

	// AdultAge is the age from which a holder receives the adult prefix.
	AdultAge = 31

	idNumberDigits = 7
)

var canonicalIDNumber = regexp.MustCompile(`^LY[AY][0-9]{7}$`)

// IsCanonicalIDNumber reports whether s follows the LYA/LYY scheme.
func IsCanonicalIDNumber(s string) bool {
	return canonicalIDNumber.MatchString(s)
}

// PrefixFor picks the id-number prefix for a holder born on dob, as of today.
// An unknown birth date yields the youth prefix.
func PrefixFor(dob *time.Time, today time.Time) string {
	if dob == nil {
		return PrefixYouth
	}
	if AgeOn(*dob, today) >= AdultAge {
		return PrefixAdult
	}
	return PrefixYouth
}

// AgeOn returns completed years between dob and today.
func AgeOn(dob, today time.Time) int {
	dob = biztime.TruncateDate(dob)
	today = biztime.TruncateDate(today)
	age := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		age--
	}
	return age
}

// IDNumberGenerator produces candidate id numbers.
type IDNumberGenerator interface {
	Generate(dob *time.Time, today time.Time) (string, error)
}

type randomIDNumberGenerator struct{}

// NewIDNumberGenerator returns the LYA/LYY generator backed by crypto/rand.
func NewIDNumberGenerator() IDNumberGenerator {
	return randomIDNumberGenerator{}
}

func (randomIDNumberGenerator) Generate(dob *time.Time, today time.Time) (string, error) {
	suffix, err := id.Digits(idNumberDigits)
	if err != nil {
		return "", fmt.Errorf("failed to generate id number: %w", err)
	}
	return PrefixFor(dob, today) + suffix, nil
}
