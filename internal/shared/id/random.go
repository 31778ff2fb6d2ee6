// Package id generates random identifiers.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

const digits = "0123456789"

// Digits returns n cryptographically random decimal digits. The first digit
// is never zero so the value keeps its width when read as a number.
func Digits(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("invalid digit count: %d", n)
	}

	result := make([]byte, n)
	for i := 0; i < n; i++ {
		alphabet := digits
		if i == 0 {
			alphabet = digits[1:]
		}
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// NewReference returns a fresh external payment reference.
func NewReference() string {
	return uuid.NewString()
}

// IsReference reports whether s parses as a reference produced by NewReference.
func IsReference(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
