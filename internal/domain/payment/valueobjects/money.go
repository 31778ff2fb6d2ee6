package valueobjects

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const DefaultCurrency = "NGN"

// Money is an amount in major units of an ISO 4217 currency.
type Money struct {
	amount   decimal.Decimal
	currency string
}

// NewMoney creates a new Money rounded to two places. A blank currency
// means DefaultCurrency.
func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("amount cannot be negative")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency: %s", currency)
	}
	return Money{amount: amount.Round(2), currency: currency}, nil
}

// FromMinorUnits converts kobo, cents and the like into Money.
func FromMinorUnits(minor int64, currency string) (Money, error) {
	return NewMoney(decimal.New(minor, -2), currency)
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }

// MinorUnits returns the amount in the currency's smallest unit.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(2).Round(0).IntPart()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.amount.StringFixed(2), m.currency)
}
