package valueobjects

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	m, err := NewMoney(decimal.RequireFromString("500.005"), "ngn")
	require.NoError(t, err)

	assert.Equal(t, "NGN", m.Currency())
	assert.Equal(t, int64(50001), m.MinorUnits())
	assert.Equal(t, "500.01 NGN", m.String())

	fromKobo, err := FromMinorUnits(50000, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, fromKobo.Currency())
	assert.True(t, decimal.NewFromInt(500).Equal(fromKobo.Amount()))
	assert.False(t, m.Equals(fromKobo))

	_, err = NewMoney(decimal.NewFromInt(-1), "NGN")
	assert.Error(t, err)
	_, err = NewMoney(decimal.NewFromInt(1), "NAIRA")
	assert.Error(t, err)
}

func TestTransactionStatus(t *testing.T) {
	assert.True(t, StatusPending.IsPending())
	assert.False(t, StatusPending.IsFinal())
	assert.True(t, StatusSuccess.IsFinal())
	assert.False(t, StatusFailed.IsFinal(), "a declined charge may be retried")
	assert.False(t, TransactionStatus("processing").IsValid())
}

func TestTransactionStatus_CanFollow(t *testing.T) {
	tests := []struct {
		to, from TransactionStatus
		want     bool
	}{
		{StatusSuccess, StatusPending, true},
		{StatusSuccess, StatusFailed, true},
		{StatusSuccess, StatusSuccess, false},
		{StatusFailed, StatusPending, true},
		{StatusFailed, StatusFailed, false},
		{StatusFailed, StatusSuccess, false},
		{StatusPending, StatusFailed, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.to.CanFollow(tt.from), "%s -> %s", tt.from, tt.to)
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("flutterwave")
	require.NoError(t, err)
	assert.Equal(t, ProviderFlutterwave, p)

	_, err = NewProvider("paypal")
	assert.Error(t, err)
}
