package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriptionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from SubscriptionStatus
		to   SubscriptionStatus
		want bool
	}{
		{StatusPending, StatusActive, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusExpired, false},
		{StatusActive, StatusExpired, true},
		{StatusActive, StatusCancelled, true},
		{StatusActive, StatusPending, false},
		{StatusExpired, StatusActive, false},
		{StatusCancelled, StatusActive, false},
	}

	for _, tt := range tests {
		t.Run(tt.from.String()+"->"+tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestSubscriptionStatus_IsFinal(t *testing.T) {
	assert.False(t, StatusPending.IsFinal())
	assert.False(t, StatusActive.IsFinal())
	assert.True(t, StatusExpired.IsFinal())
	assert.True(t, StatusCancelled.IsFinal())
	assert.False(t, SubscriptionStatus("paused").IsValid())
}

func TestNewPaymentMethod(t *testing.T) {
	m, err := NewPaymentMethod("paystack")
	assert.NoError(t, err)
	assert.True(t, m.IsGateway())

	m, err = NewPaymentMethod("cash")
	assert.NoError(t, err)
	assert.False(t, m.IsGateway())

	_, err = NewPaymentMethod("barter")
	assert.Error(t, err)
}
