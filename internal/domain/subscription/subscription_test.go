package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/memberhub/memberhub/internal/domain/subscription/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/biztime"
)

func TestNewSubscription_DerivesEndDate(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		wantEnd time.Time
	}{
		{"joins before cutoff", biztime.Date(2024, 1, 10), biztime.Date(2024, 7, 3)},
		{"joins after cutoff", biztime.Date(2024, 8, 1), biztime.Date(2025, 7, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, err := NewSubscription(1, 2, tt.start, DefaultCutoffPolicy(), testNow)
			require.NoError(t, err)

			assert.Equal(t, vo.StatusPending, sub.Status())
			assert.Equal(t, tt.start, sub.StartDate())
			assert.Equal(t, tt.wantEnd, sub.EndDate())
			assert.Nil(t, sub.ActivatedAt())
		})
	}
}

func TestNewSubscription_Validation(t *testing.T) {
	_, err := NewSubscription(0, 1, biztime.Date(2024, 1, 1), DefaultCutoffPolicy(), testNow)
	assert.Error(t, err)

	_, err = NewSubscription(1, 0, biztime.Date(2024, 1, 1), DefaultCutoffPolicy(), testNow)
	assert.Error(t, err)

	_, err = NewSubscription(1, 1, time.Time{}, DefaultCutoffPolicy(), testNow)
	assert.Error(t, err)
}

func TestSubscription_Activate(t *testing.T) {
	sub := newTestSubscription(t, biztime.Date(2024, 1, 10))

	require.NoError(t, sub.Activate(testNow))
	assert.Equal(t, vo.StatusActive, sub.Status())
	require.NotNil(t, sub.ActivatedAt())
	assert.Equal(t, testNow, *sub.ActivatedAt())

	later := testNow.Add(time.Hour)
	require.NoError(t, sub.Activate(later))
	assert.Equal(t, later, *sub.ActivatedAt(), "re-activation restamps")
}

func TestSubscription_ActivateFromTerminalFails(t *testing.T) {
	sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
	require.NoError(t, sub.Cancel(testNow))

	err := sub.Activate(testNow)

	assert.ErrorIs(t, err, ErrInvalidStatusTransition)
	assert.Equal(t, vo.StatusCancelled, sub.Status())
}

func TestSubscription_Cancel(t *testing.T) {
	t.Run("from pending", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		require.NoError(t, sub.Cancel(testNow))
		assert.Equal(t, vo.StatusCancelled, sub.Status())
		require.NotNil(t, sub.CancelledAt())
	})

	t.Run("from active", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		require.NoError(t, sub.Activate(testNow))
		require.NoError(t, sub.Cancel(testNow))
		assert.Equal(t, vo.StatusCancelled, sub.Status())
	})

	t.Run("twice", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		require.NoError(t, sub.Cancel(testNow))
		assert.ErrorIs(t, sub.Cancel(testNow), ErrInvalidStatusTransition)
	})
}

func TestSubscription_IsActive(t *testing.T) {
	sub := newTestSubscription(t, biztime.Date(2024, 1, 10))

	assert.False(t, sub.IsActive(biztime.Date(2024, 3, 1)), "pending is never active")

	require.NoError(t, sub.Activate(testNow))

	tests := []struct {
		today time.Time
		want  bool
	}{
		{biztime.Date(2024, 1, 9), false},
		{biztime.Date(2024, 1, 10), true},
		{biztime.Date(2024, 7, 3), true},
		{biztime.Date(2024, 7, 4), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sub.IsActive(tt.today), biztime.FormatDate(tt.today))
	}
	assert.Equal(t, vo.StatusActive, sub.Status(), "query does not mutate status")
}

func TestSubscription_DaysUntilExpiry(t *testing.T) {
	sub := newTestSubscription(t, biztime.Date(2024, 1, 10))

	assert.Equal(t, 2, sub.DaysUntilExpiry(biztime.Date(2024, 7, 1)))
	assert.Equal(t, 0, sub.DaysUntilExpiry(biztime.Date(2024, 7, 3)))
	assert.Equal(t, 0, sub.DaysUntilExpiry(biztime.Date(2024, 9, 1)), "never negative")
}

func TestSubscription_ApplyPassiveExpiry(t *testing.T) {
	afterEnd := biztime.Date(2024, 7, 4)

	t.Run("active past end expires", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		require.NoError(t, sub.Activate(testNow))

		assert.False(t, sub.ApplyPassiveExpiry(biztime.Date(2024, 7, 3)))
		assert.Equal(t, vo.StatusActive, sub.Status())

		assert.True(t, sub.ApplyPassiveExpiry(afterEnd))
		assert.Equal(t, vo.StatusExpired, sub.Status())
	})

	t.Run("pending never expires", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		assert.False(t, sub.ApplyPassiveExpiry(afterEnd))
		assert.Equal(t, vo.StatusPending, sub.Status())
	})

	t.Run("cancelled stays cancelled", func(t *testing.T) {
		sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
		require.NoError(t, sub.Cancel(testNow))
		assert.False(t, sub.ApplyPassiveExpiry(afterEnd))
		assert.Equal(t, vo.StatusCancelled, sub.Status())
	})
}

func TestSubscription_SetID(t *testing.T) {
	sub, err := NewSubscription(1, 1, biztime.Date(2024, 1, 10), DefaultCutoffPolicy(), testNow)
	require.NoError(t, err)

	assert.Error(t, sub.SetID(0))
	require.NoError(t, sub.SetID(7))
	assert.Equal(t, uint(7), sub.ID())
	assert.Error(t, sub.SetID(8))
}

func TestSubscription_SetPaymentDetails(t *testing.T) {
	sub := newTestSubscription(t, biztime.Date(2024, 1, 10))
	ref := "ref-1"

	require.NoError(t, sub.SetPaymentDetails(vo.MethodCash, decimal.NewFromInt(5000), &ref, testNow))
	assert.Equal(t, vo.MethodCash, sub.PaymentMethod())
	assert.True(t, decimal.NewFromInt(5000).Equal(sub.AmountPaid()))
	assert.Equal(t, &ref, sub.PaymentReference())

	assert.Error(t, sub.SetPaymentDetails(vo.MethodCash, decimal.NewFromInt(-1), nil, testNow))
}

func TestReconstructSubscription_RejectsInvalid(t *testing.T) {
	start := biztime.Date(2024, 1, 10)
	end := biztime.Date(2024, 7, 3)

	_, err := ReconstructSubscription(0, 1, 1, vo.StatusActive, start, end, decimal.Zero, vo.MethodCash, nil, false, nil, nil, testNow, testNow)
	assert.Error(t, err)

	_, err = ReconstructSubscription(1, 1, 1, "paused", start, end, decimal.Zero, vo.MethodCash, nil, false, nil, nil, testNow, testNow)
	assert.Error(t, err)

	_, err = ReconstructSubscription(1, 1, 1, vo.StatusActive, end, start, decimal.Zero, vo.MethodCash, nil, false, nil, nil, testNow, testNow)
	assert.Error(t, err)
}

// --- helpers ---

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func newTestSubscription(t *testing.T, start time.Time) *Subscription {
	t.Helper()
	sub, err := NewSubscription(1, 1, start, DefaultCutoffPolicy(), testNow)
	require.NoError(t, err)
	require.NoError(t, sub.SetID(1))
	return sub
}
