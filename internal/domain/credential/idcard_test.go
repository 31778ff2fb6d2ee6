package credential

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberhub/memberhub/internal/shared/biztime"
)

func TestNewIDCard_Defaults(t *testing.T) {
	card, err := NewIDCard(5, testNow)
	require.NoError(t, err)

	assert.True(t, card.FirstTime())
	assert.False(t, card.IsActive())
	assert.True(t, card.Expired())
	assert.Nil(t, card.ExpiredAt())
	assert.Empty(t, card.IDNumber())
	assert.Nil(t, card.DaysRemaining(testToday))

	_, err = NewIDCard(0, testNow)
	assert.Error(t, err)
}

func TestIDCard_EnsureIDNumber_GeneratesOnce(t *testing.T) {
	card, err := NewIDCard(5, testNow)
	require.NoError(t, err)
	gen := &sequenceGenerator{numbers: []string{"LYY1234567", "LYY7654321"}}

	require.NoError(t, card.EnsureIDNumber(gen, nil, testToday))
	first := card.IDNumber()

	for i := 0; i < 3; i++ {
		require.NoError(t, card.EnsureIDNumber(gen, nil, testToday))
		require.NoError(t, card.ActivateForDays(testToday, 30, testNow))
		card.RefreshExpiry(testToday, testNow)
	}

	assert.Equal(t, "LYY1234567", first)
	assert.Equal(t, first, card.IDNumber())
	assert.Equal(t, 1, gen.calls)
}

func TestIDCard_ActivateForDays(t *testing.T) {
	card, err := NewIDCard(5, testNow)
	require.NoError(t, err)

	require.NoError(t, card.ActivateForDays(testToday, 30, testNow))

	assert.True(t, card.IsActive())
	assert.False(t, card.FirstTime())
	assert.False(t, card.Expired())
	require.NotNil(t, card.ExpiredAt())
	assert.Equal(t, biztime.Date(2024, 2, 9), *card.ExpiredAt())
	assert.Equal(t, 30, *card.DaysRemaining(testToday))

	assert.ErrorIs(t, card.ActivateForDays(testToday, 0, testNow), ErrInvalidValidityDays)
}

func TestIDCard_RefreshExpiry(t *testing.T) {
	card, err := NewIDCard(5, testNow)
	require.NoError(t, err)
	require.NoError(t, card.ActivateForDays(testToday, 30, testNow))
	expiry := *card.ExpiredAt()

	assert.False(t, card.RefreshExpiry(expiry, testNow), "still valid on the expiry date")
	assert.False(t, card.Expired())

	assert.True(t, card.RefreshExpiry(expiry.AddDate(0, 0, 1), testNow))
	assert.True(t, card.Expired())

	assert.False(t, card.RefreshExpiry(expiry.AddDate(0, 0, 2), testNow), "no change when already expired")
	assert.Equal(t, -2, *card.DaysRemaining(expiry.AddDate(0, 0, 2)))
}

func TestIDCard_RefreshExpiry_NeverActivated(t *testing.T) {
	card, err := NewIDCard(5, testNow)
	require.NoError(t, err)

	changed := card.RefreshExpiry(testToday, testNow)

	assert.True(t, changed)
	assert.False(t, card.Expired(), "no expiry date clears the flag")
	assert.False(t, card.IsActive())
}

func TestIDCard_ReplaceNonCanonicalIDNumber(t *testing.T) {
	legacy, err := ReconstructIDCard(1, 5, "NTST123456789000", true, false, true, nil, nil, testNow, testNow)
	require.NoError(t, err)

	require.NoError(t, legacy.ReplaceNonCanonicalIDNumber("LYA1234567", testNow))
	assert.Equal(t, "LYA1234567", legacy.IDNumber())

	assert.ErrorIs(t, legacy.ReplaceNonCanonicalIDNumber("LYA7654321", testNow), ErrIDNumberAssigned)

	other, err := ReconstructIDCard(2, 6, "", true, false, true, nil, nil, testNow, testNow)
	require.NoError(t, err)
	assert.Error(t, other.ReplaceNonCanonicalIDNumber("NTST1", testNow))
}

// --- helpers ---

var (
	testNow   = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	testToday = biztime.Date(2024, 1, 10)
)

type sequenceGenerator struct {
	numbers []string
	calls   int
}

func (g *sequenceGenerator) Generate(_ *time.Time, _ time.Time) (string, error) {
	n := g.numbers[g.calls%len(g.numbers)]
	g.calls++
	return n, nil
}
