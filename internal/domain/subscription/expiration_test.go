package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memberhub/memberhub/internal/shared/biztime"
)

func TestCutoffPolicy_EndDate(t *testing.T) {
	policy := DefaultCutoffPolicy()

	tests := []struct {
		name  string
		start time.Time
		want  time.Time
	}{
		{"on cutoff is inclusive", biztime.Date(2024, 7, 3), biztime.Date(2024, 7, 3)},
		{"day after cutoff rolls to next year", biztime.Date(2024, 7, 4), biztime.Date(2025, 7, 3)},
		{"early in year", biztime.Date(2024, 1, 10), biztime.Date(2024, 7, 3)},
		{"after cutoff", biztime.Date(2024, 8, 1), biztime.Date(2025, 7, 3)},
		{"new year's day", biztime.Date(2025, 1, 1), biztime.Date(2025, 7, 3)},
		{"new year's eve", biztime.Date(2024, 12, 31), biztime.Date(2025, 7, 3)},
		{"leap day start", biztime.Date(2024, 2, 29), biztime.Date(2024, 7, 3)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.EndDate(tt.start))
		})
	}
}

func TestCutoffPolicy_EndDateIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 7, 3, 22, 15, 0, 0, time.UTC)

	assert.Equal(t, biztime.Date(2024, 7, 3), DefaultCutoffPolicy().EndDate(start))
}

func TestCutoffPolicy_EndDateProperties(t *testing.T) {
	policy := CutoffPolicy{Month: time.December, Day: 31}
	start := biztime.Date(2023, 1, 1)

	for i := 0; i < 800; i++ {
		d := start.AddDate(0, 0, i)
		end := policy.EndDate(d)

		require.False(t, end.Before(d), "end %s before start %s", end, d)
		require.Equal(t, policy.Month, end.Month())
		require.Equal(t, policy.Day, end.Day())
		require.True(t, end.Year() == d.Year() || end.Year() == d.Year()+1)
	}
}

func TestNewCutoffPolicy(t *testing.T) {
	p, err := NewCutoffPolicy(7, 3)
	require.NoError(t, err)
	assert.Equal(t, DefaultCutoffPolicy(), p)
	assert.Equal(t, "07-03", p.String())

	for _, bad := range [][2]int{{2, 29}, {2, 30}, {4, 31}, {13, 1}, {0, 5}, {6, 0}} {
		_, err := NewCutoffPolicy(bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidCutoff, "month=%d day=%d", bad[0], bad[1])
	}
}
