package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T) (*RedisRateLimiter, *time.Time) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	l := NewRedisRateLimiter(client)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestRedisRateLimiter_Allow(t *testing.T) {
	l, now := setupLimiter(t)
	ctx := context.Background()
	rule := Rule{Limit: 3, Window: time.Minute}

	for i := 0; i < 3; i++ {
		allowed, err := l.Allow(ctx, "verify:10.0.0.1", rule)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, err := l.Allow(ctx, "verify:10.0.0.1", rule)
	require.NoError(t, err)
	assert.False(t, allowed, "4th request should be denied")

	allowed, err = l.Allow(ctx, "verify:10.0.0.2", rule)
	require.NoError(t, err)
	assert.True(t, allowed, "other keys have their own budget")

	*now = now.Add(61 * time.Second)
	allowed, err = l.Allow(ctx, "verify:10.0.0.1", rule)
	require.NoError(t, err)
	assert.True(t, allowed, "window slid past earlier requests")
}

func TestRedisRateLimiter_RemainingAndReset(t *testing.T) {
	l, _ := setupLimiter(t)
	ctx := context.Background()
	rule := Rule{Limit: 5, Window: time.Minute}

	remaining, err := l.Remaining(ctx, "k", rule)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)

	for i := 0; i < 2; i++ {
		_, err := l.Allow(ctx, "k", rule)
		require.NoError(t, err)
	}
	remaining, err = l.Remaining(ctx, "k", rule)
	require.NoError(t, err)
	assert.Equal(t, int64(3), remaining)

	require.NoError(t, l.Reset(ctx, "k"))
	remaining, err = l.Remaining(ctx, "k", rule)
	require.NoError(t, err)
	assert.Equal(t, int64(5), remaining)
}

func TestRedisRateLimiter_DisabledRule(t *testing.T) {
	l, _ := setupLimiter(t)
	for i := 0; i < 10; i++ {
		allowed, err := l.Allow(context.Background(), "k", Rule{})
		require.NoError(t, err)
		assert.True(t, allowed)
	}
}
