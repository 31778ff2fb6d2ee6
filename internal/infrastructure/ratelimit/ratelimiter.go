package ratelimit

import (
	"context"
	"time"
)

// Rule caps requests per key over a sliding window.
type Rule struct {
	Limit  int
	Window time.Duration
}

type RateLimiter interface {
	// Allow records one request for key and reports whether it fits the rule.
	Allow(ctx context.Context, key string, rule Rule) (bool, error)
	// Remaining is how many requests key may still make in the window.
	Remaining(ctx context.Context, key string, rule Rule) (int64, error)
	Reset(ctx context.Context, key string) error
}

// NoopRateLimiter allows every request. Used when Redis is not configured.
type NoopRateLimiter struct{}

func (NoopRateLimiter) Allow(context.Context, string, Rule) (bool, error) { return true, nil }

func (NoopRateLimiter) Remaining(_ context.Context, _ string, rule Rule) (int64, error) {
	return int64(rule.Limit), nil
}

func (NoopRateLimiter) Reset(context.Context, string) error { return nil }
