package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	webhookKeyPrefix = "webhook_event:"
	// DefaultWebhookClaimTTL outlives every provider's redelivery window.
	DefaultWebhookClaimTTL = 24 * time.Hour
)

// WebhookDeduplicator records webhook deliveries that have been claimed for
// processing so redeliveries of the same event are acknowledged without work.
type WebhookDeduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

func NewWebhookDeduplicator(client *redis.Client, ttl time.Duration) *WebhookDeduplicator {
	if ttl <= 0 {
		ttl = DefaultWebhookClaimTTL
	}
	return &WebhookDeduplicator{client: client, ttl: ttl}
}

// Format: webhook_event:{provider}:{event_id}
func (d *WebhookDeduplicator) buildKey(key string) string {
	return webhookKeyPrefix + key
}

// TryClaim returns true when key was not claimed before. SetNX keeps this
// atomic across instances.
func (d *WebhookDeduplicator) TryClaim(ctx context.Context, key string) (bool, error) {
	claimed, err := d.client.SetNX(ctx, d.buildKey(key), time.Now().UTC().Format(time.RFC3339), d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to claim webhook event: %w", err)
	}
	return claimed, nil
}

// Release forgets a claim so the provider's retry is processed again.
func (d *WebhookDeduplicator) Release(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, d.buildKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to release webhook event: %w", err)
	}
	return nil
}

// Remaining returns how long key stays claimed; 0 when it is not.
func (d *WebhookDeduplicator) Remaining(ctx context.Context, key string) (time.Duration, error) {
	ttl, err := d.client.TTL(ctx, d.buildKey(key)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read webhook claim: %w", err)
	}
	// -2 missing, -1 no expiry
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}
