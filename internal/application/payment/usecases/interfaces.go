package usecases

import (
	"context"
)

// CredentialActivator extends a member's id card validity. Implemented by the
// credential card service.
type CredentialActivator interface {
	ActivateForDays(ctx context.Context, userID uint, days int) error
}

// WebhookDeduplicator remembers webhook event ids already handled.
type WebhookDeduplicator interface {
	// TryClaim returns true the first time key is seen.
	TryClaim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}
