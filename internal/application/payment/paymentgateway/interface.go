// Package paymentgateway defines the contract every payment provider adapter
// implements. Adapters translate provider payloads into the normalized types
// here so nothing downstream branches on provider-specific fields.
package paymentgateway

import (
	"context"
	"net/http"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
)

// Status is a provider verdict reduced to the three outcomes reconciliation
// acts on.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
)

func (s Status) String() string {
	return string(s)
}

// Gateway is a payment provider adapter.
type Gateway interface {
	Provider() vo.Provider
	// Initiate opens a hosted checkout for the charge.
	Initiate(ctx context.Context, req InitiateRequest) (*InitiateResponse, error)
	// Verify asks the provider for the authoritative state of a charge.
	// "Still processing" is StatusPending, never an error.
	Verify(ctx context.Context, req VerifyRequest) (*VerifyResult, error)
	// ParseWebhook authenticates and decodes a webhook delivery. It returns
	// ErrInvalidSignature when authentication fails.
	ParseWebhook(payload []byte, header http.Header) (*WebhookEvent, error)
}

// InitiateRequest describes the charge to open a checkout for.
type InitiateRequest struct {
	Reference   string
	Amount      vo.Money
	PayerEmail  string
	RedirectURL string
	Description string
	Metadata    map[string]string
}

// InitiateResponse is where the payer is sent to pay.
type InitiateResponse struct {
	PaymentURL string
	// GatewayReference is the provider's own identifier, when it differs
	// from Reference.
	GatewayReference string
}

// VerifyRequest identifies the charge to look up.
type VerifyRequest struct {
	Reference        string
	GatewayReference string
}

// VerifyResult is the normalized provider verdict.
type VerifyResult struct {
	Status Status
	// Amount as reported by the provider; nil when the provider omits it.
	Amount     *vo.Money
	Message    string
	RawPayload map[string]any
}

// WebhookEvent identifies the charge a delivery is about. Its status is a
// hint only; reconciliation always re-verifies.
type WebhookEvent struct {
	EventID          string
	EventType        string
	Reference        string
	GatewayReference string
	Status           Status
	RawPayload       map[string]any
}
