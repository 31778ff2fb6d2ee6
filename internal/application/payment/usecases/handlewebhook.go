package usecases

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	"github.com/memberhub/memberhub/internal/domain/payment"
	apperrors "github.com/memberhub/memberhub/internal/shared/errors"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// HandleWebhookCommand carries one raw webhook delivery.
type HandleWebhookCommand struct {
	Provider string
	Payload  []byte
	Header   http.Header
}

// WebhookResult reports what a webhook delivery led to.
type WebhookResult struct {
	Duplicate bool    `json:"duplicate"`
	Outcome   Outcome `json:"outcome,omitempty"`
	Reference string  `json:"reference,omitempty"`
}

// HandleWebhookUseCase authenticates a provider delivery and feeds it to the
// reconciler. The delivery's own status is never trusted; the charge is
// re-verified with the provider.
type HandleWebhookUseCase struct {
	txnRepo    payment.TransactionRepository
	gateways   *paymentgateway.Registry
	reconciler Reconciler
	dedup      WebhookDeduplicator
	logger     logger.Interface
}

// NewHandleWebhookUseCase creates a new use case.
func NewHandleWebhookUseCase(
	txnRepo payment.TransactionRepository,
	gateways *paymentgateway.Registry,
	reconciler Reconciler,
	logger logger.Interface,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		txnRepo:    txnRepo,
		gateways:   gateways,
		reconciler: reconciler,
		logger:     logger,
	}
}

// SetDeduplicator enables event id de-duplication.
func (uc *HandleWebhookUseCase) SetDeduplicator(d WebhookDeduplicator) {
	uc.dedup = d
}

func (uc *HandleWebhookUseCase) Execute(ctx context.Context, cmd HandleWebhookCommand) (*WebhookResult, error) {
	gw, err := uc.gateways.Resolve(cmd.Provider)
	if err != nil || cmd.Provider == "" {
		return nil, apperrors.NewNotFoundError("unknown payment provider", cmd.Provider)
	}

	event, err := gw.ParseWebhook(cmd.Payload, cmd.Header)
	if err != nil {
		if errors.Is(err, paymentgateway.ErrInvalidSignature) {
			uc.logger.Warnw("rejected webhook with invalid signature", "provider", cmd.Provider)
			return nil, apperrors.NewUnauthorizedError("invalid webhook signature")
		}
		uc.logger.Warnw("rejected malformed webhook", "error", err, "provider", cmd.Provider)
		return nil, apperrors.NewValidationError("malformed webhook payload")
	}

	key := ""
	if uc.dedup != nil && event.EventID != "" {
		key = fmt.Sprintf("%s:%s", gw.Provider(), event.EventID)
		claimed, err := uc.dedup.TryClaim(ctx, key)
		switch {
		case err != nil:
			uc.logger.Warnw("webhook dedup unavailable, processing anyway", "error", err, "key", key)
			key = ""
		case !claimed:
			uc.logger.Infow("duplicate webhook delivery ignored", "provider", cmd.Provider, "event_id", event.EventID)
			return &WebhookResult{Duplicate: true, Reference: event.Reference}, nil
		}
	}

	reference := event.Reference
	if reference == "" && event.GatewayReference != "" {
		txn, err := uc.txnRepo.GetByGatewayReference(ctx, gw.Provider(), event.GatewayReference)
		switch {
		case errors.Is(err, payment.ErrTransactionNotFound):
		case err != nil:
			uc.release(ctx, key)
			return nil, fmt.Errorf("failed to resolve gateway reference: %w", err)
		default:
			reference = txn.Reference()
		}
	}
	if reference == "" {
		uc.logger.Infow("webhook for unknown transaction acknowledged",
			"provider", cmd.Provider,
			"event_type", event.EventType,
			"gateway_reference", event.GatewayReference,
		)
		return &WebhookResult{Outcome: OutcomeNotFound}, nil
	}

	result, err := uc.reconciler.Execute(ctx, reference)
	if err != nil {
		// Let the provider's redelivery try again.
		uc.release(ctx, key)
		return nil, err
	}

	uc.logger.Infow("webhook processed",
		"provider", cmd.Provider,
		"event_type", event.EventType,
		"reference", reference,
		"outcome", result.Outcome,
	)
	return &WebhookResult{Outcome: result.Outcome, Reference: reference}, nil
}

func (uc *HandleWebhookUseCase) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := uc.dedup.Release(ctx, key); err != nil {
		uc.logger.Warnw("failed to release webhook dedup key", "error", err, "key", key)
	}
}
