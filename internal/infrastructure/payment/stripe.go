package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"
	"golang.org/x/time/rate"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const stripeSignatureHeader = "Stripe-Signature"

// StripeGateway settles charges through hosted Checkout Sessions. The session
// id is the gateway reference; our reference rides in client_reference_id.
type StripeGateway struct {
	api           *client.API
	webhookSecret string
	cancelURL     string
	limiter       *rate.Limiter
	maxTries      uint
	retryBackoff  time.Duration
	logger        logger.Interface
}

// NewStripeGateway builds the adapter. baseURL overrides the Stripe API
// endpoint and is empty outside tests.
func NewStripeGateway(secretKey, webhookSecret, cancelURL, baseURL string, timeout time.Duration, perSecond float64, log logger.Interface) *StripeGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	backendCfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	if baseURL != "" {
		backendCfg.URL = stripe.String(baseURL)
	}
	backend := stripe.GetBackendWithConfig(stripe.APIBackend, backendCfg)

	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{API: backend, Connect: backend, Uploads: backend})

	return &StripeGateway{
		api:           api,
		webhookSecret: webhookSecret,
		cancelURL:     cancelURL,
		limiter:       newLimiter(perSecond),
		maxTries:      defaultMaxTries,
		retryBackoff:  defaultRetryBackoff,
		logger:        log,
	}
}

func (g *StripeGateway) Provider() vo.Provider {
	return vo.ProviderStripe
}

func (g *StripeGateway) Initiate(ctx context.Context, req paymentgateway.InitiateRequest) (*paymentgateway.InitiateResponse, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, paymentgateway.NewError(vo.ProviderStripe, "initiate", true, err)
	}

	description := req.Description
	if description == "" {
		description = "Membership payment"
	}
	cancelURL := g.cancelURL
	if cancelURL == "" {
		cancelURL = req.RedirectURL
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.Reference),
		SuccessURL:        stripe.String(req.RedirectURL),
		CancelURL:         stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Amount.Currency())),
					UnitAmount: stripe.Int64(req.Amount.MinorUnits()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.PayerEmail != "" {
		params.CustomerEmail = stripe.String(req.PayerEmail)
	}
	params.Context = ctx
	params.AddMetadata("reference", req.Reference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeError("initiate", err)
	}
	return &paymentgateway.InitiateResponse{
		PaymentURL:       session.URL,
		GatewayReference: session.ID,
	}, nil
}

func (g *StripeGateway) Verify(ctx context.Context, req paymentgateway.VerifyRequest) (*paymentgateway.VerifyResult, error) {
	if req.GatewayReference == "" {
		return nil, paymentgateway.NewError(vo.ProviderStripe, "verify", false,
			errors.New("checkout session id is required"))
	}

	var session *stripe.CheckoutSession
	err := retryCall(ctx, vo.ProviderStripe, "verify", g.maxTries, g.retryBackoff, g.logger, func() error {
		if err := g.limiter.Wait(ctx); err != nil {
			return paymentgateway.NewError(vo.ProviderStripe, "verify", true, err)
		}
		params := &stripe.CheckoutSessionParams{}
		params.Context = ctx
		params.AddExpand("payment_intent")

		s, err := g.api.CheckoutSessions.Get(req.GatewayReference, params)
		if err != nil {
			return stripeError("verify", err)
		}
		session = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	if session.ClientReferenceID != "" && session.ClientReferenceID != req.Reference {
		return nil, paymentgateway.NewError(vo.ProviderStripe, "verify", false,
			fmt.Errorf("session %s belongs to reference %s", session.ID, session.ClientReferenceID))
	}

	result := &paymentgateway.VerifyResult{
		Status:     stripeSessionStatus(session),
		Message:    string(session.PaymentStatus),
		RawPayload: stripeRaw(session),
	}
	if session.Currency != "" {
		if amount, err := vo.FromMinorUnits(session.AmountTotal, string(session.Currency)); err == nil {
			result.Amount = &amount
		}
	}
	return result, nil
}

func (g *StripeGateway) ParseWebhook(payload []byte, header http.Header) (*paymentgateway.WebhookEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, header.Get(stripeSignatureHeader), g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		if errors.Is(err, webhook.ErrNotSigned) || errors.Is(err, webhook.ErrInvalidHeader) ||
			errors.Is(err, webhook.ErrNoValidSignature) || errors.Is(err, webhook.ErrTooOld) {
			return nil, paymentgateway.ErrInvalidSignature
		}
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err)
	}

	if !strings.HasPrefix(string(event.Type), "checkout.session.") {
		return nil, fmt.Errorf("%w: unsupported event type %s", paymentgateway.ErrMalformedPayload, event.Type)
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err)
	}
	if session.ClientReferenceID == "" {
		return nil, fmt.Errorf("%w: missing client_reference_id", paymentgateway.ErrMalformedPayload)
	}

	status := stripeSessionStatus(&session)
	if event.Type == "checkout.session.async_payment_failed" {
		status = paymentgateway.StatusFailed
	}

	return &paymentgateway.WebhookEvent{
		EventID:          event.ID,
		EventType:        string(event.Type),
		Reference:        session.ClientReferenceID,
		GatewayReference: session.ID,
		Status:           status,
		RawPayload:       rawPayload(payload),
	}, nil
}

func stripeSessionStatus(s *stripe.CheckoutSession) paymentgateway.Status {
	switch {
	case s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		s.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return paymentgateway.StatusSuccess
	case s.Status == stripe.CheckoutSessionStatusExpired:
		return paymentgateway.StatusFailed
	case s.PaymentIntent != nil && s.PaymentIntent.Status == stripe.PaymentIntentStatusCanceled:
		return paymentgateway.StatusFailed
	case s.Status == stripe.CheckoutSessionStatusComplete && s.PaymentIntent != nil &&
		s.PaymentIntent.Status == stripe.PaymentIntentStatusRequiresPaymentMethod:
		// async payment method was declined after checkout completed
		return paymentgateway.StatusFailed
	default:
		return paymentgateway.StatusPending
	}
}

// stripeError classifies a stripe-go failure. Errors without an API status
// never reached Stripe and are retried.
func stripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		temporary := stripeErr.HTTPStatusCode == http.StatusTooManyRequests ||
			stripeErr.HTTPStatusCode >= http.StatusInternalServerError
		return paymentgateway.NewError(vo.ProviderStripe, op, temporary, err)
	}
	return paymentgateway.NewError(vo.ProviderStripe, op, true, err)
}

func stripeRaw(s *stripe.CheckoutSession) map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	return rawPayload(data)
}
