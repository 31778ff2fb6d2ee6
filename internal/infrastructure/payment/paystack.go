package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const (
	paystackBaseURL         = "https://api.paystack.co"
	paystackSignatureHeader = "X-Paystack-Signature"
)

type PaystackGateway struct {
	client    *apiClient
	secretKey string
}

func NewPaystackGateway(secretKey, baseURL string, timeout time.Duration, perSecond float64, log logger.Interface) *PaystackGateway {
	if baseURL == "" {
		baseURL = paystackBaseURL
	}
	return &PaystackGateway{
		client:    newAPIClient(vo.ProviderPaystack, baseURL, secretKey, timeout, perSecond, log),
		secretKey: secretKey,
	}
}

func (g *PaystackGateway) Provider() vo.Provider {
	return vo.ProviderPaystack
}

type paystackInitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int64             `json:"amount"`
	Currency    string            `json:"currency"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackTransaction struct {
	ID        int64  `json:"id"`
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Response  string `json:"gateway_response"`
}

func (g *PaystackGateway) Initiate(ctx context.Context, req paymentgateway.InitiateRequest) (*paymentgateway.InitiateResponse, error) {
	body := paystackInitializeRequest{
		Email:       req.PayerEmail,
		Amount:      req.Amount.MinorUnits(),
		Currency:    req.Amount.Currency(),
		Reference:   req.Reference,
		CallbackURL: req.RedirectURL,
		Metadata:    req.Metadata,
	}

	var env paystackEnvelope
	if err := g.client.do(ctx, "initiate", http.MethodPost, "/transaction/initialize", body, &env); err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, paymentgateway.NewError(vo.ProviderPaystack, "initiate", false, fmt.Errorf("rejected: %s", env.Message))
	}

	var data struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.AuthorizationURL == "" {
		return nil, paymentgateway.NewError(vo.ProviderPaystack, "initiate", false, paymentgateway.ErrMalformedPayload)
	}

	return &paymentgateway.InitiateResponse{
		PaymentURL:       data.AuthorizationURL,
		GatewayReference: data.AccessCode,
	}, nil
}

func (g *PaystackGateway) Verify(ctx context.Context, req paymentgateway.VerifyRequest) (*paymentgateway.VerifyResult, error) {
	var env paystackEnvelope
	err := g.client.retry(ctx, "verify", func() error {
		return g.client.do(ctx, "verify", http.MethodGet, "/transaction/verify/"+url.PathEscape(req.Reference), nil, &env)
	})
	if err != nil {
		return nil, err
	}
	if !env.Status {
		return nil, paymentgateway.NewError(vo.ProviderPaystack, "verify", false, fmt.Errorf("rejected: %s", env.Message))
	}

	var txn paystackTransaction
	if err := json.Unmarshal(env.Data, &txn); err != nil {
		return nil, paymentgateway.NewError(vo.ProviderPaystack, "verify", false,
			fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err))
	}

	result := &paymentgateway.VerifyResult{
		Status:     paystackStatus(txn.Status),
		Message:    txn.Response,
		RawPayload: rawPayload(env.Data),
	}
	if txn.Currency != "" {
		if amount, err := vo.FromMinorUnits(txn.Amount, txn.Currency); err == nil {
			result.Amount = &amount
		}
	}
	return result, nil
}

type paystackWebhook struct {
	Event string              `json:"event"`
	Data  paystackTransaction `json:"data"`
}

func (g *PaystackGateway) ParseWebhook(payload []byte, header http.Header) (*paymentgateway.WebhookEvent, error) {
	if !g.validSignature(payload, header.Get(paystackSignatureHeader)) {
		return nil, paymentgateway.ErrInvalidSignature
	}

	var hook paystackWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err)
	}
	if hook.Data.Reference == "" {
		return nil, fmt.Errorf("%w: missing reference", paymentgateway.ErrMalformedPayload)
	}

	// Paystack sends no delivery id; event type plus charge id is stable
	// across retries of the same delivery.
	return &paymentgateway.WebhookEvent{
		EventID:          hook.Event + ":" + strconv.FormatInt(hook.Data.ID, 10),
		EventType:        hook.Event,
		Reference:        hook.Data.Reference,
		GatewayReference: strconv.FormatInt(hook.Data.ID, 10),
		Status:           paystackStatus(hook.Data.Status),
		RawPayload:       rawPayload(payload),
	}, nil
}

func (g *PaystackGateway) validSignature(payload []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha512.New, []byte(g.secretKey))
	mac.Write(payload)
	return hmac.Equal(mac.Sum(nil), expected)
}

func paystackStatus(s string) paymentgateway.Status {
	switch s {
	case "success":
		return paymentgateway.StatusSuccess
	case "failed", "reversed":
		return paymentgateway.StatusFailed
	default:
		// abandoned checkouts can still be completed by the payer
		return paymentgateway.StatusPending
	}
}
