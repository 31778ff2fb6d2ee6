package payment

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const (
	flutterwaveBaseURL    = "https://api.flutterwave.com/v3"
	flutterwaveHashHeader = "Verif-Hash"
)

type FlutterwaveGateway struct {
	client      *apiClient
	webhookHash string
}

func NewFlutterwaveGateway(secretKey, webhookHash, baseURL string, timeout time.Duration, perSecond float64, log logger.Interface) *FlutterwaveGateway {
	if baseURL == "" {
		baseURL = flutterwaveBaseURL
	}
	return &FlutterwaveGateway{
		client:      newAPIClient(vo.ProviderFlutterwave, baseURL, secretKey, timeout, perSecond, log),
		webhookHash: webhookHash,
	}
}

func (g *FlutterwaveGateway) Provider() vo.Provider {
	return vo.ProviderFlutterwave
}

type flutterwaveCustomer struct {
	Email string `json:"email"`
}

type flutterwaveCustomizations struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

type flutterwavePaymentRequest struct {
	TxRef          string                    `json:"tx_ref"`
	Amount         string                    `json:"amount"`
	Currency       string                    `json:"currency"`
	RedirectURL    string                    `json:"redirect_url,omitempty"`
	Customer       flutterwaveCustomer       `json:"customer"`
	Meta           map[string]string         `json:"meta,omitempty"`
	Customizations flutterwaveCustomizations `json:"customizations"`
}

type flutterwaveEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type flutterwaveTransaction struct {
	ID       int64           `json:"id"`
	TxRef    string          `json:"tx_ref"`
	FlwRef   string          `json:"flw_ref"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Message  string          `json:"processor_response"`
}

func (g *FlutterwaveGateway) Initiate(ctx context.Context, req paymentgateway.InitiateRequest) (*paymentgateway.InitiateResponse, error) {
	body := flutterwavePaymentRequest{
		TxRef:       req.Reference,
		Amount:      req.Amount.Amount().StringFixed(2),
		Currency:    req.Amount.Currency(),
		RedirectURL: req.RedirectURL,
		Customer:    flutterwaveCustomer{Email: req.PayerEmail},
		Meta:        req.Metadata,
		Customizations: flutterwaveCustomizations{
			Title:       "Membership payment",
			Description: req.Description,
		},
	}

	var env flutterwaveEnvelope
	if err := g.client.do(ctx, "initiate", http.MethodPost, "/payments", body, &env); err != nil {
		return nil, err
	}
	if env.Status != "success" {
		return nil, paymentgateway.NewError(vo.ProviderFlutterwave, "initiate", false, fmt.Errorf("rejected: %s", env.Message))
	}

	var data struct {
		Link string `json:"link"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Link == "" {
		return nil, paymentgateway.NewError(vo.ProviderFlutterwave, "initiate", false, paymentgateway.ErrMalformedPayload)
	}
	return &paymentgateway.InitiateResponse{PaymentURL: data.Link}, nil
}

func (g *FlutterwaveGateway) Verify(ctx context.Context, req paymentgateway.VerifyRequest) (*paymentgateway.VerifyResult, error) {
	path := "/transactions/verify_by_reference?tx_ref=" + url.QueryEscape(req.Reference)

	var env flutterwaveEnvelope
	err := g.client.retry(ctx, "verify", func() error {
		return g.client.do(ctx, "verify", http.MethodGet, path, nil, &env)
	})
	if err != nil {
		return nil, err
	}
	if env.Status != "success" {
		return nil, paymentgateway.NewError(vo.ProviderFlutterwave, "verify", false, fmt.Errorf("rejected: %s", env.Message))
	}

	var txn flutterwaveTransaction
	if err := json.Unmarshal(env.Data, &txn); err != nil {
		return nil, paymentgateway.NewError(vo.ProviderFlutterwave, "verify", false,
			fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err))
	}

	result := &paymentgateway.VerifyResult{
		Status:     flutterwaveStatus(txn.Status),
		Message:    txn.Message,
		RawPayload: rawPayload(env.Data),
	}
	if txn.Currency != "" {
		if amount, err := vo.NewMoney(txn.Amount, txn.Currency); err == nil {
			result.Amount = &amount
		}
	}
	return result, nil
}

type flutterwaveWebhook struct {
	Event string                 `json:"event"`
	Data  flutterwaveTransaction `json:"data"`
}

func (g *FlutterwaveGateway) ParseWebhook(payload []byte, header http.Header) (*paymentgateway.WebhookEvent, error) {
	hash := header.Get(flutterwaveHashHeader)
	if hash == "" || subtle.ConstantTimeCompare([]byte(hash), []byte(g.webhookHash)) != 1 {
		return nil, paymentgateway.ErrInvalidSignature
	}

	var hook flutterwaveWebhook
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err)
	}
	if hook.Data.TxRef == "" {
		return nil, fmt.Errorf("%w: missing tx_ref", paymentgateway.ErrMalformedPayload)
	}

	id := strconv.FormatInt(hook.Data.ID, 10)
	return &paymentgateway.WebhookEvent{
		EventID:          hook.Event + ":" + id,
		EventType:        hook.Event,
		Reference:        hook.Data.TxRef,
		GatewayReference: id,
		Status:           flutterwaveStatus(hook.Data.Status),
		RawPayload:       rawPayload(payload),
	}, nil
}

func flutterwaveStatus(s string) paymentgateway.Status {
	switch strings.ToLower(s) {
	case "successful":
		return paymentgateway.StatusSuccess
	case "failed", "cancelled":
		return paymentgateway.StatusFailed
	default:
		return paymentgateway.StatusPending
	}
}
