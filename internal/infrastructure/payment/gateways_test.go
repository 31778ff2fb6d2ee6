package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	sharedConfig "github.com/memberhub/memberhub/internal/shared/config"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

func ngn(t *testing.T, amount string) vo.Money {
	t.Helper()
	m, err := vo.NewMoney(decimal.RequireFromString(amount), "NGN")
	require.NoError(t, err)
	return m
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func paystackSign(secret string, payload []byte) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestPaystackGateway_Initiate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(500000), body["amount"])
		assert.Equal(t, "MH-REF-1", body["reference"])
		assert.Equal(t, "ada@example.com", body["email"])

		writeJSON(w, http.StatusOK, `{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"MH-REF-1"}}`)
	}))
	defer srv.Close()

	gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
	resp, err := gw.Initiate(context.Background(), paymentgateway.InitiateRequest{
		Reference:  "MH-REF-1",
		Amount:     ngn(t, "5000"),
		PayerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", resp.PaymentURL)
	assert.Equal(t, "abc", resp.GatewayReference)
}

func TestPaystackGateway_Verify(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   paymentgateway.Status
	}{
		{"success", "success", paymentgateway.StatusSuccess},
		{"failed", "failed", paymentgateway.StatusFailed},
		{"reversed", "reversed", paymentgateway.StatusFailed},
		{"abandoned", "abandoned", paymentgateway.StatusPending},
		{"ongoing", "ongoing", paymentgateway.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/transaction/verify/MH-REF-1", r.URL.Path)
				writeJSON(w, http.StatusOK, `{"status":true,"message":"Verification successful","data":{"id":42,"status":"`+tt.status+`","reference":"MH-REF-1","amount":500000,"currency":"NGN","gateway_response":"Approved"}}`)
			}))
			defer srv.Close()

			gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
			res, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "MH-REF-1"})
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			require.NotNil(t, res.Amount)
			assert.True(t, res.Amount.Equals(ngn(t, "5000")))
			assert.Equal(t, "MH-REF-1", res.RawPayload["reference"])
		})
	}
}

func TestPaystackGateway_VerifyRetriesTemporaryFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			writeJSON(w, http.StatusBadGateway, `{"message":"upstream"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"status":true,"data":{"id":1,"status":"success","reference":"R","amount":100,"currency":"NGN"}}`)
	}))
	defer srv.Close()

	gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
	gw.client.retryBackoff = time.Millisecond

	res, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "R"})
	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusSuccess, res.Status)
	assert.Equal(t, int32(2), calls.Load())
}

func TestPaystackGateway_VerifyErrors(t *testing.T) {
	t.Run("client error is permanent", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, http.StatusBadRequest, `{"status":false,"message":"Transaction reference not found"}`)
		}))
		defer srv.Close()

		gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
		_, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "nope"})

		var gwErr *paymentgateway.Error
		require.ErrorAs(t, err, &gwErr)
		assert.False(t, gwErr.Temporary)
		assert.Contains(t, err.Error(), "Transaction reference not found")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("exhausted retries stay temporary", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			writeJSON(w, http.StatusServiceUnavailable, `{}`)
		}))
		defer srv.Close()

		gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
		gw.client.retryBackoff = time.Millisecond

		_, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "R"})
		assert.True(t, paymentgateway.IsTemporary(err))
		assert.Equal(t, int32(defaultMaxTries), calls.Load())
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `not json`)
		}))
		defer srv.Close()

		gw := NewPaystackGateway("sk_test", srv.URL, time.Second, 0, logger.NewNop())
		_, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "R"})
		assert.ErrorIs(t, err, paymentgateway.ErrMalformedPayload)
	})
}

func TestPaystackGateway_ParseWebhook(t *testing.T) {
	gw := NewPaystackGateway("sk_test", "", time.Second, 0, logger.NewNop())
	payload := []byte(`{"event":"charge.success","data":{"id":302961,"status":"success","reference":"MH-REF-1","amount":500000,"currency":"NGN"}}`)

	t.Run("valid signature", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-paystack-signature", paystackSign("sk_test", payload))

		event, err := gw.ParseWebhook(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "MH-REF-1", event.Reference)
		assert.Equal(t, "charge.success:302961", event.EventID)
		assert.Equal(t, "302961", event.GatewayReference)
		assert.Equal(t, paymentgateway.StatusSuccess, event.Status)
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-paystack-signature", paystackSign("sk_other", payload))

		_, err := gw.ParseWebhook(payload, header)
		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		_, err := gw.ParseWebhook(payload, http.Header{})
		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		header := http.Header{}
		header.Set("x-paystack-signature", paystackSign("sk_test", payload))

		tampered := []byte(`{"event":"charge.success","data":{"id":302961,"status":"success","reference":"MH-REF-2"}}`)
		_, err := gw.ParseWebhook(tampered, header)
		assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
	})
}

func TestFlutterwaveGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer FLWSECK_TEST", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/payments":
			var body map[string]any
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "5000.00", body["amount"])
			assert.Equal(t, "MH-REF-9", body["tx_ref"])
			writeJSON(w, http.StatusOK, `{"status":"success","message":"Hosted Link","data":{"link":"https://checkout.flutterwave.com/v3/hosted/pay/xyz"}}`)
		case "/transactions/verify_by_reference":
			assert.Equal(t, "MH-REF-9", r.URL.Query().Get("tx_ref"))
			writeJSON(w, http.StatusOK, `{"status":"success","message":"Transaction fetched successfully","data":{"id":288200,"tx_ref":"MH-REF-9","status":"successful","amount":5000,"currency":"NGN","processor_response":"Approved"}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	gw := NewFlutterwaveGateway("FLWSECK_TEST", "hash-123", srv.URL, time.Second, 0, logger.NewNop())

	resp, err := gw.Initiate(context.Background(), paymentgateway.InitiateRequest{
		Reference:  "MH-REF-9",
		Amount:     ngn(t, "5000"),
		PayerEmail: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.flutterwave.com/v3/hosted/pay/xyz", resp.PaymentURL)

	res, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "MH-REF-9"})
	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusSuccess, res.Status)
	require.NotNil(t, res.Amount)
	assert.True(t, res.Amount.Equals(ngn(t, "5000")))
	assert.Equal(t, "Approved", res.Message)
}

func TestFlutterwaveGateway_ParseWebhook(t *testing.T) {
	gw := NewFlutterwaveGateway("FLWSECK_TEST", "hash-123", "", time.Second, 0, logger.NewNop())
	payload := []byte(`{"event":"charge.completed","data":{"id":288200,"tx_ref":"MH-REF-9","status":"failed","amount":5000,"currency":"NGN"}}`)

	header := http.Header{}
	header.Set("verif-hash", "hash-123")
	event, err := gw.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "MH-REF-9", event.Reference)
	assert.Equal(t, "charge.completed:288200", event.EventID)
	assert.Equal(t, paymentgateway.StatusFailed, event.Status)

	header.Set("verif-hash", "wrong")
	_, err = gw.ParseWebhook(payload, header)
	assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
}

const stripeSessionJSON = `{
	"id": "cs_test_1",
	"object": "checkout.session",
	"url": "https://checkout.stripe.com/c/pay/cs_test_1",
	"client_reference_id": "MH-REF-5",
	"payment_status": "paid",
	"status": "complete",
	"amount_total": 500000,
	"currency": "ngn"
}`

func TestStripeGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_stripe", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "MH-REF-5", r.PostForm.Get("client_reference_id"))
			assert.Equal(t, "500000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
			assert.Equal(t, "ngn", r.PostForm.Get("line_items[0][price_data][currency]"))
			writeJSON(w, http.StatusOK, stripeSessionJSON)
		case r.Method == http.MethodGet && r.URL.Path == "/v1/checkout/sessions/cs_test_1":
			writeJSON(w, http.StatusOK, stripeSessionJSON)
		default:
			writeJSON(w, http.StatusNotFound, `{"error":{"type":"invalid_request_error","message":"No such checkout session"}}`)
		}
	}))
	defer srv.Close()

	gw := NewStripeGateway("sk_test_stripe", "whsec_test", "", srv.URL, time.Second, 0, logger.NewNop())

	resp, err := gw.Initiate(context.Background(), paymentgateway.InitiateRequest{
		Reference:   "MH-REF-5",
		Amount:      ngn(t, "5000"),
		PayerEmail:  "ada@example.com",
		RedirectURL: "https://members.example.com/paid",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", resp.GatewayReference)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.PaymentURL)

	res, err := gw.Verify(context.Background(), paymentgateway.VerifyRequest{
		Reference:        "MH-REF-5",
		GatewayReference: "cs_test_1",
	})
	require.NoError(t, err)
	assert.Equal(t, paymentgateway.StatusSuccess, res.Status)
	require.NotNil(t, res.Amount)
	assert.True(t, res.Amount.Equals(ngn(t, "5000")))

	_, err = gw.Verify(context.Background(), paymentgateway.VerifyRequest{Reference: "MH-REF-5"})
	require.Error(t, err)
	assert.False(t, paymentgateway.IsTemporary(err))

	_, err = gw.Verify(context.Background(), paymentgateway.VerifyRequest{
		Reference:        "MH-REF-5",
		GatewayReference: "cs_missing",
	})
	require.Error(t, err)
	assert.False(t, paymentgateway.IsTemporary(err))
}

func TestStripeGateway_ParseWebhook(t *testing.T) {
	gw := NewStripeGateway("sk_test_stripe", "whsec_test", "", "", time.Second, 0, logger.NewNop())
	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2024-06-20",
		"type": "checkout.session.completed",
		"data": {"object": ` + stripeSessionJSON + `}
	}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  "whsec_test",
	})
	header := http.Header{}
	header.Set("Stripe-Signature", signed.Header)

	event, err := gw.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.EventID)
	assert.Equal(t, "MH-REF-5", event.Reference)
	assert.Equal(t, "cs_test_1", event.GatewayReference)
	assert.Equal(t, paymentgateway.StatusSuccess, event.Status)

	forged := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  "whsec_other",
	})
	header.Set("Stripe-Signature", forged.Header)
	_, err = gw.ParseWebhook(payload, header)
	assert.ErrorIs(t, err, paymentgateway.ErrInvalidSignature)
}

func TestNewGatewayRegistry(t *testing.T) {
	cfg := sharedConfig.PaymentConfig{
		DefaultProvider: "paystack",
		RequestTimeout:  time.Second,
		Paystack:        sharedConfig.PaystackConfig{Enabled: true, SecretKey: "sk"},
		Stripe:          sharedConfig.StripeConfig{Enabled: true, SecretKey: "sk", WebhookSecret: "wh"},
	}

	registry, err := NewGatewayRegistry(cfg, logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []vo.Provider{vo.ProviderPaystack, vo.ProviderStripe}, registry.Providers())

	_, err = registry.Resolve("flutterwave")
	assert.ErrorIs(t, err, paymentgateway.ErrUnknownProvider)

	cfg.DefaultProvider = "flutterwave"
	_, err = NewGatewayRegistry(cfg, logger.NewNop())
	assert.Error(t, err)

	_, err = NewGatewayRegistry(sharedConfig.PaymentConfig{DefaultProvider: "paystack"}, logger.NewNop())
	assert.Error(t, err)
}
