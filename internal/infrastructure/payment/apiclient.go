package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

const (
	maxResponseBytes    = 1 << 20
	defaultMaxTries     = 3
	defaultRetryBackoff = 200 * time.Millisecond
)

// apiClient is the JSON-over-HTTPS transport shared by the REST gateways.
// Every call waits on the provider's limiter first.
type apiClient struct {
	provider     vo.Provider
	baseURL      string
	secretKey    string
	httpClient   *http.Client
	limiter      *rate.Limiter
	maxTries     uint
	retryBackoff time.Duration
	logger       logger.Interface
}

func newAPIClient(provider vo.Provider, baseURL, secretKey string, timeout time.Duration, perSecond float64, log logger.Interface) *apiClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &apiClient{
		provider:     provider,
		baseURL:      baseURL,
		secretKey:    secretKey,
		httpClient:   &http.Client{Timeout: timeout},
		limiter:      newLimiter(perSecond),
		maxTries:     defaultMaxTries,
		retryBackoff: defaultRetryBackoff,
		logger:       log,
	}
}

func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

// do sends body as JSON and decodes the response into out. Transport
// failures, 429 and 5xx come back as temporary gateway errors.
func (c *apiClient) do(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return paymentgateway.NewError(c.provider, op, true, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return paymentgateway.NewError(c.provider, op, false, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return paymentgateway.NewError(c.provider, op, false, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return paymentgateway.NewError(c.provider, op, true, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return paymentgateway.NewError(c.provider, op, true, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return paymentgateway.NewError(c.provider, op, true,
			fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return paymentgateway.NewError(c.provider, op, false,
			fmt.Errorf("status %d: %s", resp.StatusCode, providerMessage(data)))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return paymentgateway.NewError(c.provider, op, false,
			fmt.Errorf("%w: %v", paymentgateway.ErrMalformedPayload, err))
	}
	return nil
}

func (c *apiClient) retry(ctx context.Context, op string, fn func() error) error {
	return retryCall(ctx, c.provider, op, c.maxTries, c.retryBackoff, c.logger, fn)
}

// retryCall runs fn until it succeeds, fails permanently or runs out of
// tries. Only temporary gateway errors are retried.
func retryCall(ctx context.Context, provider vo.Provider, op string, maxTries uint, initial time.Duration, log logger.Interface, fn func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = 2 * time.Second

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := fn()
		if err == nil {
			return struct{}{}, nil
		}
		if !paymentgateway.IsTemporary(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		log.Warnw("gateway call failed, retrying",
			"provider", provider,
			"op", op,
			"attempt", attempt,
			"error", err,
		)
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(maxTries))
	if err == nil {
		return nil
	}

	var gwErr *paymentgateway.Error
	if !errors.As(err, &gwErr) {
		// context cancelled while waiting between attempts
		return paymentgateway.NewError(provider, op, true, err)
	}
	return err
}

// providerMessage pulls the human-readable message out of an error body.
func providerMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err == nil && body.Message != "" {
		return body.Message
	}
	if len(data) > 200 {
		data = data[:200]
	}
	return string(data)
}

// rawPayload decodes data into a generic map for the transaction audit column.
func rawPayload(data []byte) map[string]any {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
