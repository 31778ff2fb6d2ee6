package paymentgateway

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
)

type stubGateway struct{ provider vo.Provider }

func (s stubGateway) Provider() vo.Provider { return s.provider }
func (s stubGateway) Initiate(context.Context, InitiateRequest) (*InitiateResponse, error) {
	return &InitiateResponse{}, nil
}
func (s stubGateway) Verify(context.Context, VerifyRequest) (*VerifyResult, error) {
	return &VerifyResult{Status: StatusPending}, nil
}
func (s stubGateway) ParseWebhook([]byte, http.Header) (*WebhookEvent, error) {
	return nil, ErrInvalidSignature
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(vo.ProviderPaystack, stubGateway{vo.ProviderStripe}, stubGateway{vo.ProviderPaystack})

	g, err := r.Resolve("")
	require.NoError(t, err)
	assert.Equal(t, vo.ProviderPaystack, g.Provider())

	g, err = r.Resolve("stripe")
	require.NoError(t, err)
	assert.Equal(t, vo.ProviderStripe, g.Provider())

	_, err = r.Resolve("flutterwave")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	_, err = r.Resolve("paypal")
	assert.ErrorIs(t, err, ErrUnknownProvider)

	assert.Equal(t, []vo.Provider{vo.ProviderPaystack, vo.ProviderStripe}, r.Providers())
}

func TestError(t *testing.T) {
	cause := context.DeadlineExceeded
	err := NewError(vo.ProviderPaystack, "verify", true, cause)

	assert.True(t, IsTemporary(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "paystack verify: context deadline exceeded", err.Error())
	assert.False(t, IsTemporary(NewError(vo.ProviderPaystack, "verify", false, cause)))
}
