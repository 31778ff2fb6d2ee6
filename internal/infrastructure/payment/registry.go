package payment

import (
	"fmt"

	"github.com/memberhub/memberhub/internal/application/payment/paymentgateway"
	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
	sharedConfig "github.com/memberhub/memberhub/internal/shared/config"
	"github.com/memberhub/memberhub/internal/shared/logger"
)

// NewGatewayRegistry registers an adapter for every enabled provider.
func NewGatewayRegistry(cfg sharedConfig.PaymentConfig, log logger.Interface) (*paymentgateway.Registry, error) {
	fallback, err := vo.NewProvider(cfg.DefaultProvider)
	if err != nil {
		return nil, err
	}

	var gateways []paymentgateway.Gateway
	if cfg.Paystack.Enabled {
		gateways = append(gateways, NewPaystackGateway(
			cfg.Paystack.SecretKey, cfg.Paystack.BaseURL,
			cfg.RequestTimeout, cfg.RatePerSecond,
			log.With("provider", vo.ProviderPaystack),
		))
	}
	if cfg.Flutterwave.Enabled {
		gateways = append(gateways, NewFlutterwaveGateway(
			cfg.Flutterwave.SecretKey, cfg.Flutterwave.WebhookHash, cfg.Flutterwave.BaseURL,
			cfg.RequestTimeout, cfg.RatePerSecond,
			log.With("provider", vo.ProviderFlutterwave),
		))
	}
	if cfg.Stripe.Enabled {
		gateways = append(gateways, NewStripeGateway(
			cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret, cfg.Stripe.CancelURL, "",
			cfg.RequestTimeout, cfg.RatePerSecond,
			log.With("provider", vo.ProviderStripe),
		))
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("no payment provider is enabled")
	}

	registry := paymentgateway.NewRegistry(fallback, gateways...)
	if _, err := registry.Get(fallback); err != nil {
		return nil, fmt.Errorf("default provider %s is not enabled", fallback)
	}
	log.Infow("payment gateways registered", "providers", registry.Providers(), "default", fallback)
	return registry, nil
}
