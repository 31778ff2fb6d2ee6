package valueobjects

import "fmt"

// Provider names an external payment gateway.
type Provider string

const (
	ProviderPaystack    Provider = "paystack"
	ProviderFlutterwave Provider = "flutterwave"
	ProviderStripe      Provider = "stripe"
)

// NewProvider parses a provider name.
func NewProvider(s string) (Provider, error) {
	p := Provider(s)
	switch p {
	case ProviderPaystack, ProviderFlutterwave, ProviderStripe:
		return p, nil
	}
	return "", fmt.Errorf("unsupported payment provider: %s", s)
}

func (p Provider) String() string {
	return string(p)
}

// Purpose says what a transaction pays for and therefore what a successful
// reconciliation unlocks.
type Purpose string

const (
	PurposeMembership   Purpose = "membership"
	PurposeSubscription Purpose = "subscription"
	PurposeDonation     Purpose = "donation"
)

func (p Purpose) String() string {
	return string(p)
}

func (p Purpose) IsValid() bool {
	return p == PurposeMembership || p == PurposeSubscription || p == PurposeDonation
}
