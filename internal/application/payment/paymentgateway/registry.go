package paymentgateway

import (
	"fmt"
	"sort"
	"sync"

	vo "github.com/memberhub/memberhub/internal/domain/payment/valueobjects"
)

// Registry resolves providers to their configured adapters.
type Registry struct {
	mu       sync.RWMutex
	gateways map[vo.Provider]Gateway
	fallback vo.Provider
}

// NewRegistry creates a new Registry holding gateways. fallback is used
// when a request names no provider.
func NewRegistry(fallback vo.Provider, gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[vo.Provider]Gateway), fallback: fallback}
	for _, g := range gateways {
		r.Register(g)
	}
	return r
}

func (r *Registry) Register(g Gateway) {
	r.mu.Lock()
	r.gateways[g.Provider()] = g
	r.mu.Unlock()
}

// Get returns the adapter for provider.
func (r *Registry) Get(provider vo.Provider) (Gateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.gateways[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return g, nil
}

// Resolve parses name and returns its adapter; an empty name selects the
// default provider.
func (r *Registry) Resolve(name string) (Gateway, error) {
	if name == "" {
		return r.Get(r.fallback)
	}
	provider, err := vo.NewProvider(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return r.Get(provider)
}

// Providers lists the registered providers in name order.
func (r *Registry) Providers() []vo.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]vo.Provider, 0, len(r.gateways))
	for p := range r.gateways {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
