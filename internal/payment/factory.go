package payment

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dokimion24/payment/internal/domain"
)

// ErrUnsupportedProvider means a provider type with no registered
// constructor was requested. That is a wiring fault, not user input.
var ErrUnsupportedProvider = errors.New("unsupported payment provider")

// routingRule maps a country (and optionally a business type) to the
// providers a customer may pay with. An empty businessType matches any type
// not claimed by a more specific rule for the same country.
type routingRule struct {
	country      string
	businessType domain.BusinessType
	providers    []domain.ProviderType
}

// Country routing:
//   - KR consumers pay with Toss; KR businesses may also use bank transfer
//   - FR and US pay with PayPal
//   - everywhere else falls back to PayPal
var defaultRules = []routingRule{
	{"KR", domain.BusinessNone, []domain.ProviderType{domain.ProviderToss}},
	{"KR", domain.BusinessIndividual, []domain.ProviderType{domain.ProviderToss, domain.ProviderGeneral}},
	{"KR", domain.BusinessCorporate, []domain.ProviderType{domain.ProviderToss, domain.ProviderGeneral}},
	{"FR", "", []domain.ProviderType{domain.ProviderPayPal}},
	{"US", "", []domain.ProviderType{domain.ProviderPayPal}},
}

var defaultFallback = []domain.ProviderType{domain.ProviderPayPal}

type Registry map[domain.ProviderType]func() Adapter

// Factory is the single authority for provider eligibility and adapter
// instances. Adapters are cached: the same provider type always yields the
// same instance.
type Factory struct {
	rules    []routingRule
	fallback []domain.ProviderType
	registry Registry

	mu    sync.Mutex
	cache map[domain.ProviderType]Adapter
}

func NewFactory(registry Registry) *Factory {
	return &Factory{
		rules:    defaultRules,
		fallback: defaultFallback,
		registry: registry,
		cache:    make(map[domain.ProviderType]Adapter),
	}
}

// AvailableProviders is a pure first-match lookup over the rule table.
func (f *Factory) AvailableProviders(ctx domain.PaymentContext) []domain.ProviderType {
	for _, r := range f.rules {
		if r.country != ctx.Country {
			continue
		}
		if r.businessType != "" && r.businessType != ctx.BusinessType {
			continue
		}
		return slices.Clone(r.providers)
	}
	return slices.Clone(f.fallback)
}

// Eligible reports whether the provider may serve the given context.
func (f *Factory) Eligible(ctx domain.PaymentContext, provider domain.ProviderType) bool {
	return slices.Contains(f.AvailableProviders(ctx), provider)
}

// Adapter resolves the cached adapter instance for a provider type.
func (f *Factory) Adapter(provider domain.ProviderType) (Adapter, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.cache[provider]; ok {
		return a, nil
	}
	ctor, ok := f.registry[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, provider)
	}
	a := ctor()
	f.cache[provider] = a
	return a, nil
}
