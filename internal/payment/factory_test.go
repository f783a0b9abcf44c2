package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dokimion24/payment/internal/domain"
)

type nullAdapter struct{ name string }

func (a *nullAdapter) Name() string { return a.name }

func (a *nullAdapter) CheckoutURL(CheckoutParams) string { return "" }

func (a *nullAdapter) RequestPayment(context.Context, RequestParams) (domain.PaymentResult, error) {
	return domain.PaymentResult{Success: true}, nil
}

func (a *nullAdapter) CancelPayment(context.Context, string) (domain.PaymentResult, error) {
	return domain.PaymentResult{Success: true}, nil
}

func testRegistry() Registry {
	return Registry{
		domain.ProviderToss:    func() Adapter { return &nullAdapter{name: "Toss"} },
		domain.ProviderPayPal:  func() Adapter { return &nullAdapter{name: "PayPal"} },
		domain.ProviderGeneral: func() Adapter { return &nullAdapter{name: "Bank Transfer"} },
	}
}

func TestAvailableProviders(t *testing.T) {
	f := NewFactory(testRegistry())

	tests := []struct {
		name string
		ctx  domain.PaymentContext
		want []domain.ProviderType
	}{
		{
			name: "korean consumer pays with toss only",
			ctx:  domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessNone},
			want: []domain.ProviderType{domain.ProviderToss},
		},
		{
			name: "korean individual business may use bank transfer",
			ctx:  domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessIndividual},
			want: []domain.ProviderType{domain.ProviderToss, domain.ProviderGeneral},
		},
		{
			name: "korean corporate may use bank transfer",
			ctx:  domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessCorporate},
			want: []domain.ProviderType{domain.ProviderToss, domain.ProviderGeneral},
		},
		{
			name: "france routes to paypal for any business type",
			ctx:  domain.PaymentContext{Country: "FR", BusinessType: domain.BusinessNone},
			want: []domain.ProviderType{domain.ProviderPayPal},
		},
		{
			name: "us corporate routes to paypal",
			ctx:  domain.PaymentContext{Country: "US", BusinessType: domain.BusinessCorporate},
			want: []domain.ProviderType{domain.ProviderPayPal},
		},
		{
			name: "unknown country falls back to paypal",
			ctx:  domain.PaymentContext{Country: "DE", BusinessType: domain.BusinessNone},
			want: []domain.ProviderType{domain.ProviderPayPal},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.AvailableProviders(tt.ctx))
		})
	}
}

func TestAvailableProvidersIsDeterministic(t *testing.T) {
	f := NewFactory(testRegistry())
	ctx := domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessCorporate}
	first := f.AvailableProviders(ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, f.AvailableProviders(ctx))
	}
}

func TestAvailableProvidersReturnsCopy(t *testing.T) {
	f := NewFactory(testRegistry())
	ctx := domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessNone}

	got := f.AvailableProviders(ctx)
	got[0] = domain.ProviderPayPal

	assert.Equal(t, []domain.ProviderType{domain.ProviderToss}, f.AvailableProviders(ctx))
}

func TestEligible(t *testing.T) {
	f := NewFactory(testRegistry())
	kr := domain.PaymentContext{Country: "KR", BusinessType: domain.BusinessNone}

	assert.True(t, f.Eligible(kr, domain.ProviderToss))
	assert.False(t, f.Eligible(kr, domain.ProviderGeneral))
	assert.False(t, f.Eligible(kr, domain.ProviderPayPal))
}

func TestAdapterIsCachedPerProvider(t *testing.T) {
	f := NewFactory(testRegistry())

	first, err := f.Adapter(domain.ProviderToss)
	require.NoError(t, err)
	second, err := f.Adapter(domain.ProviderToss)
	require.NoError(t, err)
	assert.Same(t, first, second)

	other, err := f.Adapter(domain.ProviderPayPal)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
}

func TestAdapterUnsupportedProvider(t *testing.T) {
	f := NewFactory(testRegistry())

	_, err := f.Adapter(domain.ProviderType("APPLEPAY"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))
}
