// Package payment wraps each payment method behind one adapter contract and
// decides which providers are legal for a given country / business type.
package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/domain"
)

// CheckoutParams carries everything needed to derive a provider's checkout
// page route. Pure derivation, no side effects.
type CheckoutParams struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	OrderName     string
	CustomerName  string
	CustomerEmail string
}

// RequestParams carries the server-held order values for a confirmation
// call. PaymentKey is the provider-issued token from the redirect, where the
// provider issues one.
type RequestParams struct {
	OrderID       string
	Amount        decimal.Decimal
	Currency      string
	CustomerName  string
	CustomerEmail string
	PaymentKey    string
}

// Adapter is implemented once per provider. RequestPayment returns a
// non-nil error only for transport-level failures (network, malformed
// response); a gateway that answered and rejected the payment comes back as
// a result with Success=false and the gateway's message.
type Adapter interface {
	Name() string

	// CheckoutURL returns the provider's checkout route, or "" when the
	// provider has no separate checkout page and is resolved synchronously
	// by RequestPayment.
	CheckoutURL(p CheckoutParams) string

	RequestPayment(ctx context.Context, p RequestParams) (domain.PaymentResult, error)

	CancelPayment(ctx context.Context, transactionID string) (domain.PaymentResult, error)
}
