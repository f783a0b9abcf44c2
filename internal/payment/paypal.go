package payment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/domain"
)

const defaultPayPalAPIBase = "https://api-m.sandbox.paypal.com"

type PayPalConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
	Timeout  time.Duration
}

// PayPalAdapter verifies captured PayPal orders server-side: it fetches the
// order from the PayPal API and trusts only PayPal's view of status, amount
// and currency.
type PayPalAdapter struct {
	client   *resty.Client
	clientID string
	secret   string
}

func NewPayPalAdapter(cfg PayPalConfig) (*PayPalAdapter, error) {
	if strings.TrimSpace(cfg.ClientID) == "" || strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("paypal config incomplete: client id and secret required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultPayPalAPIBase
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &PayPalAdapter{
		client:   resty.New().SetBaseURL(base).SetTimeout(timeout),
		clientID: cfg.ClientID,
		secret:   cfg.Secret,
	}, nil
}

func (a *PayPalAdapter) Name() string { return "PayPal" }

func (a *PayPalAdapter) CheckoutURL(p CheckoutParams) string {
	q := url.Values{}
	q.Set("orderId", p.OrderID)
	q.Set("amount", p.Amount.StringFixed(2))
	q.Set("currency", p.Currency)
	q.Set("orderName", p.OrderName)
	q.Set("customerName", p.CustomerName)
	return "/payment/paypal?" + q.Encode()
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
}

// errPayPalAuthRejected marks a token request that PayPal answered and
// refused. A token request that never reached PayPal is a plain transport
// error, not this.
var errPayPalAuthRejected = errors.New("paypal token request rejected")

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Amount struct {
			Value        string `json:"value"`
			CurrencyCode string `json:"currency_code"`
		} `json:"amount"`
	} `json:"purchase_units"`
}

func (a *PayPalAdapter) accessToken(ctx context.Context) (string, error) {
	var out paypalTokenResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetBasicAuth(a.clientID, a.secret).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials").
		SetResult(&out).
		Post("/v1/oauth2/token")
	if err != nil {
		return "", fmt.Errorf("paypal token request: %w", err)
	}
	if resp.IsError() || out.AccessToken == "" {
		return "", fmt.Errorf("%w: %s", errPayPalAuthRejected, resp.Status())
	}
	return out.AccessToken, nil
}

func (a *PayPalAdapter) RequestPayment(ctx context.Context, p RequestParams) (domain.PaymentResult, error) {
	token, err := a.accessToken(ctx)
	if errors.Is(err, errPayPalAuthRejected) {
		return domain.PaymentResult{
			Provider: domain.ProviderPayPal,
			Message:  "PayPal authentication failed.",
		}, nil
	}
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderPayPal}, err
	}

	var order paypalOrderResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&order).
		Get("/v2/checkout/orders/" + url.PathEscape(p.OrderID))
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderPayPal}, fmt.Errorf("paypal order lookup: %w", err)
	}
	if resp.IsError() || order.Status != "COMPLETED" {
		return domain.PaymentResult{
			Provider: domain.ProviderPayPal,
			Message:  "PayPal order verification failed.",
		}, nil
	}

	if len(order.PurchaseUnits) > 0 {
		verified := order.PurchaseUnits[0].Amount
		verifiedAmount, convErr := decimal.NewFromString(verified.Value)
		if convErr != nil || !verifiedAmount.Equal(p.Amount) || verified.CurrencyCode != p.Currency {
			return domain.PaymentResult{
				Provider: domain.ProviderPayPal,
				Message:  "Amount or currency mismatch.",
			}, nil
		}
	}

	return domain.PaymentResult{
		Success:       true,
		TransactionID: p.OrderID,
		Provider:      domain.ProviderPayPal,
		Message:       "PayPal payment completed.",
		GatewayStatus: order.Status,
		TotalAmount:   p.Amount,
	}, nil
}

func (a *PayPalAdapter) CancelPayment(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	token, err := a.accessToken(ctx)
	if errors.Is(err, errPayPalAuthRejected) {
		return domain.PaymentResult{
			Provider: domain.ProviderPayPal,
			Message:  "PayPal authentication failed.",
		}, nil
	}
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderPayPal}, err
	}
	resp, err := a.client.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		Post("/v2/checkout/orders/" + url.PathEscape(transactionID) + "/cancel")
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderPayPal}, fmt.Errorf("paypal cancel request: %w", err)
	}
	if resp.IsError() {
		return domain.PaymentResult{
			Provider: domain.ProviderPayPal,
			Message:  "PayPal cancellation failed.",
		}, nil
	}
	return domain.PaymentResult{
		Success:       true,
		TransactionID: transactionID,
		Provider:      domain.ProviderPayPal,
		Message:       "PayPal payment cancelled.",
	}, nil
}
