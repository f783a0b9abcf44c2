package payment

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/domain"
)

const defaultTossAPIBase = "https://api.tosspayments.com"

type TossConfig struct {
	SecretKey string
	BaseURL   string
	Timeout   time.Duration
}

// TossAdapter confirms payments against the Toss Payments v1 API using the
// server-held secret key.
type TossAdapter struct {
	client *resty.Client
	auth   string
}

func NewTossAdapter(cfg TossConfig) (*TossAdapter, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("toss config incomplete: secret key required")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultTossAPIBase
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &TossAdapter{
		client: resty.New().SetBaseURL(base).SetTimeout(timeout),
		auth:   "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.SecretKey+":")),
	}, nil
}

func (a *TossAdapter) Name() string { return "Toss" }

func (a *TossAdapter) CheckoutURL(p CheckoutParams) string {
	q := url.Values{}
	q.Set("orderId", p.OrderID)
	q.Set("amount", p.Amount.String())
	q.Set("orderName", p.OrderName)
	q.Set("customerName", p.CustomerName)
	q.Set("customerEmail", p.CustomerEmail)
	return "/payment/checkout?" + q.Encode()
}

type tossConfirmRequest struct {
	PaymentKey string `json:"paymentKey"`
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
}

type tossConfirmResponse struct {
	OrderID     string          `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Method      string          `json:"method"`
	Status      string          `json:"status"`
	ApprovedAt  string          `json:"approvedAt"`
}

type tossErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (a *TossAdapter) RequestPayment(ctx context.Context, p RequestParams) (domain.PaymentResult, error) {
	var out tossConfirmResponse
	var gwErr tossErrorResponse

	// Toss amounts are integer KRW.
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", a.auth).
		SetHeader("Content-Type", "application/json").
		SetBody(tossConfirmRequest{
			PaymentKey: p.PaymentKey,
			OrderID:    p.OrderID,
			Amount:     p.Amount.IntPart(),
		}).
		SetResult(&out).
		SetError(&gwErr).
		Post("/v1/payments/confirm")
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderToss}, fmt.Errorf("toss confirm request: %w", err)
	}

	if resp.IsError() {
		msg := gwErr.Message
		if msg == "" {
			msg = "Toss payment confirmation failed."
		}
		return domain.PaymentResult{
			Provider: domain.ProviderToss,
			Message:  msg,
			Code:     gwErr.Code,
		}, nil
	}

	return domain.PaymentResult{
		Success:       true,
		TransactionID: p.PaymentKey,
		Provider:      domain.ProviderToss,
		Message:       "Toss payment approved.",
		Method:        out.Method,
		GatewayStatus: out.Status,
		ApprovedAt:    out.ApprovedAt,
		TotalAmount:   out.TotalAmount,
	}, nil
}

func (a *TossAdapter) CancelPayment(ctx context.Context, transactionID string) (domain.PaymentResult, error) {
	var gwErr tossErrorResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Authorization", a.auth).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"cancelReason": "customer request"}).
		SetError(&gwErr).
		Post("/v1/payments/" + url.PathEscape(transactionID) + "/cancel")
	if err != nil {
		return domain.PaymentResult{Provider: domain.ProviderToss}, fmt.Errorf("toss cancel request: %w", err)
	}
	if resp.IsError() {
		msg := gwErr.Message
		if msg == "" {
			msg = "Toss payment cancellation failed."
		}
		return domain.PaymentResult{Provider: domain.ProviderToss, Message: msg, Code: gwErr.Code}, nil
	}
	return domain.PaymentResult{
		Success:       true,
		TransactionID: transactionID,
		Provider:      domain.ProviderToss,
		Message:       "Toss payment cancelled.",
	}, nil
}
