package domain

import "github.com/shopspring/decimal"

type ProviderType string

const (
	ProviderToss    ProviderType = "TOSS"
	ProviderPayPal  ProviderType = "PAYPAL"
	ProviderGeneral ProviderType = "GENERAL"
)

// PaymentContext selects eligible providers for an order. Not persisted.
type PaymentContext struct {
	Country      string
	BusinessType BusinessType
}

// PaymentResult is what an adapter reports back after talking to its gateway.
// Code/Method/GatewayStatus/ApprovedAt/TotalAmount are passthrough fields
// that only gateway-backed providers fill in.
type PaymentResult struct {
	Success       bool            `json:"success"`
	TransactionID string          `json:"transactionId"`
	Provider      ProviderType    `json:"provider"`
	Message       string          `json:"message"`
	Code          string          `json:"code,omitempty"`
	Method        string          `json:"method,omitempty"`
	GatewayStatus string          `json:"status,omitempty"`
	ApprovedAt    string          `json:"approvedAt,omitempty"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
}
