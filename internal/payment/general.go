package payment

import (
	"context"
	"crypto/rand"
	"strconv"
	"time"

	"github.com/dokimion24/payment/internal/domain"
)

// GeneralAdapter handles manual bank transfer. It is not a PG gateway: no
// checkout page, no external call, it issues a virtual account and reports
// success immediately.
type GeneralAdapter struct{}

func NewGeneralAdapter() *GeneralAdapter { return &GeneralAdapter{} }

func (a *GeneralAdapter) Name() string { return "Bank Transfer" }

func (a *GeneralAdapter) CheckoutURL(_ CheckoutParams) string { return "" }

func (a *GeneralAdapter) RequestPayment(_ context.Context, p RequestParams) (domain.PaymentResult, error) {
	account := virtualAccountNumber()
	return domain.PaymentResult{
		Success:       true,
		TransactionID: "general_" + strconv.FormatInt(time.Now().UnixMilli(), 10),
		Provider:      domain.ProviderGeneral,
		Message:       "Virtual account issued: Shinhan Bank " + account,
		TotalAmount:   p.Amount,
	}, nil
}

func (a *GeneralAdapter) CancelPayment(_ context.Context, transactionID string) (domain.PaymentResult, error) {
	// No funds were captured, so there is nothing to reverse externally.
	return domain.PaymentResult{
		Success:       true,
		TransactionID: transactionID,
		Provider:      domain.ProviderGeneral,
		Message:       "Bank transfer cancelled.",
	}, nil
}

func virtualAccountNumber() string {
	b := make([]byte, 10)
	if _, err := rand.Read(b); err != nil {
		return "9180-" + strconv.FormatInt(time.Now().UnixNano()%1e10, 10)
	}
	digits := make([]byte, len(b))
	for i := range b {
		digits[i] = '0' + b[i]%10
	}
	return "9180-" + string(digits)
}
