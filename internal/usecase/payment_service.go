package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/domain"
	"github.com/dokimion24/payment/internal/payment"
)

// ConfirmRequest is one confirmation attempt coming back from a gateway
// redirect. HasAmount distinguishes "client sent no amount" (PayPal allows
// that) from an amount of zero.
type ConfirmRequest struct {
	OrderID    string
	PaymentKey string
	Provider   domain.ProviderType
	Amount     decimal.Decimal
	HasAmount  bool
	Currency   string
}

type PaymentService struct {
	Repo    OrderRepo
	Factory ProviderFactory
}

// Confirm runs the confirmation protocol under the order's lock:
// order exists -> still PENDING -> client amount agrees with the stored
// amount -> provider eligible for the order's context -> gateway capture ->
// PAID. Any rejection leaves the order untouched, so retries are safe. The
// lock guarantees at most one caller observes PENDING and reaches capture.
func (s *PaymentService) Confirm(ctx context.Context, req ConfirmRequest) (domain.PaymentResult, error) {
	unlock := s.Repo.Lock(req.OrderID)
	defer unlock()

	o, ok := s.Repo.Get(req.OrderID)
	if !ok {
		return domain.PaymentResult{}, ErrNotFound("order")
	}
	if o.Status != domain.OrderPending {
		return domain.PaymentResult{}, ErrConflict("order already processed")
	}
	if req.HasAmount && !req.Amount.Equal(o.Amount) {
		slog.WarnContext(ctx, "confirmation amount mismatch",
			slog.String("orderId", o.OrderID),
			slog.String("expected", o.Amount.String()),
			slog.String("got", req.Amount.String()))
		return domain.PaymentResult{}, ErrBadRequest("amount mismatch")
	}
	if req.Currency != "" && req.Currency != o.Currency {
		slog.WarnContext(ctx, "confirmation currency mismatch",
			slog.String("orderId", o.OrderID),
			slog.String("expected", o.Currency),
			slog.String("got", req.Currency))
		return domain.PaymentResult{}, ErrBadRequest("currency mismatch")
	}

	pctx := domain.PaymentContext{Country: o.Country, BusinessType: o.BusinessType}
	if !s.Factory.Eligible(pctx, req.Provider) {
		return domain.PaymentResult{}, ErrBadRequest("payment provider not allowed for this order")
	}
	ad, err := s.Factory.Adapter(req.Provider)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	// The gateway is confirmed against the stored amount, never the
	// client-resubmitted one.
	res, err := ad.RequestPayment(ctx, payment.RequestParams{
		OrderID:       o.OrderID,
		Amount:        o.Amount,
		Currency:      o.Currency,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		PaymentKey:    req.PaymentKey,
	})
	if err != nil {
		return res, fmt.Errorf("gateway request failed: %w", err)
	}
	if !res.Success {
		return res, ErrBadRequest(res.Message)
	}

	if _, ok := s.Repo.UpdateStatus(o.OrderID, domain.OrderPaid); !ok {
		return res, ErrNotFound("order")
	}
	slog.InfoContext(ctx, "order paid",
		slog.String("orderId", o.OrderID),
		slog.String("provider", string(req.Provider)),
		slog.String("transactionId", res.TransactionID))
	return res, nil
}

// Cancel reverses a captured payment through its provider and marks the
// order CANCELLED.
func (s *PaymentService) Cancel(ctx context.Context, orderID string, provider domain.ProviderType, transactionID string) (domain.PaymentResult, error) {
	unlock := s.Repo.Lock(orderID)
	defer unlock()

	o, ok := s.Repo.Get(orderID)
	if !ok {
		return domain.PaymentResult{}, ErrNotFound("order")
	}
	if o.Status != domain.OrderPaid {
		return domain.PaymentResult{}, ErrConflict("order is not paid")
	}

	pctx := domain.PaymentContext{Country: o.Country, BusinessType: o.BusinessType}
	if !s.Factory.Eligible(pctx, provider) {
		return domain.PaymentResult{}, ErrBadRequest("payment provider not allowed for this order")
	}
	ad, err := s.Factory.Adapter(provider)
	if err != nil {
		return domain.PaymentResult{}, err
	}

	res, err := ad.CancelPayment(ctx, transactionID)
	if err != nil {
		return res, fmt.Errorf("gateway request failed: %w", err)
	}
	if !res.Success {
		return res, ErrBadRequest(res.Message)
	}

	if _, ok := s.Repo.UpdateStatus(orderID, domain.OrderCancelled); !ok {
		return res, ErrNotFound("order")
	}
	return res, nil
}
