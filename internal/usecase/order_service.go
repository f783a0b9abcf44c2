package usecase

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/dokimion24/payment/internal/domain"
	"github.com/dokimion24/payment/internal/payment"
)

type OrderRepo interface {
	Create(domain.Order) domain.Order
	Get(id string) (domain.Order, bool)
	UpdateStatus(id string, status domain.OrderStatus) (domain.Order, bool)
	Lock(id string) func()
}

type ProviderFactory interface {
	AvailableProviders(ctx domain.PaymentContext) []domain.ProviderType
	Eligible(ctx domain.PaymentContext, provider domain.ProviderType) bool
	Adapter(provider domain.ProviderType) (payment.Adapter, error)
}

var (
	emailRe        = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	registrationRe = regexp.MustCompile(`^\d{3}-\d{2}-\d{5}$`)
)

type CreateOrderRequest struct {
	Amount             decimal.Decimal     `json:"amount"`
	Currency           string              `json:"currency"`
	OrderName          string              `json:"orderName"`
	CustomerName       string              `json:"customerName"`
	CustomerEmail      string              `json:"customerEmail"`
	Country            string              `json:"country"`
	BusinessType       domain.BusinessType `json:"businessType"`
	RegistrationNumber string              `json:"registrationNumber"`

	// Optional: when set, the created order's checkout URL for this provider
	// is derived and returned. Must be eligible for the order's country and
	// business type.
	Provider domain.ProviderType `json:"provider,omitempty"`
}

// Validate collects every field problem as a human-readable message.
func (r CreateOrderRequest) Validate() []string {
	var errs []string
	if !r.Amount.IsPositive() {
		errs = append(errs, "amount must be greater than 0")
	}
	if r.Currency == "" {
		errs = append(errs, "currency is required")
	}
	if r.OrderName == "" {
		errs = append(errs, "orderName is required")
	}
	if len([]rune(r.CustomerName)) < 2 {
		errs = append(errs, "customerName must be at least 2 characters")
	}
	if !emailRe.MatchString(r.CustomerEmail) {
		errs = append(errs, "customerEmail must be a valid email")
	}
	if r.Country == "" {
		errs = append(errs, "country is required")
	}
	if !r.BusinessType.Valid() {
		errs = append(errs, "businessType must be one of NONE, INDIVIDUAL, CORPORATE")
	} else if r.BusinessType != domain.BusinessNone && !registrationRe.MatchString(r.RegistrationNumber) {
		errs = append(errs, "registrationNumber must match NNN-NN-NNNNN")
	}
	return errs
}

type CreatedOrder struct {
	Order       domain.Order
	CheckoutURL string
}

type OrderService struct {
	Repo    OrderRepo
	Factory ProviderFactory
}

// Create validates the request, persists a PENDING order and, when a
// provider was chosen, derives its checkout route. Validation failures come
// back as a message list; a non-nil error is a wiring fault, not bad input.
func (s *OrderService) Create(req CreateOrderRequest) (CreatedOrder, []string, error) {
	errs := req.Validate()

	pctx := domain.PaymentContext{Country: req.Country, BusinessType: req.BusinessType}
	if req.Provider != "" && len(errs) == 0 && !s.Factory.Eligible(pctx, req.Provider) {
		errs = append(errs, "provider is not available for this country")
	}
	if len(errs) > 0 {
		return CreatedOrder{}, errs, nil
	}

	// Resolve the adapter before persisting: a registry fault must not
	// leave behind a PENDING order whose id the caller never sees.
	var ad payment.Adapter
	if req.Provider != "" {
		resolved, err := s.Factory.Adapter(req.Provider)
		if err != nil {
			return CreatedOrder{}, nil, err
		}
		ad = resolved
	}

	o := s.Repo.Create(domain.Order{
		Amount:             req.Amount,
		Currency:           req.Currency,
		OrderName:          req.OrderName,
		CustomerName:       req.CustomerName,
		CustomerEmail:      req.CustomerEmail,
		BusinessType:       req.BusinessType,
		RegistrationNumber: req.RegistrationNumber,
		Country:            req.Country,
	})

	created := CreatedOrder{Order: o}
	if ad != nil {
		created.CheckoutURL = ad.CheckoutURL(payment.CheckoutParams{
			OrderID:       o.OrderID,
			Amount:        o.Amount,
			Currency:      o.Currency,
			OrderName:     o.OrderName,
			CustomerName:  o.CustomerName,
			CustomerEmail: o.CustomerEmail,
		})
	}
	return created, nil, nil
}

type ErrNotFound string

func (e ErrNotFound) Error() string { return string(e) + " not found" }

type ErrConflict string

func (e ErrConflict) Error() string { return string(e) }

type ErrBadRequest string

func (e ErrBadRequest) Error() string { return string(e) }
