package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderPaid      OrderStatus = "PAID"
	OrderCancelled OrderStatus = "CANCELLED"
)

type BusinessType string

const (
	BusinessNone       BusinessType = "NONE"
	BusinessIndividual BusinessType = "INDIVIDUAL"
	BusinessCorporate  BusinessType = "CORPORATE"
)

func (b BusinessType) Valid() bool {
	switch b {
	case BusinessNone, BusinessIndividual, BusinessCorporate:
		return true
	}
	return false
}

// Order is a single purchase intent. Amount and Currency are fixed at
// creation time and are the authority every later confirmation request is
// checked against.
type Order struct {
	OrderID            string          `json:"orderId"`
	Amount             decimal.Decimal `json:"amount"`
	Currency           string          `json:"currency"`
	OrderName          string          `json:"orderName"`
	CustomerName       string          `json:"customerName"`
	CustomerEmail      string          `json:"customerEmail"`
	BusinessType       BusinessType    `json:"businessType"`
	RegistrationNumber string          `json:"registrationNumber,omitempty"`
	Country            string          `json:"country"`
	Status             OrderStatus     `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
}
