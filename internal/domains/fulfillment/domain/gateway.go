package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Charge asks a payment gateway to collect Amount for an order.
type Charge struct {
	OrderID      string
	CustomerName string
	Amount       decimal.Decimal
}

// ChargeResult is the gateway's answer. DeclineReason is set when Approved is false.
type ChargeResult struct {
	Approved      bool
	TransactionID string
	DeclineReason string
}

// Shipment asks a carrier service to book delivery of an order's items.
type Shipment struct {
	OrderID      string
	CustomerName string
	Items        []string
}

// Booking is the carrier's answer. FailureReason is set when Scheduled is false.
type Booking struct {
	Scheduled         bool
	Carrier           string
	TrackingNumber    string
	EstimatedDelivery time.Time
	FailureReason     string
}
