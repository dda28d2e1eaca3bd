package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates the reservation-phase lifecycle of an order.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusFailed     Status = "Failed"
)

// UnknownCustomer is used when a change event carries no customer name.
const UnknownCustomer = "Unknown"

var (
	ErrMissingOrderID  = errors.New("order id is required")
	ErrMissingCustomer = errors.New("customer name is required")
	ErrEmptyItems      = errors.New("order must contain at least one item")
	ErrBlankItem       = errors.New("item names must not be blank")
	ErrInvalidStatus   = errors.New("order status is invalid")
)

// Order is the aggregate created by order intake. Only the reservation
// coordinator moves it out of Pending.
type Order struct {
	ID           string
	CustomerName string
	Items        []string
	Status       Status
	StatusReason string
	OrderDate    time.Time
	LastUpdated  time.Time
}

// NewOrder validates and constructs a Pending order.
func NewOrder(id, customerName string, items []string, now time.Time) (*Order, error) {
	order := &Order{
		ID:           strings.TrimSpace(id),
		CustomerName: strings.TrimSpace(customerName),
		Items:        append([]string(nil), items...),
		Status:       StatusPending,
		OrderDate:    now.UTC(),
		LastUpdated:  now.UTC(),
	}
	if order.CustomerName == "" {
		return nil, ErrMissingCustomer
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if strings.TrimSpace(o.ID) == "" {
		return ErrMissingOrderID
	}
	if len(o.Items) == 0 {
		return ErrEmptyItems
	}
	for _, item := range o.Items {
		if strings.TrimSpace(item) == "" {
			return ErrBlankItem
		}
	}
	if !isValidStatus(o.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// UpdateStatus records a lifecycle transition together with its reason.
func (o *Order) UpdateStatus(status Status, reason string, at time.Time) error {
	if !isValidStatus(status) {
		return ErrInvalidStatus
	}
	o.Status = status
	o.StatusReason = reason
	o.LastUpdated = at.UTC()
	return nil
}

// Clone returns a deep copy safe to hand across adapter boundaries.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]string(nil), o.Items...)
	return &clone
}

func isValidStatus(status Status) bool {
	switch status {
	case StatusPending, StatusProcessing, StatusFailed:
		return true
	default:
		return false
	}
}
