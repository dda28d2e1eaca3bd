package mapper

import (
	"time"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application/types"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

// PlaceOrderRequest is the intake payload accepted by POST /v1/orders.
type PlaceOrderRequest struct {
	CustomerName string   `json:"CustomerName"`
	Items        []string `json:"Items"`
}

// Order is the transport shape of an order.
type Order struct {
	OrderID      string    `json:"OrderId"`
	CustomerName string    `json:"CustomerName"`
	Items        []string  `json:"Items"`
	Status       string    `json:"Status"`
	StatusReason string    `json:"StatusReason,omitempty"`
	OrderDate    time.Time `json:"OrderDate"`
	LastUpdated  time.Time `json:"LastUpdated"`
}

// ToPlaceOrderInput converts the intake payload into the application input.
func ToPlaceOrderInput(req PlaceOrderRequest) types.PlaceOrderInput {
	return types.PlaceOrderInput{
		CustomerName: req.CustomerName,
		Items:        append([]string(nil), req.Items...),
	}
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *domain.Order) Order {
	if order == nil {
		return Order{}
	}
	return Order{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Items:        append([]string(nil), order.Items...),
		Status:       string(order.Status),
		StatusReason: order.StatusReason,
		OrderDate:    order.OrderDate,
		LastUpdated:  order.LastUpdated,
	}
}
