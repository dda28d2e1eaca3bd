package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EventInsert is the only change-feed event kind the coordinator reacts to.
const EventInsert = "INSERT"

// ChangeEvent is one record of the order change feed. Items is the
// JSON-encoded list of item names, exactly as the intake path stored it.
type ChangeEvent struct {
	EventName    string `json:"eventName"`
	OrderID      string `json:"OrderId"`
	Items        string `json:"Items"`
	CustomerName string `json:"CustomerName,omitempty"`
}

// NewInsertEvent builds the change event emitted when an order is created.
func NewInsertEvent(order *Order) (ChangeEvent, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return ChangeEvent{}, fmt.Errorf("encode items: %w", err)
	}
	return ChangeEvent{
		EventName:    EventInsert,
		OrderID:      order.ID,
		Items:        string(items),
		CustomerName: order.CustomerName,
	}, nil
}

// IsInsert reports whether the event announces a newly created order.
func (e ChangeEvent) IsInsert() bool {
	return strings.EqualFold(strings.TrimSpace(e.EventName), EventInsert)
}

// DecodeItems parses the JSON-encoded item list.
func (e ChangeEvent) DecodeItems() ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(e.Items), &items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", e.OrderID, err)
	}
	return items, nil
}

// Customer falls back to UnknownCustomer for events without a name.
func (e ChangeEvent) Customer() string {
	if name := strings.TrimSpace(e.CustomerName); name != "" {
		return name
	}
	return UnknownCustomer
}

// FulfillmentMessage is the queue body handed to the fulfillment pipeline.
type FulfillmentMessage struct {
	OrderID      string           `json:"order_id"`
	CustomerName string           `json:"customer_name"`
	Items        []string         `json:"items"`
	ItemCounts   map[string]int64 `json:"item_counts"`
}
