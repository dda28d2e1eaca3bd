package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyName      = errors.New("item name must not be empty")
	ErrNegativeStock  = errors.New("stock must not be negative")
	ErrNegativePrice  = errors.New("price must not be negative")
	ErrInvalidRequest = errors.New("requested quantity must be greater than zero")
)

// Item models a stocked product keyed by its name.
type Item struct {
	Name        string
	Stock       int64
	Price       decimal.Decimal
	Description string
}

// NewItem validates and constructs an inventory item.
func NewItem(name string, stock int64, price decimal.Decimal, description string) (*Item, error) {
	item := &Item{
		Name:        strings.TrimSpace(name),
		Stock:       stock,
		Price:       price,
		Description: description,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the item invariants.
func (i *Item) Validate() error {
	if i.Name == "" {
		return ErrEmptyName
	}
	if i.Stock < 0 {
		return ErrNegativeStock
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Covers reports whether the current stock satisfies the requested quantity.
func (i *Item) Covers(quantity int64) bool {
	return i != nil && i.Stock >= quantity
}
