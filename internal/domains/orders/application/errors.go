package application

import (
	"errors"
	"fmt"

	invdomain "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrMalformedEvent marks change events that cannot be decoded.
	ErrMalformedEvent = errors.New("malformed change event")
	// ErrDispatch wraps fulfillment hand-off failures.
	ErrDispatch = errors.New("fulfillment dispatch failed")
	// ErrRecordStatus wraps order status persistence failures.
	ErrRecordStatus = errors.New("record order status failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMissingOrderID) ||
		errors.Is(err, domain.ErrMissingCustomer) ||
		errors.Is(err, domain.ErrEmptyItems) ||
		errors.Is(err, domain.ErrBlankItem) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, invdomain.ErrInvalidRequest) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
