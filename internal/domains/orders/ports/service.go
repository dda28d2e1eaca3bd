package ports

import (
	"context"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application/types"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error)
	// HandleChange runs the reservation coordinator for an INSERT event.
	// Other event kinds yield a nil outcome and no error.
	HandleChange(ctx context.Context, event domain.ChangeEvent) (*domain.ReservationOutcome, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}
