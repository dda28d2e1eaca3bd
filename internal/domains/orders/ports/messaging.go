package ports

import (
	"context"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

// Dispatcher hands successfully reserved orders to the fulfillment queue.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg domain.FulfillmentMessage) error
}

// ChangeFeed publishes order change events for the reservation coordinator.
type ChangeFeed interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
}

// EventDeduplicator remembers delivered change events. Seen marks key as
// delivered and reports whether it had been marked before. Forget drops the
// mark so a delivery whose handling failed is processed again.
type EventDeduplicator interface {
	Seen(ctx context.Context, key string) (bool, error)
	Forget(ctx context.Context, key string) error
}
