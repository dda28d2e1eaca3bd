// Package changefeed carries order change events from intake to the
// reservation coordinator, either in-process or through Kafka.
package changefeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

var _ ports.ChangeFeed = (*Inline)(nil)

// Handler reacts to one change event.
type Handler func(ctx context.Context, event domain.ChangeEvent) error

// ServiceHandler adapts the orders service into a Handler. Malformed events
// are logged and dropped, leaving the order Pending. Failures that still
// produced an outcome are logged only, since the order status was recorded.
func ServiceHandler(svc ports.Service, logger *slog.Logger) Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, event domain.ChangeEvent) error {
		outcome, err := svc.HandleChange(ctx, event)
		if err != nil {
			logger.LogAttrs(ctx, slog.LevelError, "change event handling failed",
				slog.String("order.id", event.OrderID),
				slog.String("error", err.Error()))
			if outcome != nil || errors.Is(err, application.ErrMalformedEvent) {
				return nil
			}
			return err
		}
		if outcome != nil && !outcome.Success {
			logger.LogAttrs(ctx, slog.LevelInfo, "order not reserved",
				slog.String("order.id", event.OrderID),
				slog.String("reason", outcome.FailureReason))
		}
		return nil
	}
}

// Inline delivers every published event synchronously to the subscribed handler.
type Inline struct {
	mu      sync.RWMutex
	handler Handler
}

func NewInline() *Inline {
	return &Inline{}
}

// Subscribe installs the handler; the feed and the service depend on each
// other so the handler is attached after construction.
func (f *Inline) Subscribe(handler Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
}

func (f *Inline) Publish(ctx context.Context, event domain.ChangeEvent) error {
	f.mu.RLock()
	handler := f.handler
	f.mu.RUnlock()
	if handler == nil {
		return errors.New("inline change feed has no subscriber")
	}
	return handler(ctx, event)
}
