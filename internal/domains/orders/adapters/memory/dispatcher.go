package memory

import (
	"context"
	"sync"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

var _ ports.Dispatcher = (*Dispatcher)(nil)

// Dispatcher keeps dispatched messages in memory and optionally forwards each
// one synchronously, standing in for the fulfillment queue.
type Dispatcher struct {
	mu       sync.Mutex
	messages []domain.FulfillmentMessage
	forward  func(context.Context, domain.FulfillmentMessage) error
}

type DispatcherOption func(*Dispatcher)

// WithForward hands every dispatched message to fn before it is recorded.
func WithForward(fn func(context.Context, domain.FulfillmentMessage) error) DispatcherOption {
	return func(d *Dispatcher) {
		d.forward = fn
	}
}

func NewDispatcher(opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.FulfillmentMessage) error {
	if d.forward != nil {
		if err := d.forward(ctx, msg); err != nil {
			return err
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

// Messages returns a copy of everything dispatched so far.
func (d *Dispatcher) Messages() []domain.FulfillmentMessage {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.FulfillmentMessage(nil), d.messages...)
}
