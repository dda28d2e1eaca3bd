package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	invdomain "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	invports "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

// Coordinator reserves the stock of one order at a time: aggregate, pre-check,
// reserve item by item, compensate on a mid-sequence failure, then record the
// status and hand the order to fulfillment.
type Coordinator struct {
	store      invports.Store
	repo       ports.Repository
	dispatcher ports.Dispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// CoordinatorOption customises a Coordinator.
type CoordinatorOption func(*Coordinator)

func WithCoordinatorLogger(logger *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithCoordinatorClock(now func() time.Time) CoordinatorOption {
	return func(c *Coordinator) {
		if now != nil {
			c.now = now
		}
	}
}

func NewCoordinator(store invports.Store, repo ports.Repository, dispatcher ports.Dispatcher, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		store:      store,
		repo:       repo,
		dispatcher: dispatcher,
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Reserve runs one reservation attempt for order. The outcome is always
// returned; the error is non-nil only when the status could not be recorded
// or the fulfillment hand-off failed.
func (c *Coordinator) Reserve(ctx context.Context, order *domain.Order) (*domain.ReservationOutcome, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	counts := invdomain.CountItems(order.Items)
	outcome := &domain.ReservationOutcome{OrderID: order.ID}

	if unavailable := c.precheck(ctx, order.ID, counts); len(unavailable) > 0 {
		outcome.UnavailableItems = unavailable
		outcome.FailureReason = domain.UnavailableReason(unavailable)
		return outcome, c.fail(ctx, order, outcome.FailureReason)
	}

	saga := newSaga(order.ID, c.logger)
	for _, line := range counts {
		if err := c.store.TryReserve(ctx, line.Name, line.Quantity); err != nil {
			c.logReservationFailure(ctx, order.ID, line, saga.Len(), err)
			outcome.CompensationFailures = saga.Compensate(ctx)
			outcome.FailureReason = domain.CompensationReason(domain.ReasonReservationFailed, outcome.CompensationFailures)
			return outcome, c.fail(ctx, order, outcome.FailureReason)
		}
		saga.Completed(line.Name, line.Quantity, c.release(line.Name, line.Quantity))
		outcome.ReservedItems = append(outcome.ReservedItems, line.Name)
	}

	if err := order.UpdateStatus(domain.StatusProcessing, "", c.now()); err != nil {
		return outcome, err
	}
	if err := c.repo.RecordStatus(ctx, order); err != nil {
		outcome.CompensationFailures = saga.Compensate(ctx)
		outcome.FailureReason = domain.CompensationReason(domain.ReasonStatusNotRecorded, outcome.CompensationFailures)
		return outcome, fmt.Errorf("%w: order %s: %w", ErrRecordStatus, order.ID, err)
	}

	msg := domain.FulfillmentMessage{
		OrderID:      order.ID,
		CustomerName: order.CustomerName,
		Items:        append([]string(nil), order.Items...),
		ItemCounts:   counts.AsMap(),
	}
	if err := c.dispatcher.Dispatch(ctx, msg); err != nil {
		outcome.CompensationFailures = saga.Compensate(ctx)
		outcome.FailureReason = domain.CompensationReason(domain.ReasonDispatchFailed, outcome.CompensationFailures)
		dispatchErr := fmt.Errorf("%w: order %s: %w", ErrDispatch, order.ID, err)
		if recordErr := c.fail(ctx, order, outcome.FailureReason); recordErr != nil {
			return outcome, errors.Join(dispatchErr, recordErr)
		}
		return outcome, dispatchErr
	}

	outcome.Success = true
	c.logger.LogAttrs(ctx, slog.LevelInfo, "inventory reserved, order dispatched",
		slog.String("order.id", order.ID),
		slog.Int("order.distinct_items", len(counts)),
		slog.Int64("order.units", counts.Total()))
	return outcome, nil
}

// precheck is a point-in-time read used to short-circuit orders that cannot
// be satisfied. It never mutates stock and does not guarantee the
// reservation phase will succeed.
func (c *Coordinator) precheck(ctx context.Context, orderID string, counts invdomain.ItemCount) []domain.UnavailableItem {
	var unavailable []domain.UnavailableItem
	for _, line := range counts {
		var available int64
		item, err := c.store.Get(ctx, line.Name)
		switch {
		case err == nil:
			available = item.Stock
		case errors.Is(err, invports.ErrNotFound):
		default:
			c.logger.LogAttrs(ctx, slog.LevelWarn, "inventory read failed, treating item as unavailable",
				slog.String("order.id", orderID),
				slog.String("item", line.Name),
				slog.String("error", err.Error()))
		}
		if available < line.Quantity {
			unavailable = append(unavailable, domain.UnavailableItem{Name: line.Name, Requested: line.Quantity, Available: available})
		}
	}
	return unavailable
}

func (c *Coordinator) release(name string, quantity int64) Compensation {
	return func(ctx context.Context) error {
		return c.store.Release(ctx, name, quantity)
	}
}

func (c *Coordinator) fail(ctx context.Context, order *domain.Order, reason string) error {
	if err := order.UpdateStatus(domain.StatusFailed, reason, c.now()); err != nil {
		return err
	}
	c.logger.LogAttrs(ctx, slog.LevelWarn, "order reservation failed",
		slog.String("order.id", order.ID),
		slog.String("reason", reason))
	if err := c.repo.RecordStatus(ctx, order); err != nil {
		return fmt.Errorf("%w: order %s: %w", ErrRecordStatus, order.ID, err)
	}
	return nil
}

func (c *Coordinator) logReservationFailure(ctx context.Context, orderID string, line invdomain.ItemQuantity, completed int, err error) {
	level := slog.LevelWarn
	if invports.IsStoreError(err) {
		level = slog.LevelError
	}
	c.logger.LogAttrs(ctx, level, "reservation step failed, compensating",
		slog.String("order.id", orderID),
		slog.String("item", line.Name),
		slog.Int64("quantity", line.Quantity),
		slog.Int("steps_to_compensate", completed),
		slog.String("error", err.Error()))
}
