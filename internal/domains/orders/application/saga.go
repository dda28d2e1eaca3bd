package application

import (
	"context"
	"log/slog"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

// Compensation undoes one completed saga step.
type Compensation func(ctx context.Context) error

type sagaStep struct {
	item       string
	quantity   int64
	compensate Compensation
}

// Saga tracks completed steps of one reservation attempt, each paired with
// its compensating action.
type Saga struct {
	orderID string
	steps   []sagaStep
	logger  *slog.Logger
}

func newSaga(orderID string, logger *slog.Logger) *Saga {
	return &Saga{orderID: orderID, logger: logger}
}

// Completed appends a step that must be undone if a later step fails.
func (s *Saga) Completed(item string, quantity int64, compensate Compensation) {
	s.steps = append(s.steps, sagaStep{item: item, quantity: quantity, compensate: compensate})
}

// Len returns the number of completed steps not yet compensated.
func (s *Saga) Len() int {
	return len(s.steps)
}

// Compensate runs the compensations of exactly the completed steps, newest
// first. A failing compensation is logged and the loop continues; failures
// are returned in execution order. The saga is empty afterwards.
func (s *Saga) Compensate(ctx context.Context) []domain.CompensationFailure {
	// Rollback must still run when the triggering request was cancelled.
	ctx = context.WithoutCancel(ctx)

	var failures []domain.CompensationFailure
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.compensate(ctx); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelError, "compensation failed, stock leaked",
				slog.String("order.id", s.orderID),
				slog.String("item", step.item),
				slog.Int64("quantity", step.quantity),
				slog.String("error", err.Error()))
			failures = append(failures, domain.CompensationFailure{Name: step.item, Quantity: step.quantity, Err: err})
			continue
		}
		s.logger.LogAttrs(ctx, slog.LevelInfo, "reservation compensated",
			slog.String("order.id", s.orderID),
			slog.String("item", step.item),
			slog.Int64("quantity", step.quantity))
	}
	s.steps = nil
	return failures
}
