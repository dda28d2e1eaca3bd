package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/application/types"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/observability/service"

// Service decorates the orders service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) PlaceOrder(ctx context.Context, input types.PlaceOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.PlaceOrder",
		trace.WithAttributes(attribute.Int("order.items", len(input.Items))))
	defer span.End()

	s.logInfo(ctx, "placing order", slog.String("customer", input.CustomerName), slog.Int("order.items", len(input.Items)))
	order, err := s.inner.PlaceOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to place order")
	}
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.String("order.status", string(order.Status)))
	s.metrics.recordPlaced(ctx)
	s.logInfo(ctx, "order placed", slog.String("order.id", order.ID), slog.String("status", string(order.Status)))
	return order, nil
}

func (s *Service) HandleChange(ctx context.Context, event domain.ChangeEvent) (*domain.ReservationOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.HandleChange",
		trace.WithAttributes(attribute.String("order.id", event.OrderID), attribute.String("order.event", event.EventName)))
	defer span.End()

	outcome, err := s.inner.HandleChange(ctx, event)
	if outcome != nil {
		span.SetAttributes(
			attribute.Bool("reservation.success", outcome.Success),
			attribute.Int("reservation.reserved_items", len(outcome.ReservedItems)),
			attribute.Int("reservation.compensation_failures", len(outcome.CompensationFailures)))
		s.metrics.recordOutcome(ctx, outcome)
		if outcome.CompensationIncomplete() {
			s.logError(ctx, "compensation incomplete, stock leaked", nil,
				slog.String("order.id", outcome.OrderID),
				slog.Int("compensation_failures", len(outcome.CompensationFailures)))
		}
	}
	if err != nil {
		return outcome, s.handleError(ctx, span, err, "failed to handle change event", slog.String("order.id", event.OrderID))
	}
	if outcome != nil {
		s.logInfo(ctx, "reservation finished",
			slog.String("order.id", outcome.OrderID),
			slog.Bool("success", outcome.Success),
			slog.String("reason", outcome.FailureReason))
	}
	return outcome, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrdersService.GetOrder", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()

	order, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return order, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersPlaced         metric.Int64Counter
	reservations         metric.Int64Counter
	compensationFailures metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersPlaced, _ := m.Int64Counter("orders.placed", metric.WithDescription("Number of orders accepted by intake"))
	reservations, _ := m.Int64Counter("orders.reservations", metric.WithDescription("Reservation attempts by outcome"))
	compensationFailures, _ := m.Int64Counter("orders.compensation_failures",
		metric.WithDescription("Releases that failed during rollback and leaked stock"))
	return serviceMetrics{ordersPlaced: ordersPlaced, reservations: reservations, compensationFailures: compensationFailures}
}

func (m serviceMetrics) recordPlaced(ctx context.Context) {
	if m.ordersPlaced != nil {
		m.ordersPlaced.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, outcome *domain.ReservationOutcome) {
	if m.reservations != nil {
		m.reservations.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcomeLabel(outcome))))
	}
	if m.compensationFailures != nil && outcome.CompensationIncomplete() {
		m.compensationFailures.Add(ctx, int64(len(outcome.CompensationFailures)))
	}
}

func outcomeLabel(outcome *domain.ReservationOutcome) string {
	switch {
	case outcome.Success:
		return "reserved"
	case len(outcome.UnavailableItems) > 0:
		return "unavailable"
	case outcome.CompensationIncomplete():
		return "compensation_incomplete"
	default:
		return "compensated"
	}
}

var _ ports.Service = (*Service)(nil)
