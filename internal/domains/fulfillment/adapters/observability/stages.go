package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

const tracerName = "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/observability/stages"

type config struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

type Option func(*config)

func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(c *config) { c.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(c *config) { c.meter = m }
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.tracer == nil {
		cfg.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return cfg
}

// PaymentStage decorates the payment stage with a span, a log line and the
// fulfillment.payments counter.
type PaymentStage struct {
	inner    ports.PaymentProcessor
	cfg      config
	payments metric.Int64Counter
}

func NewPaymentStage(inner ports.PaymentProcessor, opts ...Option) ports.PaymentProcessor {
	s := &PaymentStage{inner: inner, cfg: newConfig(opts)}
	if s.cfg.meter != nil {
		s.payments, _ = s.cfg.meter.Int64Counter("fulfillment.payments", metric.WithDescription("Payment stage results by status"))
	}
	return s
}

func (s *PaymentStage) Pay(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult {
	ctx, span := s.cfg.tracer.Start(ctx, "PaymentStage.Pay", trace.WithAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.Int("order.items", len(req.Items))))
	defer span.End()

	result := s.inner.Pay(ctx, req)
	status := string(result.PaymentStatus)
	span.SetAttributes(attribute.String("payment.status", status), attribute.Int("http.status_code", result.StatusCode))
	if result.PaymentStatus == domain.PaymentError {
		span.SetStatus(codes.Error, result.Error)
	}
	if s.payments != nil {
		s.payments.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
	logResult(ctx, s.cfg.logger, "payment stage finished", result.PaymentStatus == domain.PaymentError,
		slog.String("order.id", result.OrderID),
		slog.String("payment_status", status),
		slog.String("error", result.Error))
	return result
}

// ShippingStage decorates the shipping stage with a span, a log line and the
// fulfillment.shipments counter.
type ShippingStage struct {
	inner     ports.ShippingProcessor
	cfg       config
	shipments metric.Int64Counter
}

func NewShippingStage(inner ports.ShippingProcessor, opts ...Option) ports.ShippingProcessor {
	s := &ShippingStage{inner: inner, cfg: newConfig(opts)}
	if s.cfg.meter != nil {
		s.shipments, _ = s.cfg.meter.Int64Counter("fulfillment.shipments", metric.WithDescription("Shipping stage results by status"))
	}
	return s
}

func (s *ShippingStage) Ship(ctx context.Context, req domain.ShippingRequest) domain.ShippingResult {
	ctx, span := s.cfg.tracer.Start(ctx, "ShippingStage.Ship", trace.WithAttributes(
		attribute.String("order.id", req.OrderID),
		attribute.String("payment.status", string(req.PaymentStatus))))
	defer span.End()

	result := s.inner.Ship(ctx, req)
	status := string(result.ShippingStatus)
	span.SetAttributes(attribute.String("shipping.status", status), attribute.Int("http.status_code", result.StatusCode))
	if result.ShippingStatus == domain.ShippingError {
		span.SetStatus(codes.Error, result.Error)
	}
	if s.shipments != nil {
		s.shipments.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
	logResult(ctx, s.cfg.logger, "shipping stage finished", result.ShippingStatus == domain.ShippingError,
		slog.String("order.id", result.OrderID),
		slog.String("shipping_status", status),
		slog.String("carrier", result.Carrier),
		slog.String("error", result.Error))
	return result
}

func logResult(ctx context.Context, logger *slog.Logger, msg string, failed bool, attrs ...slog.Attr) {
	if logger == nil {
		return
	}
	level := slog.LevelInfo
	if failed {
		level = slog.LevelError
	}
	logger.LogAttrs(ctx, level, msg, attrs...)
}

var (
	_ ports.PaymentProcessor  = (*PaymentStage)(nil)
	_ ports.ShippingProcessor = (*ShippingStage)(nil)
)
