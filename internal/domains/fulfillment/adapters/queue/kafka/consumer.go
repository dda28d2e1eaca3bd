package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the fulfillment queue and starts one pipeline per message.
type Consumer struct {
	reader       messageReader
	orchestrator ports.PipelineOrchestrator
	logger       *slog.Logger
	tracer       trace.Tracer
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Consumer) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

func NewConsumer(reader messageReader, orchestrator ports.PipelineOrchestrator, opts ...Option) *Consumer {
	c := &Consumer{
		reader:       reader,
		orchestrator: orchestrator,
		logger:       slog.Default(),
		tracer:       otel.Tracer("fulfillment-queue-consumer"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Run consumes until ctx is cancelled. A message whose pipeline could not be
// started is left uncommitted and the consumer stops so it is redelivered.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.reader.Close()
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := c.handle(ctx, msg); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "commit failed", slog.Int64("offset", msg.Offset), slog.String("error", err.Error()))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	msgCtx := platformkafka.ExtractHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumeFulfillmentMessage",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset)))
	defer span.End()

	var input domain.PipelineInput
	if err := json.Unmarshal(msg.Value, &input); err != nil {
		c.logger.LogAttrs(msgCtx, slog.LevelError, "fulfillment message unmarshal failed", slog.String("error", err.Error()))
		span.SetStatus(codes.Error, err.Error())
		return nil
	}
	span.SetAttributes(attribute.String("order.id", input.OrderID))

	exec, err := c.orchestrator.Start(msgCtx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.LogAttrs(msgCtx, slog.LevelError, "failed to start fulfillment pipeline",
			slog.String("order.id", input.OrderID),
			slog.String("error", err.Error()))
		return err
	}
	attrs := []slog.Attr{slog.String("order.id", input.OrderID), slog.String("workflow.id", exec.WorkflowID)}
	if exec.Result != nil {
		attrs = append(attrs,
			slog.String("payment_status", string(exec.Result.Payment.PaymentStatus)),
			slog.String("shipping_status", string(exec.Result.Shipping.ShippingStatus)))
	}
	c.logger.LogAttrs(msgCtx, slog.LevelInfo, "fulfillment pipeline started", attrs...)
	return nil
}
