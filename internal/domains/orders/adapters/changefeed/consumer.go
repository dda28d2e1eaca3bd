package changefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads the order changes topic and runs the reservation
// coordinator once per delivered INSERT event.
type Consumer struct {
	reader  messageReader
	handler Handler
	dedup   ports.EventDeduplicator
	logger  *slog.Logger
	tracer  trace.Tracer
}

type ConsumerOption func(*Consumer)

func WithConsumerLogger(logger *slog.Logger) ConsumerOption {
	return func(c *Consumer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithConsumerTracer(tracer trace.Tracer) ConsumerOption {
	return func(c *Consumer) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

func NewConsumer(reader messageReader, handler Handler, dedup ports.EventDeduplicator, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:  reader,
		handler: handler,
		dedup:   dedup,
		logger:  slog.Default(),
		tracer:  otel.Tracer("orders-changefeed-consumer"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Run consumes until ctx is cancelled, the reader fails, or an event cannot
// be handled. A failed event is left uncommitted so it is redelivered.
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
			return fmt.Errorf("order change at offset %d: %w", msg.Offset, err)
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "commit failed",
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) error {
	msgCtx := platformkafka.ExtractHeaders(ctx, msg.Headers)
	msgCtx, span := c.tracer.Start(msgCtx, "ConsumeOrderChange",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.Int("messaging.kafka.partition", msg.Partition),
			attribute.Int64("messaging.kafka.offset", msg.Offset)))
	defer span.End()

	var event domain.ChangeEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logger.LogAttrs(msgCtx, slog.LevelError, "change event unmarshal failed", slog.String("error", err.Error()))
		span.SetStatus(codes.Error, err.Error())
		return nil
	}
	span.SetAttributes(attribute.String("order.id", event.OrderID), attribute.String("order.event", event.EventName))
	if !event.IsInsert() {
		c.logger.LogAttrs(msgCtx, slog.LevelDebug, "ignoring change event",
			slog.String("event", event.EventName),
			slog.String("order.id", event.OrderID))
		return nil
	}

	key := fmt.Sprintf("%s:%d:%d", msg.Topic, msg.Partition, msg.Offset)
	seen, err := c.dedup.Seen(msgCtx, key)
	if err != nil {
		c.logger.LogAttrs(msgCtx, slog.LevelError, "idempotency check failed", slog.String("key", key), slog.String("error", err.Error()))
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	if seen {
		c.logger.LogAttrs(msgCtx, slog.LevelInfo, "duplicate change event skipped", slog.String("key", key))
		return nil
	}

	if err := c.handler(msgCtx, event); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if ferr := c.dedup.Forget(context.WithoutCancel(msgCtx), key); ferr != nil {
			c.logger.LogAttrs(msgCtx, slog.LevelWarn, "idempotency mark not cleared",
				slog.String("key", key),
				slog.String("error", ferr.Error()))
		}
		return err
	}
	return nil
}
