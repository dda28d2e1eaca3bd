package changefeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
)

var _ ports.ChangeFeed = (*Publisher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Publisher writes change events to the order changes topic keyed by order id.
type Publisher struct {
	writer messageWriter
}

func NewPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer}
}

func (p *Publisher) Publish(ctx context.Context, event domain.ChangeEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode change event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(event.OrderID),
		Value:   body,
		Headers: platformkafka.InjectHeaders(ctx, nil),
	})
}
