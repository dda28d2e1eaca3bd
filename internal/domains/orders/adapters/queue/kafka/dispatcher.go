package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	platformkafka "github.com/Apurer/go-order-fulfillment/internal/platform/kafka"
)

var _ ports.Dispatcher = (*Dispatcher)(nil)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Dispatcher writes fulfillment messages to a Kafka topic, one JSON object
// per order keyed by order id.
type Dispatcher struct {
	writer messageWriter
	source string
}

func NewDispatcher(writer messageWriter) *Dispatcher {
	return &Dispatcher{writer: writer, source: "order-service"}
}

func (d *Dispatcher) Dispatch(ctx context.Context, msg domain.FulfillmentMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode fulfillment message: %w", err)
	}
	headers := platformkafka.InjectHeaders(ctx, []kafka.Header{{Key: "source", Value: []byte(d.source)}})
	return d.writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(msg.OrderID),
		Value:   body,
		Headers: headers,
	})
}
