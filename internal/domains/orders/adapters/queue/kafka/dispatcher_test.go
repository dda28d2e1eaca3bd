package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestDispatch_WritesJSONBodyKeyedByOrder(t *testing.T) {
	writer := &recordingWriter{}
	d := NewDispatcher(writer)

	msg := domain.FulfillmentMessage{
		OrderID:      "o-1",
		CustomerName: "Ada",
		Items:        []string{"mouse", "mouse"},
		ItemCounts:   map[string]int64{"mouse": 2},
	}
	require.NoError(t, d.Dispatch(context.Background(), msg))
	require.Len(t, writer.messages, 1)
	require.Equal(t, "o-1", string(writer.messages[0].Key))

	var body map[string]any
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &body))
	require.Equal(t, "o-1", body["order_id"])
	require.Equal(t, "Ada", body["customer_name"])
	require.Equal(t, []any{"mouse", "mouse"}, body["items"])
	require.Equal(t, map[string]any{"mouse": float64(2)}, body["item_counts"])
}

func TestDispatch_PropagatesWriterError(t *testing.T) {
	boom := errors.New("broker unavailable")
	d := NewDispatcher(&recordingWriter{err: boom})
	require.ErrorIs(t, d.Dispatch(context.Background(), domain.FulfillmentMessage{OrderID: "o-1"}), boom)
}
