package kafka

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestTraceContextSurvivesHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := InjectHeaders(ctx, []kafka.Header{{Key: "source", Value: []byte("api")}})
	require.Equal(t, "api", HeaderValue(headers, "source"))
	require.NotEmpty(t, HeaderValue(headers, "traceparent"))

	extracted := trace.SpanContextFromContext(ExtractHeaders(context.Background(), headers))
	require.Equal(t, traceID, extracted.TraceID())
	require.Equal(t, spanID, extracted.SpanID())
}

func TestHeaderValueMissing(t *testing.T) {
	require.Empty(t, HeaderValue(nil, "traceparent"))
}
