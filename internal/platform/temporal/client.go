// Package temporal dials the Temporal frontend with tracing and structured logging.
package temporal

import (
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	temporallog "go.temporal.io/sdk/log"
)

// Settings identifies the Temporal cluster.
type Settings struct {
	Address   string `env:"TEMPORAL_ADDRESS" envDefault:"localhost:7233"`
	Namespace string `env:"TEMPORAL_NAMESPACE" envDefault:"default"`
	Disabled  bool   `env:"TEMPORAL_DISABLED"`
}

// Dial connects to Temporal with an OpenTelemetry tracing interceptor.
func Dial(settings Settings, tracer trace.Tracer, logger *slog.Logger) (client.Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{Tracer: tracer})
	if err != nil {
		return nil, fmt.Errorf("configure temporal tracing interceptor: %w", err)
	}
	options := client.Options{
		HostPort:  orDefault(settings.Address, client.DefaultHostPort),
		Namespace: orDefault(settings.Namespace, client.DefaultNamespace),
		Logger:    temporallog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	c, err := client.Dial(options)
	if err != nil {
		return nil, fmt.Errorf("dial temporal %s: %w", options.HostPort, err)
	}
	return c, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
