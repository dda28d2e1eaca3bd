package bootstrap

import (
	"context"
	"log/slog"

	"go.temporal.io/sdk/client"

	fulfillmentobs "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/observability"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/simulated"
	fulfillmentworkflows "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/workflows"
	fulfillmentapp "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/application"
	fulfillmentdomain "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	fulfillmentports "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
	ordersdomain "github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/platform/observability"
	platformtemporal "github.com/Apurer/go-order-fulfillment/internal/platform/temporal"
)

// Stages bundles the instrumented payment and shipping stages.
type Stages struct {
	Payment  fulfillmentports.PaymentProcessor
	Shipping fulfillmentports.ShippingProcessor
}

func BuildStages(cfg Config, instruments *observability.Instruments) Stages {
	logger := instruments.EffectiveLogger()
	payment := fulfillmentapp.NewPaymentStage(
		simulated.NewGateway(simulated.WithPaymentDelay(cfg.PaymentDelay)),
		fulfillmentapp.WithPaymentLogger(logger))
	shipping := fulfillmentapp.NewShippingStage(
		simulated.NewCarrier(simulated.WithShippingDelay(cfg.ShippingDelay)),
		fulfillmentapp.WithShippingLogger(logger))
	opts := []fulfillmentobs.Option{
		fulfillmentobs.WithLogger(logger),
		fulfillmentobs.WithTracer(instruments.Tracer("internal.fulfillment.application")),
		fulfillmentobs.WithMeter(instruments.Meter("internal.fulfillment.application")),
	}
	return Stages{
		Payment:  fulfillmentobs.NewPaymentStage(payment, opts...),
		Shipping: fulfillmentobs.NewShippingStage(shipping, opts...),
	}
}

// ConnectTemporal returns nil when Temporal is disabled or unreachable.
func ConnectTemporal(cfg Config, instruments *observability.Instruments) client.Client {
	logger := instruments.EffectiveLogger()
	if cfg.Temporal.Disabled {
		logger.Warn("Temporal disabled via TEMPORAL_DISABLED, running pipelines inline")
		return nil
	}
	c, err := platformtemporal.Dial(cfg.Temporal, instruments.Tracer("temporal-client"), logger)
	if err != nil {
		logger.Warn("Temporal unavailable, running pipelines inline", slog.String("error", err.Error()))
		return nil
	}
	logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.Temporal.Namespace))
	return c
}

// BuildOrchestrator prefers the Temporal pipeline and falls back to running
// both stages in process.
func BuildOrchestrator(temporalClient client.Client, stages Stages) fulfillmentports.PipelineOrchestrator {
	if temporalClient != nil {
		return fulfillmentworkflows.NewTemporalPipeline(temporalClient)
	}
	return fulfillmentworkflows.NewInlinePipeline(fulfillmentapp.NewPipeline(stages.Payment, stages.Shipping))
}

// PipelineInputFromMessage converts the reservation hand-off into the
// fulfillment pipeline input.
func PipelineInputFromMessage(msg ordersdomain.FulfillmentMessage) fulfillmentdomain.PipelineInput {
	counts := make(map[string]int64, len(msg.ItemCounts))
	for name, qty := range msg.ItemCounts {
		counts[name] = qty
	}
	return fulfillmentdomain.PipelineInput{
		OrderID:      msg.OrderID,
		CustomerName: msg.CustomerName,
		Items:        append([]string(nil), msg.Items...),
		ItemCounts:   counts,
	}
}

// ForwardToPipeline adapts an orchestrator into a dispatcher hand-off used
// when no fulfillment queue is configured.
func ForwardToPipeline(orchestrator fulfillmentports.PipelineOrchestrator, logger *slog.Logger) func(context.Context, ordersdomain.FulfillmentMessage) error {
	return func(ctx context.Context, msg ordersdomain.FulfillmentMessage) error {
		exec, err := orchestrator.Start(ctx, PipelineInputFromMessage(msg))
		if err != nil {
			return err
		}
		attrs := []slog.Attr{slog.String("order.id", msg.OrderID), slog.String("workflow.id", exec.WorkflowID)}
		if exec.Result != nil {
			attrs = append(attrs, slog.Bool("fulfilled", exec.Result.Fulfilled()))
		}
		logger.LogAttrs(ctx, slog.LevelInfo, "fulfillment pipeline started", attrs...)
		return nil
	}
}
