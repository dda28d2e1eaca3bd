package fulfillment

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/platform/temporal/sequences"
)

const (
	// PipelineWorkflowName is the public identifier for registering the workflow.
	PipelineWorkflowName = "fulfillment.workflows.Pipeline"
	// PipelineTaskQueue is the queue consumed by the worker running fulfillment pipelines.
	PipelineTaskQueue = "FULFILLMENT_PIPELINE"
)

// PipelineWorkflowInput captures the fulfillment message that started the pipeline.
type PipelineWorkflowInput struct {
	Order   domain.PipelineInput
	TraceID string
}

// PipelineWorkflow runs the payment and shipping stages for one order.
func PipelineWorkflow(ctx workflow.Context, input PipelineWorkflowInput) (*domain.PipelineResult, error) {
	logger := workflow.GetLogger(ctx)
	orderID := input.Order.OrderID
	logger.Info("PipelineWorkflow started", withTraceID(input.TraceID, "orderId", orderID)...)
	result, err := sequences.RunFulfillmentSequence(ctx, input.Order)
	if err != nil {
		logger.Error("PipelineWorkflow failed", withTraceID(input.TraceID, "orderId", orderID, "error", err)...)
		return nil, err
	}
	logger.Info("PipelineWorkflow completed", withTraceID(input.TraceID, "orderId", orderID, "fulfilled", result.Fulfilled())...)
	return result, nil
}

// RegisterOptions registers PipelineWorkflow under its public name.
func RegisterOptions() workflow.RegisterOptions {
	return workflow.RegisterOptions{Name: PipelineWorkflowName}
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
