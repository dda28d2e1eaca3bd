package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	oteltrace "go.opentelemetry.io/otel/trace"
	enumspb "go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/application"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
	fulfillmentworkflows "github.com/Apurer/go-order-fulfillment/internal/platform/temporal/workflows/fulfillment"
)

var (
	_ ports.PipelineOrchestrator = (*TemporalPipeline)(nil)
	_ ports.PipelineOrchestrator = (*InlinePipeline)(nil)
)

type workflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalPipeline starts one fulfillment workflow per order on a Temporal cluster.
type TemporalPipeline struct {
	client    workflowStarter
	taskQueue string
}

// NewTemporalPipeline wires a Temporal client into the orchestrator.
func NewTemporalPipeline(c client.Client) *TemporalPipeline {
	return &TemporalPipeline{client: c, taskQueue: fulfillmentworkflows.PipelineTaskQueue}
}

// Start launches the pipeline without waiting for it. The workflow id is
// derived from the order id, so a redelivered message finds the existing
// execution instead of starting a second one.
func (o *TemporalPipeline) Start(ctx context.Context, input domain.PipelineInput) (*ports.Execution, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal pipeline not configured")
	}
	if strings.TrimSpace(input.OrderID) == "" {
		return nil, errors.New("pipeline input has no order id")
	}
	workflowID := PipelineWorkflowID(input.OrderID)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		fulfillmentworkflows.PipelineWorkflow,
		fulfillmentworkflows.PipelineWorkflowInput{Order: input, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return &ports.Execution{WorkflowID: workflowID, RunID: alreadyStarted.RunId}, nil
		}
		return nil, fmt.Errorf("start pipeline for order %s: %w", input.OrderID, err)
	}
	return &ports.Execution{WorkflowID: run.GetID(), RunID: run.GetRunID()}, nil
}

// InlinePipeline runs the stages in-process, useful for tests or dev fallbacks.
type InlinePipeline struct {
	pipeline *application.Pipeline
}

func NewInlinePipeline(pipeline *application.Pipeline) *InlinePipeline {
	return &InlinePipeline{pipeline: pipeline}
}

// Start runs the pipeline to completion before returning.
func (o *InlinePipeline) Start(ctx context.Context, input domain.PipelineInput) (*ports.Execution, error) {
	if o == nil || o.pipeline == nil {
		return nil, errors.New("inline pipeline not configured")
	}
	result := o.pipeline.Run(ctx, input)
	return &ports.Execution{WorkflowID: PipelineWorkflowID(input.OrderID), Result: &result}, nil
}

// PipelineWorkflowID names the pipeline execution of an order.
func PipelineWorkflowID(orderID string) string {
	return "fulfillment-" + orderID
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
