package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	fulfillmentactivities "github.com/Apurer/go-order-fulfillment/internal/platform/temporal/activities/fulfillment"
)

// RunFulfillmentSequence executes payment and then shipping, feeding the
// payment output merged with the order's items into the shipping stage.
func RunFulfillmentSequence(ctx workflow.Context, input domain.PipelineInput) (*domain.PipelineResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("fulfillment sequence started", "orderId", input.OrderID)
	stageOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, stageOptions)

	var payment domain.PaymentResult
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.ProcessPaymentActivityName, input.PaymentRequest()).Get(ctx, &payment); err != nil {
		logger.Error("fulfillment sequence payment failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("fulfillment sequence payment finished", "orderId", input.OrderID, "paymentStatus", string(payment.PaymentStatus))

	var shipping domain.ShippingResult
	shippingReq := domain.NewShippingRequest(payment, input)
	if err := workflow.ExecuteActivity(ctx, fulfillmentactivities.ScheduleShippingActivityName, shippingReq).Get(ctx, &shipping); err != nil {
		logger.Error("fulfillment sequence shipping failed", "orderId", input.OrderID, "error", err)
		return nil, err
	}
	logger.Info("fulfillment sequence completed", "orderId", input.OrderID, "shippingStatus", string(shipping.ShippingStatus))

	return &domain.PipelineResult{OrderID: input.OrderID, Payment: payment, Shipping: shipping}, nil
}
