package fulfillment

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

const (
	// ProcessPaymentActivityName runs the payment stage.
	ProcessPaymentActivityName = "fulfillment.activities.ProcessPayment"
	// ScheduleShippingActivityName runs the shipping stage.
	ScheduleShippingActivityName = "fulfillment.activities.ScheduleShipping"
)

// Activities exposes the fulfillment stages to Temporal workers.
type Activities struct {
	payment  ports.PaymentProcessor
	shipping ports.ShippingProcessor
}

func NewActivities(payment ports.PaymentProcessor, shipping ports.ShippingProcessor) *Activities {
	return &Activities{payment: payment, shipping: shipping}
}

// ProcessPayment returns the structured payment result; declines and gateway
// errors are results, not activity failures, so they are never retried.
func (a *Activities) ProcessPayment(ctx context.Context, req domain.PaymentRequest) (*domain.PaymentResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.payment == nil {
		logger.Error("payment activity not initialized", "orderId", req.OrderID)
		return nil, errors.New("payment activity not initialized")
	}
	logger.Info("ProcessPayment activity started", "orderId", req.OrderID)
	result := a.payment.Pay(ctx, req)
	logger.Info("ProcessPayment activity completed", "orderId", result.OrderID, "paymentStatus", string(result.PaymentStatus))
	return &result, nil
}

func (a *Activities) ScheduleShipping(ctx context.Context, req domain.ShippingRequest) (*domain.ShippingResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.shipping == nil {
		logger.Error("shipping activity not initialized", "orderId", req.OrderID)
		return nil, errors.New("shipping activity not initialized")
	}
	logger.Info("ScheduleShipping activity started", "orderId", req.OrderID)
	result := a.shipping.Ship(ctx, req)
	logger.Info("ScheduleShipping activity completed", "orderId", result.OrderID, "shippingStatus", string(result.ShippingStatus))
	return &result, nil
}
