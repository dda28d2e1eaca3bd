package ports

import (
	"context"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
)

// PaymentGateway collects money for an order. An error means the gateway
// broke, not that it declined.
type PaymentGateway interface {
	Charge(ctx context.Context, charge domain.Charge) (domain.ChargeResult, error)
}

// CarrierService books shipments. An error means the carrier integration
// broke, not that it refused the booking.
type CarrierService interface {
	Schedule(ctx context.Context, shipment domain.Shipment) (domain.Booking, error)
}

// PaymentProcessor is the payment stage contract: a structured result for every call.
type PaymentProcessor interface {
	Pay(ctx context.Context, req domain.PaymentRequest) domain.PaymentResult
}

// ShippingProcessor is the shipping stage contract: a structured result for every call.
type ShippingProcessor interface {
	Ship(ctx context.Context, req domain.ShippingRequest) domain.ShippingResult
}

// Execution identifies a started pipeline. Result is set when the
// orchestrator ran the pipeline to completion before returning.
type Execution struct {
	WorkflowID string
	RunID      string
	Result     *domain.PipelineResult
}

// PipelineOrchestrator sequences payment into shipping for one order.
type PipelineOrchestrator interface {
	Start(ctx context.Context, input domain.PipelineInput) (*Execution, error)
}
