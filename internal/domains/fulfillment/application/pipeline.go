package application

import (
	"context"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

// Pipeline runs payment then shipping in-process, feeding the payment
// output merged with the order's items into shipping.
type Pipeline struct {
	payment  ports.PaymentProcessor
	shipping ports.ShippingProcessor
}

func NewPipeline(payment ports.PaymentProcessor, shipping ports.ShippingProcessor) *Pipeline {
	return &Pipeline{payment: payment, shipping: shipping}
}

func (p *Pipeline) Run(ctx context.Context, input domain.PipelineInput) domain.PipelineResult {
	payment := p.payment.Pay(ctx, input.PaymentRequest())
	shipping := p.shipping.Ship(ctx, domain.NewShippingRequest(payment, input))
	return domain.PipelineResult{OrderID: input.OrderID, Payment: payment, Shipping: shipping}
}
