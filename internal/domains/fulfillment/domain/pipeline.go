package domain

// UnknownOrderID is reported when a stage is invoked without an order id.
const UnknownOrderID = "unknown"

// PipelineInput is the fulfillment queue message that starts a pipeline.
type PipelineInput struct {
	OrderID      string           `json:"order_id"`
	CustomerName string           `json:"customer_name"`
	Items        []string         `json:"items"`
	ItemCounts   map[string]int64 `json:"item_counts,omitempty"`
}

// PaymentRequest derives the payment stage input.
func (in PipelineInput) PaymentRequest() PaymentRequest {
	return PaymentRequest{
		OrderID:      in.OrderID,
		CustomerName: in.CustomerName,
		Items:        append([]string(nil), in.Items...),
	}
}

// PipelineResult holds the output of both stages.
type PipelineResult struct {
	OrderID  string         `json:"order_id"`
	Payment  PaymentResult  `json:"payment"`
	Shipping ShippingResult `json:"shipping"`
}

// Fulfilled reports whether the shipment was scheduled.
func (r PipelineResult) Fulfilled() bool {
	return r.Shipping.ShippingStatus == ShippingScheduled
}
