package domain

// ShippingStatus is the shipping stage verdict.
type ShippingStatus string

const (
	ShippingScheduled ShippingStatus = "SCHEDULED"
	ShippingFailed    ShippingStatus = "FAILED"
	ShippingCancelled ShippingStatus = "CANCELLED"
	ShippingError     ShippingStatus = "ERROR"
)

// ShippingFailureReasons is the closed set of carrier refusal reasons.
var ShippingFailureReasons = []string{"Address validation failed", "Carrier unavailable", "Shipping restrictions"}

// Carriers lists the carriers a shipment can be booked with.
var Carriers = []string{"FedEx", "UPS", "DHL", "USPS"}

// DeliveryDateLayout formats estimated delivery dates.
const DeliveryDateLayout = "2006-01-02"

// ShippingRequest is the payment result merged with the order's items and
// customer name.
type ShippingRequest struct {
	OrderID       string        `json:"order_id"`
	CustomerName  string        `json:"customer_name"`
	Items         []string      `json:"items"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Amount        float64       `json:"amount,omitempty"`
}

// NewShippingRequest merges a payment result with the pipeline input.
func NewShippingRequest(payment PaymentResult, input PipelineInput) ShippingRequest {
	return ShippingRequest{
		OrderID:       payment.OrderID,
		CustomerName:  input.CustomerName,
		Items:         append([]string(nil), input.Items...),
		PaymentStatus: payment.PaymentStatus,
		TransactionID: payment.TransactionID,
		Amount:        payment.Amount,
	}
}

// ShippingResult is the shipping stage output.
type ShippingResult struct {
	StatusCode        int            `json:"statusCode"`
	ShippingStatus    ShippingStatus `json:"shipping_status"`
	TrackingNumber    string         `json:"tracking_number,omitempty"`
	EstimatedDelivery string         `json:"estimated_delivery,omitempty"`
	ShippingCost      float64        `json:"shipping_cost,omitempty"`
	Carrier           string         `json:"carrier,omitempty"`
	Error             string         `json:"error,omitempty"`
	OrderID           string         `json:"order_id"`
	Body              string         `json:"body,omitempty"`
}
