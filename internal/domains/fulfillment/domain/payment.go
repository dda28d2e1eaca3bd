package domain

// PaymentStatus is the payment stage verdict.
type PaymentStatus string

const (
	PaymentSuccess PaymentStatus = "SUCCESS"
	PaymentFailed  PaymentStatus = "FAILED"
	PaymentError   PaymentStatus = "ERROR"
)

// PaymentFailureReasons is the closed set of business decline reasons.
var PaymentFailureReasons = []string{"Insufficient funds", "Card declined", "Invalid card number"}

// PaymentRequest is the payment stage input.
type PaymentRequest struct {
	OrderID      string   `json:"order_id"`
	CustomerName string   `json:"customer_name"`
	Items        []string `json:"items"`
}

// PaymentResult is the payment stage output. It is returned for every call,
// including failures.
type PaymentResult struct {
	StatusCode    int           `json:"statusCode"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	TransactionID string        `json:"transaction_id,omitempty"`
	Amount        float64       `json:"amount,omitempty"`
	Error         string        `json:"error,omitempty"`
	OrderID       string        `json:"order_id"`
	Body          string        `json:"body,omitempty"`
}

// Succeeded reports whether shipping may proceed.
func (r PaymentResult) Succeeded() bool {
	return r.PaymentStatus == PaymentSuccess
}
