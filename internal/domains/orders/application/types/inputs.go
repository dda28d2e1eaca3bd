package types

// PlaceOrderInput carries the order intake payload. IdempotencyKey is
// optional; a retried request with the same key and payload returns the
// order created by the first attempt.
type PlaceOrderInput struct {
	CustomerName   string
	Items          []string
	IdempotencyKey string
}
