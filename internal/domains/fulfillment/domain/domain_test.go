package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShippingRequestDecodesMergedPaymentOutput(t *testing.T) {
	// The orchestrator passes the whole payment output plus items and customer name.
	payload := `{"statusCode":200,"payment_status":"SUCCESS","transaction_id":"txn_o-1_1700000000",
		"amount":1029.98,"order_id":"o-1","body":"ok","items":["laptop","mouse"],"customer_name":"Ada"}`

	var req ShippingRequest
	require.NoError(t, json.Unmarshal([]byte(payload), &req))
	require.Equal(t, "o-1", req.OrderID)
	require.Equal(t, PaymentSuccess, req.PaymentStatus)
	require.Equal(t, []string{"laptop", "mouse"}, req.Items)
	require.Equal(t, "Ada", req.CustomerName)
}

func TestNewShippingRequest(t *testing.T) {
	payment := PaymentResult{StatusCode: 400, PaymentStatus: PaymentFailed, Error: "Card declined", OrderID: "o-1"}
	input := PipelineInput{OrderID: "o-1", CustomerName: "Ada", Items: []string{"mouse"}}

	req := NewShippingRequest(payment, input)
	require.Equal(t, PaymentFailed, req.PaymentStatus)
	require.Equal(t, []string{"mouse"}, req.Items)
	require.Equal(t, "Ada", req.CustomerName)
}

func TestPaymentResultOmitsEmptyFields(t *testing.T) {
	body, err := json.Marshal(PaymentResult{StatusCode: 400, PaymentStatus: PaymentFailed, Error: "Card declined", OrderID: "o-1"})
	require.NoError(t, err)
	require.JSONEq(t, `{"statusCode":400,"payment_status":"FAILED","error":"Card declined","order_id":"o-1"}`, string(body))
}
