package application

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/simulated"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
)

type fakeGateway struct {
	result  domain.ChargeResult
	err     error
	charged []domain.Charge
	panics  bool
}

func (g *fakeGateway) Charge(_ context.Context, charge domain.Charge) (domain.ChargeResult, error) {
	if g.panics {
		panic("gateway exploded")
	}
	g.charged = append(g.charged, charge)
	return g.result, g.err
}

type fakeCarrier struct {
	booking domain.Booking
	err     error
	calls   int
}

func (c *fakeCarrier) Schedule(context.Context, domain.Shipment) (domain.Booking, error) {
	c.calls++
	return c.booking, c.err
}

func TestPricing(t *testing.T) {
	require.True(t, decimal.RequireFromString("999.99").Equal(UnitPrice("Laptop")))
	require.True(t, decimal.RequireFromString("50").Equal(UnitPrice("drone")))
	require.Equal(t, "1109.97", OrderTotal([]string{"laptop", "mouse", "mouse", "drone"}).StringFixed(2))
	require.Equal(t, "13.74", ShippingCost([]string{"a", "b", "c"}).StringFixed(2))
	require.Equal(t, "9.99", ShippingCost(nil).StringFixed(2))
}

func TestPay_Success(t *testing.T) {
	gateway := &fakeGateway{result: domain.ChargeResult{Approved: true, TransactionID: "txn_o-1_1"}}
	res := NewPaymentStage(gateway).Pay(context.Background(), domain.PaymentRequest{OrderID: "o-1", Items: []string{"laptop", "MOUSE"}})

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, domain.PaymentSuccess, res.PaymentStatus)
	require.Equal(t, "txn_o-1_1", res.TransactionID)
	require.InDelta(t, 1029.98, res.Amount, 1e-9)
	require.Equal(t, "o-1", res.OrderID)
	require.Len(t, gateway.charged, 1)
	require.Equal(t, "1029.98", gateway.charged[0].Amount.StringFixed(2))
}

func TestPay_Declined(t *testing.T) {
	gateway := &fakeGateway{result: domain.ChargeResult{DeclineReason: "Card declined"}}
	res := NewPaymentStage(gateway).Pay(context.Background(), domain.PaymentRequest{OrderID: "o-1", Items: []string{"mouse"}})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, domain.PaymentFailed, res.PaymentStatus)
	require.Equal(t, "Card declined", res.Error)
	require.Empty(t, res.TransactionID)
}

func TestPay_GatewayErrorIsDistinctFromDecline(t *testing.T) {
	res := NewPaymentStage(&fakeGateway{err: errors.New("timeout")}).Pay(context.Background(), domain.PaymentRequest{OrderID: "o-1"})
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.Equal(t, domain.PaymentError, res.PaymentStatus)
	require.Equal(t, "Payment gateway error: timeout", res.Error)

	res = NewPaymentStage(&fakeGateway{panics: true}).Pay(context.Background(), domain.PaymentRequest{OrderID: "o-2"})
	require.Equal(t, domain.PaymentError, res.PaymentStatus)
	require.Equal(t, "o-2", res.OrderID)
}

func TestPay_MissingOrderID(t *testing.T) {
	gateway := &fakeGateway{}
	res := NewPaymentStage(gateway).Pay(context.Background(), domain.PaymentRequest{Items: []string{"mouse"}})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, domain.PaymentError, res.PaymentStatus)
	require.Equal(t, MissingOrderIDMessage, res.Error)
	require.Equal(t, domain.UnknownOrderID, res.OrderID)
	require.Empty(t, gateway.charged)
}

func TestPay_SuccessRateConverges(t *testing.T) {
	stage := NewPaymentStage(simulated.NewGateway(simulated.WithPaymentDelay(0)))

	const calls = 1000
	var succeeded int
	for i := 0; i < calls; i++ {
		res := stage.Pay(context.Background(), domain.PaymentRequest{OrderID: "o-1", Items: []string{"mouse"}})
		switch res.PaymentStatus {
		case domain.PaymentSuccess:
			succeeded++
		case domain.PaymentFailed:
			require.Contains(t, domain.PaymentFailureReasons, res.Error)
		default:
			t.Fatalf("unexpected status %s", res.PaymentStatus)
		}
	}
	require.InDelta(t, 0.9, float64(succeeded)/calls, 0.04)
}

func TestShip_CancelledWithoutContactingCarrier(t *testing.T) {
	carrier := &fakeCarrier{}
	res := NewShippingStage(carrier).Ship(context.Background(), domain.ShippingRequest{OrderID: "o-1", PaymentStatus: domain.PaymentFailed})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, domain.ShippingCancelled, res.ShippingStatus)
	require.Equal(t, "Payment not successful", res.Error)
	require.Empty(t, res.TrackingNumber)
	require.Zero(t, res.ShippingCost)
	require.Zero(t, carrier.calls)
}

func TestShip_Scheduled(t *testing.T) {
	carrier := &fakeCarrier{booking: domain.Booking{
		Scheduled:         true,
		Carrier:           "UPS",
		TrackingNumber:    "UPS0000011234",
		EstimatedDelivery: time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC),
	}}
	res := NewShippingStage(carrier).Ship(context.Background(), domain.ShippingRequest{
		OrderID: "o-1", PaymentStatus: domain.PaymentSuccess, Items: []string{"laptop", "mouse"},
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, domain.ShippingScheduled, res.ShippingStatus)
	require.Equal(t, "2024-05-06", res.EstimatedDelivery)
	require.InDelta(t, 12.49, res.ShippingCost, 1e-9)
	require.Equal(t, "UPS", res.Carrier)
}

func TestShip_FailureAndErrors(t *testing.T) {
	req := domain.ShippingRequest{OrderID: "o-1", PaymentStatus: domain.PaymentSuccess}

	res := NewShippingStage(&fakeCarrier{booking: domain.Booking{FailureReason: "Carrier unavailable"}}).Ship(context.Background(), req)
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, domain.ShippingFailed, res.ShippingStatus)
	require.Equal(t, "Carrier unavailable", res.Error)

	res = NewShippingStage(&fakeCarrier{err: errors.New("dns")}).Ship(context.Background(), req)
	require.Equal(t, http.StatusInternalServerError, res.StatusCode)
	require.Equal(t, domain.ShippingError, res.ShippingStatus)

	res = NewShippingStage(&fakeCarrier{}).Ship(context.Background(), domain.ShippingRequest{PaymentStatus: domain.PaymentSuccess})
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	require.Equal(t, domain.UnknownOrderID, res.OrderID)
}

func TestPipeline_FeedsPaymentIntoShipping(t *testing.T) {
	carrier := &fakeCarrier{}
	pipeline := NewPipeline(
		NewPaymentStage(&fakeGateway{result: domain.ChargeResult{DeclineReason: "Insufficient funds"}}),
		NewShippingStage(carrier),
	)

	result := pipeline.Run(context.Background(), domain.PipelineInput{OrderID: "o-1", CustomerName: "Ada", Items: []string{"mouse"}})
	require.Equal(t, domain.PaymentFailed, result.Payment.PaymentStatus)
	require.Equal(t, domain.ShippingCancelled, result.Shipping.ShippingStatus)
	require.False(t, result.Fulfilled())
	require.Zero(t, carrier.calls)
}
