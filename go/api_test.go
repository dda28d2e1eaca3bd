package orderserver

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/adapters/simulated"
	fulfillmentapp "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/application"
	fulfillmentdomain "github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	invmemory "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/adapters/memory"
	invapp "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/application"
	invdomain "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/changefeed"
	ordermapper "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/http/mapper"
	ordersmemory "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-order-fulfillment/internal/shared/errors"
)

type testServer struct {
	router     *gin.Engine
	dispatcher *ordersmemory.Dispatcher
}

func newTestServer(t *testing.T, paymentRate float64) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.DiscardHandler)

	store := invmemory.NewSeededStore(invdomain.DefaultCatalog())
	repo := ordersmemory.NewRepository()
	dispatcher := ordersmemory.NewDispatcher()
	feed := changefeed.NewInline()
	coordinator := ordersapp.NewCoordinator(store, repo, dispatcher, ordersapp.WithCoordinatorLogger(logger))
	orders := ordersapp.NewService(repo, feed, coordinator,
		ordersapp.WithServiceLogger(logger),
		ordersapp.WithIdempotencyStore(ordersmemory.NewIdempotencyStore()))
	feed.Subscribe(changefeed.ServiceHandler(orders, logger))

	payment := fulfillmentapp.NewPaymentStage(simulated.NewGateway(
		simulated.WithPaymentDelay(0), simulated.WithPaymentSuccessRate(paymentRate)))
	shipping := fulfillmentapp.NewShippingStage(simulated.NewCarrier(
		simulated.WithShippingDelay(0), simulated.WithShippingSuccessRate(1)))

	router := NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{
		OrderAPI:       NewOrderAPI(orders),
		InventoryAPI:   NewInventoryAPI(invapp.NewService(store)),
		FulfillmentAPI: NewFulfillmentAPI(payment, shipping),
	})
	return testServer{router: router, dispatcher: dispatcher}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return s.doWithHeaders(t, method, path, body, nil)
}

func (s testServer) doWithHeaders(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequestWithContext(context.Background(), method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func TestPlaceOrderReservesStockAndDispatches(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodPost, "/v1/orders", ordermapper.PlaceOrderRequest{
		CustomerName: "Ada", Items: []string{"laptop", "mouse", "mouse"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed ordermapper.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.NotEmpty(t, placed.OrderID)
	require.Equal(t, "Processing", placed.Status)

	rec = srv.do(t, http.MethodGet, "/v1/orders/"+placed.OrderID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/v1/inventory/mouse", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mouse InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mouse))
	require.Equal(t, int64(98), mouse.Stock)
	require.InDelta(t, 29.99, mouse.Price, 0.001)

	messages := srv.dispatcher.Messages()
	require.Len(t, messages, 1)
	require.Equal(t, map[string]int64{"laptop": 1, "mouse": 2}, messages[0].ItemCounts)
}

func TestPlaceOrderUnavailableItemFailsOrder(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodPost, "/v1/orders", ordermapper.PlaceOrderRequest{
		CustomerName: "Ada", Items: []string{"tablet", "unicorn"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var placed ordermapper.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &placed))
	require.Equal(t, "Failed", placed.Status)
	require.Contains(t, placed.StatusReason, "unicorn (need 1)")
	require.Empty(t, srv.dispatcher.Messages())

	rec = srv.do(t, http.MethodGet, "/v1/inventory/tablet", nil)
	var tablet InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tablet))
	require.Equal(t, int64(20), tablet.Stock)
}

func TestPlaceOrderValidationProblems(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodPost, "/v1/orders", ordermapper.PlaceOrderRequest{CustomerName: "Ada"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, apierrors.TypeValidation, problem.Type)
	require.Equal(t, "/v1/orders", problem.Instance)

	rec = srv.do(t, http.MethodPost, "/v1/orders", "not an object")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotFoundProblems(t *testing.T) {
	srv := newTestServer(t, 1)

	for _, path := range []string{"/v1/orders/missing", "/v1/inventory/unicorn"} {
		rec := srv.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusNotFound, rec.Code, path)
		var problem apierrors.ProblemDetail
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		require.Equal(t, apierrors.TypeNotFound, problem.Type)
	}
}

func TestListInventory(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodGet, "/v1/inventory", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []InventoryItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, len(invdomain.DefaultCatalog()))
}

func TestPaymentEndpointMirrorsStageStatus(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodPost, "/v1/payments", fulfillmentdomain.PaymentRequest{
		OrderID: "order-1", CustomerName: "Ada", Items: []string{"laptop", "mouse"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var paid fulfillmentdomain.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &paid))
	require.Equal(t, fulfillmentdomain.PaymentSuccess, paid.PaymentStatus)
	require.InDelta(t, 1029.98, paid.Amount, 0.001)

	rec = srv.do(t, http.MethodPost, "/v1/payments", fulfillmentdomain.PaymentRequest{Items: []string{"laptop"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var invalid fulfillmentdomain.PaymentResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &invalid))
	require.Equal(t, fulfillmentdomain.PaymentError, invalid.PaymentStatus)
	require.Equal(t, fulfillmentdomain.UnknownOrderID, invalid.OrderID)
}

func TestShipmentEndpointCancelsUnpaidOrders(t *testing.T) {
	srv := newTestServer(t, 1)

	rec := srv.do(t, http.MethodPost, "/v1/shipments", fulfillmentdomain.ShippingRequest{
		OrderID: "order-2", CustomerName: "Ada", Items: []string{"laptop"}, PaymentStatus: fulfillmentdomain.PaymentFailed,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var cancelled fulfillmentdomain.ShippingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cancelled))
	require.Equal(t, fulfillmentdomain.ShippingCancelled, cancelled.ShippingStatus)

	rec = srv.do(t, http.MethodPost, "/v1/shipments", fulfillmentdomain.ShippingRequest{
		OrderID: "order-2", CustomerName: "Ada", Items: []string{"laptop"}, PaymentStatus: fulfillmentdomain.PaymentSuccess,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var scheduled fulfillmentdomain.ShippingResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &scheduled))
	require.Equal(t, fulfillmentdomain.ShippingScheduled, scheduled.ShippingStatus)
	require.NotEmpty(t, scheduled.TrackingNumber)
}

func TestPlaceOrderIdempotencyKey(t *testing.T) {
	srv := newTestServer(t, 1)
	headers := map[string]string{IdempotencyKeyHeader: "checkout-42"}
	body := ordermapper.PlaceOrderRequest{CustomerName: "Ada", Items: []string{"speaker"}}

	first := srv.doWithHeaders(t, http.MethodPost, "/v1/orders", body, headers)
	require.Equal(t, http.StatusCreated, first.Code)
	retry := srv.doWithHeaders(t, http.MethodPost, "/v1/orders", body, headers)
	require.Equal(t, http.StatusCreated, retry.Code)

	var a, b ordermapper.Order
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
	require.NoError(t, json.Unmarshal(retry.Body.Bytes(), &b))
	require.Equal(t, a.OrderID, b.OrderID)
	require.Len(t, srv.dispatcher.Messages(), 1)

	body.Items = []string{"speaker", "speaker"}
	conflict := srv.doWithHeaders(t, http.MethodPost, "/v1/orders", body, headers)
	require.Equal(t, http.StatusConflict, conflict.Code)
}
