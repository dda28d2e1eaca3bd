package orderserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/go-order-fulfillment/internal/domains/orders/adapters/http/mapper"
	ordersports "github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-fulfillment/internal/shared/errors"
)

// IdempotencyKeyHeader lets clients retry order intake without creating duplicates.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service ordersports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /v1/orders
// Submits an order; reservation happens asynchronously through the change feed
func (api *OrderAPI) PlaceOrder(c *gin.Context) {
	var payload ordermapper.PlaceOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	input := ordermapper.ToPlaceOrderInput(payload)
	input.IdempotencyKey = c.GetHeader(IdempotencyKeyHeader)
	order, err := api.service.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromDomainOrder(order))
}

// Get /v1/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id := c.Param("orderId")
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if errors.Is(err, ordersports.ErrNotFound) {
		respondProblem(c, apierrors.NewNotFoundProblem("order", id))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromDomainOrder(order))
}
