package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

// FulfillmentAPI invokes the pipeline stages one at a time. The response
// status mirrors the stage result's statusCode.
type FulfillmentAPI struct {
	payment  ports.PaymentProcessor
	shipping ports.ShippingProcessor
}

func NewFulfillmentAPI(payment ports.PaymentProcessor, shipping ports.ShippingProcessor) FulfillmentAPI {
	return FulfillmentAPI{payment: payment, shipping: shipping}
}

// Post /v1/payments
// Runs the payment stage for one order
func (api *FulfillmentAPI) ProcessPayment(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.PaymentResult{
			StatusCode:    http.StatusBadRequest,
			PaymentStatus: domain.PaymentError,
			Error:         "invalid request body: " + err.Error(),
			OrderID:       domain.UnknownOrderID,
		})
		return
	}
	result := api.payment.Pay(c.Request.Context(), req)
	c.JSON(result.StatusCode, result)
}

// Post /v1/shipments
// Runs the shipping stage with the payment stage output merged in
func (api *FulfillmentAPI) ScheduleShipment(c *gin.Context) {
	var req domain.ShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.ShippingResult{
			StatusCode:     http.StatusBadRequest,
			ShippingStatus: domain.ShippingError,
			Error:          "invalid request body: " + err.Error(),
			OrderID:        domain.UnknownOrderID,
		})
		return
	}
	result := api.shipping.Ship(c.Request.Context(), req)
	c.JSON(result.StatusCode, result)
}
