package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes whose handler was not wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {
	// Routes for the FulfillmentAPI part of the API
	FulfillmentAPI FulfillmentAPI
	// Routes for the InventoryAPI part of the API
	InventoryAPI InventoryAPI
	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"Healthz", http.MethodGet, "/healthz", func(c *gin.Context) { c.Status(http.StatusOK) }},
		{"ProcessPayment", http.MethodPost, "/v1/payments", handleFunctions.FulfillmentAPI.ProcessPayment},
		{"ScheduleShipment", http.MethodPost, "/v1/shipments", handleFunctions.FulfillmentAPI.ScheduleShipment},
		{"ListInventory", http.MethodGet, "/v1/inventory", handleFunctions.InventoryAPI.ListInventory},
		{"GetInventoryItem", http.MethodGet, "/v1/inventory/:itemName", handleFunctions.InventoryAPI.GetInventoryItem},
		{"PlaceOrder", http.MethodPost, "/v1/orders", handleFunctions.OrderAPI.PlaceOrder},
		{"GetOrderById", http.MethodGet, "/v1/orders/:orderId", handleFunctions.OrderAPI.GetOrderById},
	}
}
