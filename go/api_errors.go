package orderserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invapp "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/application"
	invports "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
	ordersapp "github.com/Apurer/go-order-fulfillment/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
	apierrors "github.com/Apurer/go-order-fulfillment/internal/shared/errors"
)

// problemResponder maps application errors of every bounded context to RFC 7807 responses.
var problemResponder = apierrors.NewResponder("", mapOrderError, mapInventoryError)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	problemResponder.Respond(c, problem)
}

// respondError preserves the status-based call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	respondProblem(c, problem)
}

func respondServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	problemResponder.RespondError(c, err)
}

func mapOrderError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "order"), true
	case errors.Is(err, ordersports.ErrIdempotencyConflict):
		return apierrors.ErrConflict.WithDetail(err.Error()).WithExtension("header", IdempotencyKeyHeader), true
	case errors.Is(err, ordersports.ErrAlreadyExists):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	case errors.Is(err, ordersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapInventoryError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, invports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()).WithExtension("resourceType", "inventoryItem"), true
	case errors.Is(err, invapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	case invports.IsStoreError(err):
		return apierrors.ErrInternal.WithDetail("inventory store unavailable"), true
	}
	return apierrors.ProblemDetail{}, false
}
