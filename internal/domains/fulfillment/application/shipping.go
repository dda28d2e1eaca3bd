package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/fulfillment/ports"
)

// ShippingStage books delivery for paid orders.
type ShippingStage struct {
	carrier ports.CarrierService
	logger  *slog.Logger
}

type ShippingOption func(*ShippingStage)

func WithShippingLogger(logger *slog.Logger) ShippingOption {
	return func(s *ShippingStage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewShippingStage(carrier ports.CarrierService, opts ...ShippingOption) *ShippingStage {
	s := &ShippingStage{carrier: carrier, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Ship never contacts the carrier unless payment succeeded.
func (s *ShippingStage) Ship(ctx context.Context, req domain.ShippingRequest) (result domain.ShippingResult) {
	defer func() {
		if r := recover(); r != nil {
			result = shippingError(req.OrderID, fmt.Sprint(r))
			s.logger.LogAttrs(ctx, slog.LevelError, "shipping processing panicked", slog.String("order.id", result.OrderID), slog.Any("panic", r))
		}
	}()

	if strings.TrimSpace(req.OrderID) == "" {
		return domain.ShippingResult{
			StatusCode:     http.StatusBadRequest,
			ShippingStatus: domain.ShippingError,
			Error:          MissingOrderIDMessage,
			OrderID:        domain.UnknownOrderID,
			Body:           "Shipping processing error: " + MissingOrderIDMessage,
		}
	}
	if req.PaymentStatus != domain.PaymentSuccess {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "shipping cancelled, payment not successful",
			slog.String("order.id", req.OrderID),
			slog.String("payment_status", string(req.PaymentStatus)))
		return domain.ShippingResult{
			StatusCode:     http.StatusBadRequest,
			ShippingStatus: domain.ShippingCancelled,
			Error:          "Payment not successful",
			OrderID:        req.OrderID,
			Body:           "Shipping cancelled - payment failed",
		}
	}

	cost := ShippingCost(req.Items)
	booking, err := s.carrier.Schedule(ctx, domain.Shipment{
		OrderID:      req.OrderID,
		CustomerName: req.CustomerName,
		Items:        append([]string(nil), req.Items...),
	})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "carrier service error", slog.String("order.id", req.OrderID), slog.String("error", err.Error()))
		return shippingError(req.OrderID, "Shipping service error: "+err.Error())
	}
	if !booking.Scheduled {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "shipping failed", slog.String("order.id", req.OrderID), slog.String("reason", booking.FailureReason))
		return domain.ShippingResult{
			StatusCode:     http.StatusBadRequest,
			ShippingStatus: domain.ShippingFailed,
			Error:          booking.FailureReason,
			OrderID:        req.OrderID,
			Body:           "Shipping failed: " + booking.FailureReason,
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "shipping scheduled",
		slog.String("order.id", req.OrderID),
		slog.String("carrier", booking.Carrier),
		slog.String("tracking_number", booking.TrackingNumber))
	return domain.ShippingResult{
		StatusCode:        http.StatusOK,
		ShippingStatus:    domain.ShippingScheduled,
		TrackingNumber:    booking.TrackingNumber,
		EstimatedDelivery: booking.EstimatedDelivery.Format(domain.DeliveryDateLayout),
		ShippingCost:      cost.InexactFloat64(),
		Carrier:           booking.Carrier,
		OrderID:           req.OrderID,
		Body:              "Shipping scheduled successfully!",
	}
}

func shippingError(orderID, msg string) domain.ShippingResult {
	if strings.TrimSpace(orderID) == "" {
		orderID = domain.UnknownOrderID
	}
	return domain.ShippingResult{
		StatusCode:     http.StatusInternalServerError,
		ShippingStatus: domain.ShippingError,
		Error:          msg,
		OrderID:        orderID,
		Body:           "Shipping processing error: " + msg,
	}
}

var _ ports.ShippingProcessor = (*ShippingStage)(nil)
