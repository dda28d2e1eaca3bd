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

// MissingOrderIDMessage is the validation error reported for stage calls without an order id.
const MissingOrderIDMessage = "missing order_id"

// PaymentStage prices an order and charges it through the gateway.
type PaymentStage struct {
	gateway ports.PaymentGateway
	logger  *slog.Logger
}

type PaymentOption func(*PaymentStage)

func WithPaymentLogger(logger *slog.Logger) PaymentOption {
	return func(s *PaymentStage) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewPaymentStage(gateway ports.PaymentGateway, opts ...PaymentOption) *PaymentStage {
	s := &PaymentStage{gateway: gateway, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *PaymentStage) Pay(ctx context.Context, req domain.PaymentRequest) (result domain.PaymentResult) {
	defer func() {
		if r := recover(); r != nil {
			result = paymentError(req.OrderID, fmt.Sprint(r))
			s.logger.LogAttrs(ctx, slog.LevelError, "payment processing panicked", slog.String("order.id", result.OrderID), slog.Any("panic", r))
		}
	}()

	if strings.TrimSpace(req.OrderID) == "" {
		return domain.PaymentResult{
			StatusCode:    http.StatusBadRequest,
			PaymentStatus: domain.PaymentError,
			Error:         MissingOrderIDMessage,
			OrderID:       domain.UnknownOrderID,
			Body:          "Payment processing error: " + MissingOrderIDMessage,
		}
	}

	amount := OrderTotal(req.Items)
	charged, err := s.gateway.Charge(ctx, domain.Charge{OrderID: req.OrderID, CustomerName: req.CustomerName, Amount: amount})
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelError, "payment gateway error", slog.String("order.id", req.OrderID), slog.String("error", err.Error()))
		return paymentError(req.OrderID, "Payment gateway error: "+err.Error())
	}
	if !charged.Approved {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "payment declined", slog.String("order.id", req.OrderID), slog.String("reason", charged.DeclineReason))
		return domain.PaymentResult{
			StatusCode:    http.StatusBadRequest,
			PaymentStatus: domain.PaymentFailed,
			Error:         charged.DeclineReason,
			OrderID:       req.OrderID,
			Body:          "Payment failed: " + charged.DeclineReason,
		}
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "payment successful",
		slog.String("order.id", req.OrderID),
		slog.String("amount", amount.StringFixed(2)))
	return domain.PaymentResult{
		StatusCode:    http.StatusOK,
		PaymentStatus: domain.PaymentSuccess,
		TransactionID: charged.TransactionID,
		Amount:        amount.InexactFloat64(),
		OrderID:       req.OrderID,
		Body:          "Payment processed successfully!",
	}
}

func paymentError(orderID, msg string) domain.PaymentResult {
	if strings.TrimSpace(orderID) == "" {
		orderID = domain.UnknownOrderID
	}
	return domain.PaymentResult{
		StatusCode:    http.StatusInternalServerError,
		PaymentStatus: domain.PaymentError,
		Error:         msg,
		OrderID:       orderID,
		Body:          "Payment processing error: " + msg,
	}
}

var _ ports.PaymentProcessor = (*PaymentStage)(nil)
