package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrAlreadyExists = errors.New("order already exists")
)

// Repository persists orders created by intake and records their
// reservation-phase status.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// RecordStatus writes Status, StatusReason and LastUpdated keyed by
	// order id, inserting the order when intake never stored it.
	RecordStatus(ctx context.Context, order *domain.Order) error
}
