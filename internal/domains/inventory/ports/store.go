package ports

import (
	"context"
	"errors"
	"fmt"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
)

var (
	// ErrNotFound is returned when the item key does not exist.
	ErrNotFound = errors.New("inventory item not found")
	// ErrInsufficientStock is the expected business outcome of a conditional decrement that did not apply.
	ErrInsufficientStock = errors.New("insufficient stock")
)

// StoreError wraps infrastructure failures of the backing store so callers can
// tell them apart from business outcomes.
type StoreError struct {
	Op   string
	Item string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("inventory store %s %q: %v", e.Op, e.Item, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError returns nil for a nil err.
func NewStoreError(op, item string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Item: item, Err: err}
}

// IsStoreError reports whether err carries a StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}

// Store is the key-value inventory client: ItemName -> Stock.
type Store interface {
	// Get returns a point-in-time read of the item or ErrNotFound.
	Get(ctx context.Context, name string) (*domain.Item, error)
	// TryReserve decrements stock by quantity only if stock >= quantity, as one
	// atomic operation. Returns ErrInsufficientStock when the condition fails.
	TryReserve(ctx context.Context, name string, quantity int64) error
	// Release increments stock by quantity without any condition. Calling it
	// twice releases twice; it is not idempotent.
	Release(ctx context.Context, name string, quantity int64) error
	// Put creates or replaces an item.
	Put(ctx context.Context, item domain.Item) error
	// List returns every item ordered by name.
	List(ctx context.Context) ([]*domain.Item, error)
}

// Seed puts every catalog item, optionally skipping names that already exist.
func Seed(ctx context.Context, store Store, items []domain.Item, onlyMissing bool) error {
	for _, item := range items {
		if onlyMissing {
			if _, err := store.Get(ctx, item.Name); err == nil {
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return err
			}
		}
		if err := store.Put(ctx, item); err != nil {
			return fmt.Errorf("seed %s: %w", item.Name, err)
		}
	}
	return nil
}
