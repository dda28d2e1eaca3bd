package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to the orders table.
type orderRecord struct {
	OrderID   string         `gorm:"primaryKey;column:order_id;size:64"`
	Customer  string         `gorm:"column:customer_name"`
	Items     pq.StringArray `gorm:"column:items;type:text[]"`
	Status    string         `gorm:"column:status;type:varchar(32);index"`
	Reason    string         `gorm:"column:reason"`
	OrderDate time.Time      `gorm:"column:order_date;index"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;index"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a new order, failing with ErrAlreadyExists on a duplicate id.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "order_id"}}, DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrAlreadyExists
	}
	return r.GetByID(ctx, record.OrderID)
}

// GetByID fetches an order by identifier.
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "order_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// RecordStatus upserts the status columns; intake columns of an existing row are kept.
func (r *Repository) RecordStatus(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"status":     record.Status,
				"reason":     record.Reason,
				"updated_at": record.UpdatedAt,
			}),
		}).Create(&record).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	updated := order.LastUpdated
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	orderDate := order.OrderDate
	if orderDate.IsZero() {
		orderDate = updated
	}
	return orderRecord{
		OrderID:   order.ID,
		Customer:  order.CustomerName,
		Items:     pq.StringArray(order.Items),
		Status:    string(order.Status),
		Reason:    order.StatusReason,
		OrderDate: orderDate,
		UpdatedAt: updated,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:           r.OrderID,
		CustomerName: r.Customer,
		Items:        []string(r.Items),
		Status:       domain.Status(r.Status),
		StatusReason: r.Reason,
		OrderDate:    r.OrderDate.UTC(),
		LastUpdated:  r.UpdatedAt.UTC(),
	}
}
