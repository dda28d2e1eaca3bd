package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	"github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
)

var _ ports.Store = (*Store)(nil)

// Store keeps inventory rows in PostgreSQL. Every stock mutation is a single
// UPDATE whose WHERE clause carries the stock condition.
type Store struct {
	db *gorm.DB
}

// NewStore wires a PostgreSQL-backed store. Caller manages DB lifecycle and migrations.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ItemRecord maps an inventory item to the inventory table.
type ItemRecord struct {
	Name        string          `gorm:"primaryKey;column:item_name;size:255"`
	Stock       int64           `gorm:"column:stock;not null;check:chk_inventory_stock_non_negative,stock >= 0"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2)"`
	Description string          `gorm:"column:description"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (ItemRecord) TableName() string { return "inventory" }

func (s *Store) Get(ctx context.Context, name string) (*domain.Item, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var record ItemRecord
	if err := s.db.WithContext(ctx).First(&record, "item_name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, ports.NewStoreError("get", name, err)
	}
	return record.toDomain(), nil
}

func (s *Store) TryReserve(ctx context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&ItemRecord{}).
		Where("item_name = ? AND stock >= ?", name, quantity).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock - ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return ports.NewStoreError("reserve", name, result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}
	// The condition failed; tell a missing row apart from short stock.
	if _, err := s.Get(ctx, name); err != nil {
		return err
	}
	return ports.ErrInsufficientStock
}

func (s *Store) Release(ctx context.Context, name string, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidRequest
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&ItemRecord{}).
		Where("item_name = ?", name).
		Updates(map[string]any{
			"stock":      gorm.Expr("stock + ?", quantity),
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return ports.NewStoreError("release", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *Store) Put(ctx context.Context, item domain.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}
	if err := s.ensureDB(); err != nil {
		return err
	}
	record := toRecord(item)
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "item_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"stock":       record.Stock,
				"price":       record.Price,
				"description": record.Description,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error
	return ports.NewStoreError("put", item.Name, err)
}

func (s *Store) List(ctx context.Context) ([]*domain.Item, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []ItemRecord
	if err := s.db.WithContext(ctx).Order("item_name").Find(&records).Error; err != nil {
		return nil, ports.NewStoreError("list", "*", err)
	}
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres inventory store not configured")
	}
	return nil
}

func toRecord(item domain.Item) ItemRecord {
	return ItemRecord{
		Name:        item.Name,
		Stock:       item.Stock,
		Price:       item.Price,
		Description: item.Description,
	}
}

func (r ItemRecord) toDomain() *domain.Item {
	return &domain.Item{
		Name:        r.Name,
		Stock:       r.Stock,
		Price:       r.Price,
		Description: r.Description,
	}
}
