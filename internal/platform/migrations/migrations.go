package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the inventory and orders bounded contexts.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&inventoryRecord{},
		&orderRecord{},
		&orderIdempotencyRecord{},
	)
}

// Inventory schema mirrors the inventory Postgres store. The check constraint
// keeps stock from going negative even if a writer bypasses the conditional update.
type inventoryRecord struct {
	ItemName    string          `gorm:"primaryKey;column:item_name;size:255"`
	Stock       int64           `gorm:"column:stock;not null;check:chk_inventory_stock_non_negative,stock >= 0"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Description string          `gorm:"column:description"`
	CreatedAt   time.Time       `gorm:"column:created_at"`
	UpdatedAt   time.Time       `gorm:"column:updated_at"`
}

func (inventoryRecord) TableName() string { return "inventory" }

// Order schema mirrors the orders Postgres repository.
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

// Idempotency keys for order intake retries.
type orderIdempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	RequestHash string    `gorm:"column:request_hash;size:128"`
	OrderID     string    `gorm:"column:order_id;size:64"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderIdempotencyRecord) TableName() string { return "order_idempotency_keys" }
