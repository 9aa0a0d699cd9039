package catalog

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the quantity at or below which an item
// counts as low stock unless a different threshold is given
const DefaultLowStockThreshold = 5

// Item is a priced catalog entry used for the low-stock/value dashboard.
// It is distinct from Stock: items carry a price, stocks do not.
type Item struct {
	shared.BaseEntity
	Name       string          `gorm:"type:varchar(200);not null"`
	SKU        string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Quantity   int64           `gorm:"not null;default:0"`
	Price      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	ExpiryDate *time.Time      `gorm:"type:date"`
	Category   string          `gorm:"type:varchar(100);not null;default:''"`
	Brand      string          `gorm:"type:varchar(100);not null;default:''"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "items"
}

// NewItem creates a new catalog item
func NewItem(name, sku string, quantity int64, price decimal.Decimal) (*Item, error) {
	name = strings.TrimSpace(name)
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		SKU:        sku,
		Quantity:   quantity,
		Price:      price.Round(2),
	}, nil
}

// IsLowStock returns true if the quantity is at or below the threshold
func (i *Item) IsLowStock(threshold int64) bool {
	return i.Quantity <= threshold
}

// TotalValue returns quantity * price using exact decimal arithmetic
func (i *Item) TotalValue() decimal.Decimal {
	return decimal.NewFromInt(i.Quantity).Mul(i.Price)
}
