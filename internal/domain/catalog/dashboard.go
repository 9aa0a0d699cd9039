package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Dashboard is the low-stock/value view computed over the item catalog
type Dashboard struct {
	Items         []Item
	LowStockItems []Item
	LowStockIDs   map[uuid.UUID]struct{}
	Threshold     int64
	TotalValue    decimal.Decimal
}

// ComputeDashboard computes the dashboard view over the given items.
// It is a pure function: the input slice is not mutated and the result
// preserves the input order for both Items and LowStockItems.
//
// TotalValue is a left fold of quantity * price over decimals starting
// at exact 0.00. Binary floating point must never enter this sum: with
// float64 the per-item rounding drifts across large catalogs.
func ComputeDashboard(items []Item, threshold int64) Dashboard {
	d := Dashboard{
		Items:         items,
		LowStockItems: make([]Item, 0),
		LowStockIDs:   make(map[uuid.UUID]struct{}),
		Threshold:     threshold,
		TotalValue:    decimal.New(0, -2),
	}

	for _, item := range items {
		if item.IsLowStock(threshold) {
			d.LowStockItems = append(d.LowStockItems, item)
			d.LowStockIDs[item.ID] = struct{}{}
		}
		d.TotalValue = d.TotalValue.Add(item.TotalValue())
	}

	return d
}

// IsLowStockID reports whether the given item id is in the low-stock set
func (d Dashboard) IsLowStockID(id uuid.UUID) bool {
	_, ok := d.LowStockIDs[id]
	return ok
}
