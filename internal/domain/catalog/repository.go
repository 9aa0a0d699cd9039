package catalog

import (
	"context"
)

// ItemRepository provides access to the priced item catalog
type ItemRepository interface {
	// FindAllOrderedByName returns all items ordered by name ascending
	FindAllOrderedByName(ctx context.Context) ([]Item, error)
	// FindBySKU finds an item by its unique SKU
	FindBySKU(ctx context.Context, sku string) (*Item, error)
	// Create persists a new item
	Create(ctx context.Context, item *Item) error
	// Save updates an existing item
	Save(ctx context.Context, item *Item) error
	// Count counts all items
	Count(ctx context.Context) (int64, error)
}
