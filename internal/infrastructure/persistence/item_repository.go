package persistence

import (
	"context"
	"errors"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindAllOrderedByName returns all items ordered by name ascending
func (r *GormItemRepository) FindAllOrderedByName(ctx context.Context) ([]catalog.Item, error) {
	var items []catalog.Item
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// FindBySKU finds an item by its unique SKU
func (r *GormItemRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Item, error) {
	var item catalog.Item
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateError(err)
	}
	return &item, nil
}

// Create persists a new item
func (r *GormItemRepository) Create(ctx context.Context, item *catalog.Item) error {
	return translateError(r.db.WithContext(ctx).Create(item).Error)
}

// Save updates an existing item
func (r *GormItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	return translateError(r.db.WithContext(ctx).Save(item).Error)
}

// Count counts all items
func (r *GormItemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Item{}).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

var _ catalog.ItemRepository = (*GormItemRepository)(nil)
