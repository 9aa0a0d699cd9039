package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/stock"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindActiveByID finds a non-deleted stock by its ID
func (r *GormStockRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*stock.Stock, error) {
	var s stock.Stock
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateError(err)
	}
	return &s, nil
}

// FindActiveByIDForUpdate finds a non-deleted stock by ID holding an
// exclusive row lock. Must run inside a transaction: the lock is held
// until that transaction commits or rolls back.
func (r *GormStockRepository) FindActiveByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.Stock, error) {
	var s stock.Stock
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateError(err)
	}
	return &s, nil
}

// FindActiveByName finds a non-deleted stock by exact name
func (r *GormStockRepository) FindActiveByName(ctx context.Context, name string) (*stock.Stock, error) {
	var s stock.Stock
	if err := r.db.WithContext(ctx).
		Where("name = ? AND is_deleted = ?", name, false).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, translateError(err)
	}
	return &s, nil
}

// SearchActive lists non-deleted stocks ordered by name ascending, with an
// optional case-insensitive substring search
func (r *GormStockRepository) SearchActive(ctx context.Context, filter shared.Filter) ([]stock.Stock, error) {
	var stocks []stock.Stock
	query := r.activeQuery(ctx, filter).
		Order("name ASC").
		Offset(filter.Offset()).
		Limit(filter.PageSize)

	if err := query.Find(&stocks).Error; err != nil {
		return nil, translateError(err)
	}
	return stocks, nil
}

// CountActive counts non-deleted stocks matching the filter's search
func (r *GormStockRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.activeQuery(ctx, filter).Count(&count).Error; err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

// Create persists a new stock
func (r *GormStockRepository) Create(ctx context.Context, s *stock.Stock) error {
	return translateError(r.db.WithContext(ctx).Create(s).Error)
}

// Save updates an existing stock
func (r *GormStockRepository) Save(ctx context.Context, s *stock.Stock) error {
	return translateError(r.db.WithContext(ctx).Save(s).Error)
}

func (r *GormStockRepository) activeQuery(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).
		Model(&stock.Stock{}).
		Where("is_deleted = ?", false)
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	return query
}

var _ stock.StockRepository = (*GormStockRepository)(nil)
