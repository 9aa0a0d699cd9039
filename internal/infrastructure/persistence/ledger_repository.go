package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormLedgerRepository implements LedgerRepository using GORM.
// The ledger is append-only: no update or delete paths exist here.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append persists a new ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, entry *stock.LedgerEntry) error {
	return translateError(r.db.WithContext(ctx).Create(entry).Error)
}

// Recent returns the most recent entries across all stocks joined with the
// stock name, newest first. Ties on occurred_at break on id so the order is
// total. The join deliberately includes soft-deleted stocks.
func (r *GormLedgerRepository) Recent(ctx context.Context, limit int) ([]stock.LedgerEntryWithStock, error) {
	var entries []stock.LedgerEntryWithStock
	err := r.db.WithContext(ctx).
		Model(&stock.LedgerEntry{}).
		Select("stock_ledger.*, stocks.name AS stock_name").
		Joins("JOIN stocks ON stocks.id = stock_ledger.stock_id").
		Order("stock_ledger.occurred_at DESC, stock_ledger.id DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// FindByStock returns all entries for a stock, newest first
func (r *GormLedgerRepository) FindByStock(ctx context.Context, stockID uuid.UUID) ([]stock.LedgerEntry, error) {
	var entries []stock.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("stock_id = ?", stockID).
		Order("occurred_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, translateError(err)
	}
	return entries, nil
}

// CountByStock counts entries for a stock
func (r *GormLedgerRepository) CountByStock(ctx context.Context, stockID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&stock.LedgerEntry{}).
		Where("stock_id = ?", stockID).
		Count(&count).Error
	if err != nil {
		return 0, translateError(err)
	}
	return count, nil
}

var _ stock.LedgerRepository = (*GormLedgerRepository)(nil)
