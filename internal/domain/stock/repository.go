package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// StockRepository provides access to stock records.
// Lookups for normal operations see only non-deleted rows.
type StockRepository interface {
	// FindActiveByID finds a non-deleted stock by ID
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Stock, error)
	// FindActiveByIDForUpdate finds a non-deleted stock by ID holding an
	// exclusive row lock for the duration of the surrounding transaction
	FindActiveByIDForUpdate(ctx context.Context, id uuid.UUID) (*Stock, error)
	// FindActiveByName finds a non-deleted stock by exact name
	FindActiveByName(ctx context.Context, name string) (*Stock, error)
	// SearchActive lists non-deleted stocks matching the filter's
	// case-insensitive substring search, ordered by name ascending
	SearchActive(ctx context.Context, filter shared.Filter) ([]Stock, error)
	// CountActive counts non-deleted stocks matching the filter's search
	CountActive(ctx context.Context, filter shared.Filter) (int64, error)
	// Create persists a new stock
	Create(ctx context.Context, s *Stock) error
	// Save updates an existing stock
	Save(ctx context.Context, s *Stock) error
}

// LedgerEntryWithStock is a ledger entry joined with its stock name.
// Read model only; the join includes soft-deleted stocks so history
// stays readable after a stock is removed from normal views.
type LedgerEntryWithStock struct {
	LedgerEntry
	StockName string
}

// LedgerRepository provides append-only access to ledger entries.
// Entries are never updated or deleted through this interface.
type LedgerRepository interface {
	// Append persists a new ledger entry
	Append(ctx context.Context, entry *LedgerEntry) error
	// Recent returns the most recent entries across all stocks joined with
	// the stock name, ordered by occurrence time descending, id descending
	// on ties
	Recent(ctx context.Context, limit int) ([]LedgerEntryWithStock, error)
	// FindByStock returns all entries for a stock in the same order
	FindByStock(ctx context.Context, stockID uuid.UUID) ([]LedgerEntry, error)
	// CountByStock counts entries for a stock
	CountByStock(ctx context.Context, stockID uuid.UUID) (int64, error)
}
