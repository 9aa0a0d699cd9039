package stock

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/stock"
)

const (
	// maxConflictRetries bounds how many times a change is replayed
	// after a serialization failure before giving up.
	maxConflictRetries = 3

	// DefaultRecentLimit is the ledger page size when none is given.
	DefaultRecentLimit = 20

	// MaxRecentLimit caps how many ledger entries a single read returns.
	MaxRecentLimit = 100
)

// StockService coordinates stock mutations and ledger reads
type StockService struct {
	stockRepo  stock.StockRepository
	ledgerRepo stock.LedgerRepository
	txScope    TransactionScope
	logger     *zap.Logger
}

// NewStockService creates a stock service
func NewStockService(
	stockRepo stock.StockRepository,
	ledgerRepo stock.LedgerRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockService {
	return &StockService{
		stockRepo:  stockRepo,
		ledgerRepo: ledgerRepo,
		txScope:    txScope,
		logger:     logger,
	}
}

// Create registers a new stock. Names are unique among non-deleted stocks.
func (s *StockService) Create(ctx context.Context, name string, initialQuantity *int64) (*StockResponse, error) {
	quantity := int64(stock.DefaultInitialQuantity)
	if initialQuantity != nil {
		quantity = *initialQuantity
	}

	newStock, err := stock.NewStock(name, quantity)
	if err != nil {
		return nil, err
	}

	existing, err := s.stockRepo.FindActiveByName(ctx, newStock.Name)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "a stock with this name already exists")
	}

	if err := s.stockRepo.Create(ctx, newStock); err != nil {
		return nil, err
	}

	s.logger.Info("stock created",
		zap.String("stock_id", newStock.ID.String()),
		zap.String("name", newStock.Name),
		zap.Int64("quantity", newStock.Quantity))

	resp := ToStockResponse(newStock)
	return &resp, nil
}

// List returns non-deleted stocks matching the filter, ordered by name
func (s *StockService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[StockResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = strings.TrimSpace(filter.Search)
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	stocks, err := s.stockRepo.SearchActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.stockRepo.CountActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	result := shared.NewPaginated(ToStockResponses(stocks), total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// GetByID returns a single non-deleted stock
func (s *StockService) GetByID(ctx context.Context, stockID uuid.UUID) (*StockResponse, error) {
	found, err := s.stockRepo.FindActiveByID(ctx, stockID)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(found)
	return &resp, nil
}

// Rename changes a stock's name, keeping uniqueness among non-deleted stocks
func (s *StockService) Rename(ctx context.Context, stockID uuid.UUID, name string) (*StockResponse, error) {
	found, err := s.stockRepo.FindActiveByID(ctx, stockID)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(name)
	if trimmed != found.Name {
		existing, err := s.stockRepo.FindActiveByName(ctx, trimmed)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != found.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "a stock with this name already exists")
		}
	}

	if err := found.Rename(name); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, found); err != nil {
		return nil, err
	}

	resp := ToStockResponse(found)
	return &resp, nil
}

// SoftDelete marks a stock deleted. Its ledger history is kept.
func (s *StockService) SoftDelete(ctx context.Context, stockID uuid.UUID) error {
	found, err := s.stockRepo.FindActiveByID(ctx, stockID)
	if err != nil {
		return err
	}

	found.SoftDelete()
	if err := s.stockRepo.Save(ctx, found); err != nil {
		return err
	}

	s.logger.Info("stock soft-deleted",
		zap.String("stock_id", found.ID.String()),
		zap.String("name", found.Name))
	return nil
}

// ApplyChange adjusts a stock's quantity and appends a ledger entry
// in one transaction. The raw change is taken as text: anything that
// does not parse as a positive integer is rejected before any lock is
// taken. Serialization failures are retried a bounded number of times.
func (s *StockService) ApplyChange(ctx context.Context, stockID uuid.UUID, rawChange string, direction stock.Direction, note string) (*StockChangeResult, error) {
	amount, err := parseChangeAmount(rawChange)
	if err != nil {
		return nil, err
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "direction must be IN or OUT")
	}

	var result *StockChangeResult
	for attempt := 1; ; attempt++ {
		result, err = s.applyChangeOnce(ctx, stockID, amount, direction, note)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, shared.ErrConcurrencyConflict) || attempt >= maxConflictRetries {
			return nil, err
		}
		s.logger.Warn("stock change conflicted, retrying",
			zap.String("stock_id", stockID.String()),
			zap.Int("attempt", attempt))
	}
}

func (s *StockService) applyChangeOnce(ctx context.Context, stockID uuid.UUID, amount int64, direction stock.Direction, note string) (*StockChangeResult, error) {
	var result *StockChangeResult

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.StockRepo().FindActiveByIDForUpdate(ctx, stockID)
		if err != nil {
			return err
		}

		entry, err := locked.ApplyChange(direction, amount, note)
		if err != nil {
			return err
		}

		if err := repos.StockRepo().Save(ctx, locked); err != nil {
			return err
		}
		if err := repos.LedgerRepo().Append(ctx, entry); err != nil {
			return err
		}

		result = &StockChangeResult{
			Stock: ToStockResponse(locked),
			Entry: ToLedgerEntryResponse(entry),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock change applied",
		zap.String("stock_id", stockID.String()),
		zap.String("direction", direction.String()),
		zap.Int64("amount", amount),
		zap.Int64("quantity", result.Stock.Quantity))
	return result, nil
}

// RecentLedger returns the newest ledger entries across all stocks,
// joined with stock names, newest first.
func (s *StockService) RecentLedger(ctx context.Context, limit int) ([]LedgerEntryResponse, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if limit > MaxRecentLimit {
		limit = MaxRecentLimit
	}

	entries, err := s.ledgerRepo.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	return ToJoinedLedgerEntryResponses(entries), nil
}

// LedgerForStock returns the full history of one stock, newest first.
// Deleted stocks keep their history readable.
func (s *StockService) LedgerForStock(ctx context.Context, stockID uuid.UUID) ([]LedgerEntryResponse, error) {
	count, err := s.ledgerRepo.CountByStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if _, err := s.stockRepo.FindActiveByID(ctx, stockID); err != nil {
			return nil, err
		}
	}

	entries, err := s.ledgerRepo.FindByStock(ctx, stockID)
	if err != nil {
		return nil, err
	}
	return ToLedgerEntryResponses(entries), nil
}

// parseChangeAmount turns the raw text change into an amount. The
// message is the same for non-numeric and non-positive input.
func parseChangeAmount(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, stock.ErrNonNumericChange
	}
	amount, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, stock.ErrNonNumericChange
	}
	if amount <= 0 {
		return 0, stock.ErrInvalidChangeAmount
	}
	return amount, nil
}
