package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/shared"
	"github.com/ims/backend/internal/domain/stock"
)

type mockStockRepository struct {
	mock.Mock
}

func (m *mockStockRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*stock.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Stock), args.Error(1)
}

func (m *mockStockRepository) FindActiveByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.Stock, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Stock), args.Error(1)
}

func (m *mockStockRepository) FindActiveByName(ctx context.Context, name string) (*stock.Stock, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Stock), args.Error(1)
}

func (m *mockStockRepository) SearchActive(ctx context.Context, filter shared.Filter) ([]stock.Stock, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.Stock), args.Error(1)
}

func (m *mockStockRepository) CountActive(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStockRepository) Create(ctx context.Context, s *stock.Stock) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockStockRepository) Save(ctx context.Context, s *stock.Stock) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type mockLedgerRepository struct {
	mock.Mock
}

func (m *mockLedgerRepository) Append(ctx context.Context, entry *stock.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockLedgerRepository) Recent(ctx context.Context, limit int) ([]stock.LedgerEntryWithStock, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.LedgerEntryWithStock), args.Error(1)
}

func (m *mockLedgerRepository) FindByStock(ctx context.Context, stockID uuid.UUID) ([]stock.LedgerEntry, error) {
	args := m.Called(ctx, stockID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]stock.LedgerEntry), args.Error(1)
}

func (m *mockLedgerRepository) CountByStock(ctx context.Context, stockID uuid.UUID) (int64, error) {
	args := m.Called(ctx, stockID)
	return args.Get(0).(int64), args.Error(1)
}

func newTestService(stockRepo *mockStockRepository, ledgerRepo *mockLedgerRepository) *StockService {
	scope := NewNoOpTransactionScope(stockRepo, ledgerRepo)
	return NewStockService(stockRepo, ledgerRepo, scope, zap.NewNop())
}

func mustNewStock(t *testing.T, name string, quantity int64) *stock.Stock {
	t.Helper()
	s, err := stock.NewStock(name, quantity)
	require.NoError(t, err)
	return s
}

func TestStockService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates stock with default quantity", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		stockRepo.On("FindActiveByName", ctx, "Paracetamol").Return(nil, shared.ErrNotFound)
		stockRepo.On("Create", ctx, mock.AnythingOfType("*stock.Stock")).Return(nil)

		resp, err := svc.Create(ctx, "Paracetamol", nil)

		require.NoError(t, err)
		assert.Equal(t, "Paracetamol", resp.Name)
		assert.Equal(t, int64(1), resp.Quantity)
		stockRepo.AssertExpectations(t)
	})

	t.Run("creates stock with explicit quantity", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		stockRepo.On("FindActiveByName", ctx, "Bandages").Return(nil, shared.ErrNotFound)
		stockRepo.On("Create", ctx, mock.AnythingOfType("*stock.Stock")).Return(nil)

		quantity := int64(40)
		resp, err := svc.Create(ctx, "Bandages", &quantity)

		require.NoError(t, err)
		assert.Equal(t, int64(40), resp.Quantity)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		existing := mustNewStock(t, "Paracetamol", 5)
		stockRepo.On("FindActiveByName", ctx, "Paracetamol").Return(existing, nil)

		_, err := svc.Create(ctx, "Paracetamol", nil)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		stockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.Create(ctx, "   ", nil)

		require.Error(t, err)
		stockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestStockService_ApplyChange(t *testing.T) {
	ctx := context.Background()

	t.Run("IN adds to quantity and appends ledger entry", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 10)
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)
		ledgerRepo.On("Append", ctx, mock.AnythingOfType("*stock.LedgerEntry")).Return(nil)

		result, err := svc.ApplyChange(ctx, target.ID, "5", stock.DirectionIn, "restock")

		require.NoError(t, err)
		assert.Equal(t, int64(15), result.Stock.Quantity)
		assert.Equal(t, int64(5), result.Entry.Change)
		assert.Equal(t, "IN", result.Entry.Direction)
		assert.Equal(t, "restock", result.Entry.Note)
		stockRepo.AssertExpectations(t)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("OUT subtracts from quantity", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 10)
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)
		ledgerRepo.On("Append", ctx, mock.AnythingOfType("*stock.LedgerEntry")).Return(nil)

		result, err := svc.ApplyChange(ctx, target.ID, "3", stock.DirectionOut, "dispensed")

		require.NoError(t, err)
		assert.Equal(t, int64(7), result.Stock.Quantity)
		assert.Equal(t, int64(3), result.Entry.Change)
	})

	t.Run("OUT beyond balance clamps at zero but records raw amount", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 2)
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)
		ledgerRepo.On("Append", ctx, mock.MatchedBy(func(e *stock.LedgerEntry) bool {
			return e.Change == 10
		})).Return(nil)

		result, err := svc.ApplyChange(ctx, target.ID, "10", stock.DirectionOut, "")

		require.NoError(t, err)
		assert.Equal(t, int64(0), result.Stock.Quantity)
		assert.Equal(t, int64(10), result.Entry.Change)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("non-numeric change is rejected before any lock", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.ApplyChange(ctx, uuid.New(), "abc", stock.DirectionIn, "")

		require.ErrorIs(t, err, stock.ErrNonNumericChange)
		assert.Contains(t, err.Error(), "Please enter a positive integer")
		stockRepo.AssertNotCalled(t, "FindActiveByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("empty change is rejected", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.ApplyChange(ctx, uuid.New(), "  ", stock.DirectionIn, "")

		require.ErrorIs(t, err, stock.ErrNonNumericChange)
	})

	t.Run("zero change is rejected", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.ApplyChange(ctx, uuid.New(), "0", stock.DirectionOut, "")

		require.ErrorIs(t, err, stock.ErrInvalidChangeAmount)
		assert.Contains(t, err.Error(), "Please enter a positive integer")
	})

	t.Run("negative change is rejected without mutation", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.ApplyChange(ctx, uuid.New(), "-4", stock.DirectionIn, "")

		require.ErrorIs(t, err, stock.ErrInvalidChangeAmount)
		stockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("invalid direction is rejected", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		_, err := svc.ApplyChange(ctx, uuid.New(), "5", stock.Direction("SIDEWAYS"), "")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_DIRECTION", domainErr.Code)
	})

	t.Run("unknown stock returns not found", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		id := uuid.New()
		stockRepo.On("FindActiveByIDForUpdate", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.ApplyChange(ctx, id, "5", stock.DirectionIn, "")

		require.ErrorIs(t, err, shared.ErrNotFound)
		ledgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("retries on serialization conflict then succeeds", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 10)
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).
			Return(nil, shared.ErrConcurrencyConflict).Twice()
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).
			Return(target, nil).Once()
		stockRepo.On("Save", ctx, target).Return(nil)
		ledgerRepo.On("Append", ctx, mock.AnythingOfType("*stock.LedgerEntry")).Return(nil)

		result, err := svc.ApplyChange(ctx, target.ID, "5", stock.DirectionIn, "")

		require.NoError(t, err)
		assert.Equal(t, int64(15), result.Stock.Quantity)
		stockRepo.AssertExpectations(t)
	})

	t.Run("gives up after bounded retries", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		id := uuid.New()
		stockRepo.On("FindActiveByIDForUpdate", ctx, id).
			Return(nil, shared.ErrConcurrencyConflict).Times(3)

		_, err := svc.ApplyChange(ctx, id, "5", stock.DirectionIn, "")

		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
		stockRepo.AssertExpectations(t)
	})

	t.Run("sequence of changes folds correctly", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 1)
		stockRepo.On("FindActiveByIDForUpdate", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)
		ledgerRepo.On("Append", ctx, mock.AnythingOfType("*stock.LedgerEntry")).Return(nil)

		steps := []struct {
			raw       string
			direction stock.Direction
			want      int64
		}{
			{"10", stock.DirectionIn, 11},
			{"4", stock.DirectionOut, 7},
			{"20", stock.DirectionOut, 0},
			{"3", stock.DirectionIn, 3},
		}
		for _, step := range steps {
			result, err := svc.ApplyChange(ctx, target.ID, step.raw, step.direction, "")
			require.NoError(t, err)
			assert.Equal(t, step.want, result.Stock.Quantity)
		}
	})
}

func TestStockService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns paginated stocks", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		a := mustNewStock(t, "Aspirin", 3)
		b := mustNewStock(t, "Bandages", 12)
		expectedFilter := shared.DefaultFilter()
		stockRepo.On("SearchActive", ctx, expectedFilter).Return([]stock.Stock{*a, *b}, nil)
		stockRepo.On("CountActive", ctx, expectedFilter).Return(int64(2), nil)

		result, err := svc.List(ctx, ListFilter{})

		require.NoError(t, err)
		assert.Len(t, result.Items, 2)
		assert.Equal(t, int64(2), result.Total)
		assert.Equal(t, "Aspirin", result.Items[0].Name)
	})

	t.Run("passes search term through", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		expectedFilter := shared.DefaultFilter()
		expectedFilter.Search = "para"
		stockRepo.On("SearchActive", ctx, expectedFilter).Return([]stock.Stock{}, nil)
		stockRepo.On("CountActive", ctx, expectedFilter).Return(int64(0), nil)

		result, err := svc.List(ctx, ListFilter{Search: " para "})

		require.NoError(t, err)
		assert.Empty(t, result.Items)
		stockRepo.AssertExpectations(t)
	})
}

func TestStockService_Rename(t *testing.T) {
	ctx := context.Background()

	t.Run("renames when new name is free", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		stockRepo.On("FindActiveByID", ctx, target.ID).Return(target, nil)
		stockRepo.On("FindActiveByName", ctx, "Ibuprofen").Return(nil, shared.ErrNotFound)
		stockRepo.On("Save", ctx, target).Return(nil)

		resp, err := svc.Rename(ctx, target.ID, "Ibuprofen")

		require.NoError(t, err)
		assert.Equal(t, "Ibuprofen", resp.Name)
	})

	t.Run("rejects name held by another stock", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		other := mustNewStock(t, "Ibuprofen", 2)
		stockRepo.On("FindActiveByID", ctx, target.ID).Return(target, nil)
		stockRepo.On("FindActiveByName", ctx, "Ibuprofen").Return(other, nil)

		_, err := svc.Rename(ctx, target.ID, "Ibuprofen")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		stockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("renaming to own name is a no-op conflict check", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		stockRepo.On("FindActiveByID", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)

		resp, err := svc.Rename(ctx, target.ID, "Paracetamol")

		require.NoError(t, err)
		assert.Equal(t, "Paracetamol", resp.Name)
		stockRepo.AssertNotCalled(t, "FindActiveByName", mock.Anything, mock.Anything)
	})
}

func TestStockService_SoftDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("marks stock deleted", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		stockRepo.On("FindActiveByID", ctx, target.ID).Return(target, nil)
		stockRepo.On("Save", ctx, target).Return(nil)

		err := svc.SoftDelete(ctx, target.ID)

		require.NoError(t, err)
		assert.True(t, target.IsDeleted)
	})

	t.Run("unknown stock returns not found", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		id := uuid.New()
		stockRepo.On("FindActiveByID", ctx, id).Return(nil, shared.ErrNotFound)

		err := svc.SoftDelete(ctx, id)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestStockService_RecentLedger(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults the limit", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		ledgerRepo.On("Recent", ctx, DefaultRecentLimit).Return([]stock.LedgerEntryWithStock{}, nil)

		entries, err := svc.RecentLedger(ctx, 0)

		require.NoError(t, err)
		assert.Empty(t, entries)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("caps oversized limits", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		ledgerRepo.On("Recent", ctx, MaxRecentLimit).Return([]stock.LedgerEntryWithStock{}, nil)

		_, err := svc.RecentLedger(ctx, 5000)

		require.NoError(t, err)
		ledgerRepo.AssertExpectations(t)
	})

	t.Run("carries stock names through", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		entry, err := target.ApplyChange(stock.DirectionIn, 3, "restock")
		require.NoError(t, err)

		joined := []stock.LedgerEntryWithStock{{LedgerEntry: *entry, StockName: "Paracetamol"}}
		ledgerRepo.On("Recent", ctx, 20).Return(joined, nil)

		entries, err := svc.RecentLedger(ctx, 20)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Paracetamol", entries[0].StockName)
		assert.Equal(t, int64(3), entries[0].Change)
	})
}

func TestStockService_LedgerForStock(t *testing.T) {
	ctx := context.Background()

	t.Run("returns history for a stock", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		target := mustNewStock(t, "Paracetamol", 5)
		entry, err := target.ApplyChange(stock.DirectionOut, 2, "")
		require.NoError(t, err)

		ledgerRepo.On("CountByStock", ctx, target.ID).Return(int64(1), nil)
		ledgerRepo.On("FindByStock", ctx, target.ID).Return([]stock.LedgerEntry{*entry}, nil)

		entries, err := svc.LedgerForStock(ctx, target.ID)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "OUT", entries[0].Direction)
	})

	t.Run("unknown stock with no history returns not found", func(t *testing.T) {
		stockRepo := new(mockStockRepository)
		ledgerRepo := new(mockLedgerRepository)
		svc := newTestService(stockRepo, ledgerRepo)

		id := uuid.New()
		ledgerRepo.On("CountByStock", ctx, id).Return(int64(0), nil)
		stockRepo.On("FindActiveByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := svc.LedgerForStock(ctx, id)

		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
