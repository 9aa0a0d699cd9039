package stock

import (
	"context"

	"github.com/ims/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to the stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically. A stock quantity update and its ledger append must never
// be visible independently of each other.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the stock repositories
// within a transaction. Both repositories share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// StockRepo returns the stock repository scoped to the current transaction
	StockRepo() stock.StockRepository
	// LedgerRepo returns the ledger repository scoped to the current transaction
	LedgerRepo() stock.LedgerRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Used in tests where repositories are in-memory or mocked.
type NoOpTransactionScope struct {
	stockRepo  stock.StockRepository
	ledgerRepo stock.LedgerRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(stockRepo stock.StockRepository, ledgerRepo stock.LedgerRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		stockRepo:  stockRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// StockRepo returns the stock repository.
func (s *NoOpTransactionScope) StockRepo() stock.StockRepository {
	return s.stockRepo
}

// LedgerRepo returns the ledger repository.
func (s *NoOpTransactionScope) LedgerRepo() stock.LedgerRepository {
	return s.ledgerRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
