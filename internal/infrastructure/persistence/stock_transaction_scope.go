package persistence

import (
	"context"

	appstock "github.com/ims/backend/internal/application/stock"
	"github.com/ims/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// A stock quantity update and its ledger append go through here so they
// commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	return translateError(err)
}

// gormTransactionalRepositories provides repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// StockRepo returns the stock repository scoped to the current transaction
func (r *gormTransactionalRepositories) StockRepo() stock.StockRepository {
	return NewGormStockRepository(r.tx)
}

// LedgerRepo returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) LedgerRepo() stock.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

var _ appstock.TransactionScope = (*GormTransactionScope)(nil)
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
