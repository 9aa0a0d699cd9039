package stock

import (
	"strings"
	"time"

	"github.com/ims/backend/internal/domain/shared"
)

// MaxNameLength is the maximum length of a stock name
const MaxNameLength = 100

// DefaultInitialQuantity is the quantity a stock starts with when none is given
const DefaultInitialQuantity = 1

// Stock represents a named inventory unit tracked by quantity only.
// It is the aggregate root for stock mutations; quantity never goes negative
// and is only changed through ApplyChange.
type Stock struct {
	shared.BaseEntity
	Name      string `gorm:"type:varchar(100);not null"`
	Quantity  int64  `gorm:"not null;default:1"`
	IsDeleted bool   `gorm:"not null;default:false;index"`
}

// TableName returns the table name for GORM
func (Stock) TableName() string {
	return "stocks"
}

// NewStock creates a new stock with the given name and initial quantity
func NewStock(name string, initialQuantity int64) (*Stock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Stock name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return nil, shared.NewDomainError("INVALID_NAME", "Stock name is too long")
	}
	if initialQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity cannot be negative")
	}

	return &Stock{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Quantity:   initialQuantity,
	}, nil
}

// ApplyChange applies a quantity change and returns the ledger entry
// recording it. The entry always records the requested amount: an OUT
// larger than the current quantity clamps the quantity at zero but is
// written to the ledger unclamped, so ledger history does not always sum
// to the on-hand quantity. That asymmetry is intentional and relied upon.
func (s *Stock) ApplyChange(direction Direction, amount int64, note string) (*LedgerEntry, error) {
	if s.IsDeleted {
		return nil, shared.ErrNotFound
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be IN or OUT")
	}
	if amount <= 0 {
		return nil, ErrInvalidChangeAmount
	}

	switch direction {
	case DirectionIn:
		s.Quantity += amount
	case DirectionOut:
		s.Quantity -= amount
		if s.Quantity < 0 {
			s.Quantity = 0
		}
	}
	s.UpdatedAt = time.Now()

	return NewLedgerEntry(s.ID, amount, direction, note)
}

// Rename changes the stock name (administrative edit)
func (s *Stock) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Stock name cannot be empty")
	}
	if len(name) > MaxNameLength {
		return shared.NewDomainError("INVALID_NAME", "Stock name is too long")
	}
	s.Name = name
	s.UpdatedAt = time.Now()
	return nil
}

// SoftDelete marks the stock as deleted without removing the row,
// preserving referential integrity for ledger entries and bills.
func (s *Stock) SoftDelete() {
	s.IsDeleted = true
	s.UpdatedAt = time.Now()
}
