package stock

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ims/backend/internal/domain/shared"
)

// Direction represents the direction of a stock change
type Direction string

const (
	// DirectionIn increases the on-hand quantity
	DirectionIn Direction = "IN"
	// DirectionOut decreases the on-hand quantity, clamped at zero
	DirectionOut Direction = "OUT"
)

// String returns the string representation of the direction
func (d Direction) String() string {
	return string(d)
}

// IsValid returns true if the direction is IN or OUT
func (d Direction) IsValid() bool {
	return d == DirectionIn || d == DirectionOut
}

// MaxNoteLength is the maximum length of a ledger entry note
const MaxNoteLength = 255

// ErrInvalidChangeAmount is returned when a change amount is zero or negative.
// The user-facing message matches the original input form exactly.
var ErrInvalidChangeAmount = shared.NewDomainError("INVALID_CHANGE_AMOUNT", "Please enter a positive integer")

// ErrNonNumericChange is returned when a change amount does not parse as an integer
var ErrNonNumericChange = shared.NewDomainError("NON_NUMERIC_CHANGE", "Please enter a positive integer")

// LedgerEntry is an immutable audit record of one quantity change event.
// Once written it is never updated or deleted; corrections are made with
// new entries. The canonical read order is OccurredAt descending.
type LedgerEntry struct {
	shared.BaseEntity
	StockID    uuid.UUID `gorm:"type:uuid;not null;index:idx_ledger_stock_time,priority:1"`
	Change     int64     `gorm:"not null"`
	Direction  Direction `gorm:"type:varchar(3);not null"`
	Note       string    `gorm:"type:varchar(255);not null;default:''"`
	OccurredAt time.Time `gorm:"type:timestamptz;not null;index:idx_ledger_stock_time,priority:2,sort:desc"`
}

// TableName returns the table name for GORM
func (LedgerEntry) TableName() string {
	return "stock_ledger"
}

// NewLedgerEntry creates a ledger entry for a stock change event.
// Change must be positive; the sign of the effect is carried by Direction.
func NewLedgerEntry(stockID uuid.UUID, change int64, direction Direction, note string) (*LedgerEntry, error) {
	if stockID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock ID cannot be empty")
	}
	if change <= 0 {
		return nil, ErrInvalidChangeAmount
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Direction must be IN or OUT")
	}

	note = strings.TrimSpace(note)
	if runes := []rune(note); len(runes) > MaxNoteLength {
		note = string(runes[:MaxNoteLength])
	}

	return &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		StockID:    stockID,
		Change:     change,
		Direction:  direction,
		Note:       note,
		OccurredAt: time.Now(),
	}, nil
}

// SignedChange returns the change with sign based on direction,
// positive for IN and negative for OUT
func (e *LedgerEntry) SignedChange() int64 {
	if e.Direction == DirectionOut {
		return -e.Change
	}
	return e.Change
}
