package stock

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirection(t *testing.T) {
	assert.True(t, DirectionIn.IsValid())
	assert.True(t, DirectionOut.IsValid())
	assert.False(t, Direction("").IsValid())
	assert.False(t, Direction("inbound").IsValid())
	assert.Equal(t, "IN", DirectionIn.String())
	assert.Equal(t, "OUT", DirectionOut.String())
}

func TestNewLedgerEntry(t *testing.T) {
	stockID := uuid.New()

	t.Run("creates entry with trimmed note", func(t *testing.T) {
		entry, err := NewLedgerEntry(stockID, 5, DirectionIn, "  Initial stock  ")
		require.NoError(t, err)
		assert.Equal(t, stockID, entry.StockID)
		assert.Equal(t, int64(5), entry.Change)
		assert.Equal(t, DirectionIn, entry.Direction)
		assert.Equal(t, "Initial stock", entry.Note)
		assert.False(t, entry.OccurredAt.IsZero())
	})

	t.Run("empty note allowed", func(t *testing.T) {
		entry, err := NewLedgerEntry(stockID, 1, DirectionOut, "")
		require.NoError(t, err)
		assert.Equal(t, "", entry.Note)
	})

	t.Run("overlong note truncated", func(t *testing.T) {
		entry, err := NewLedgerEntry(stockID, 1, DirectionIn, strings.Repeat("n", MaxNoteLength+40))
		require.NoError(t, err)
		assert.Len(t, entry.Note, MaxNoteLength)
	})

	t.Run("overlong multi-byte note truncated on rune boundary", func(t *testing.T) {
		entry, err := NewLedgerEntry(stockID, 1, DirectionIn, strings.Repeat("药", MaxNoteLength+40))
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(entry.Note))
		assert.Equal(t, MaxNoteLength, utf8.RuneCountInString(entry.Note))
	})

	t.Run("rejects non-positive change", func(t *testing.T) {
		_, err := NewLedgerEntry(stockID, 0, DirectionIn, "")
		assert.ErrorIs(t, err, ErrInvalidChangeAmount)

		_, err = NewLedgerEntry(stockID, -3, DirectionOut, "")
		assert.ErrorIs(t, err, ErrInvalidChangeAmount)
	})

	t.Run("rejects nil stock id", func(t *testing.T) {
		_, err := NewLedgerEntry(uuid.Nil, 1, DirectionIn, "")
		require.Error(t, err)
	})

	t.Run("rejects invalid direction", func(t *testing.T) {
		_, err := NewLedgerEntry(stockID, 1, Direction("BOTH"), "")
		require.Error(t, err)
	})
}

func TestLedgerEntry_SignedChange(t *testing.T) {
	stockID := uuid.New()

	in, err := NewLedgerEntry(stockID, 7, DirectionIn, "")
	require.NoError(t, err)
	assert.Equal(t, int64(7), in.SignedChange())

	out, err := NewLedgerEntry(stockID, 7, DirectionOut, "")
	require.NoError(t, err)
	assert.Equal(t, int64(-7), out.SignedChange())
}
