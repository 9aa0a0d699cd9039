package stock

import (
	"time"

	"github.com/ims/backend/internal/domain/stock"
)

// StockResponse represents a stock record in service results
type StockResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LedgerEntryResponse represents a ledger entry in service results.
// StockName is populated only on joined reads.
type LedgerEntryResponse struct {
	ID         string    `json:"id"`
	StockID    string    `json:"stock_id"`
	StockName  string    `json:"stock_name,omitempty"`
	Change     int64     `json:"change"`
	Direction  string    `json:"direction"`
	Note       string    `json:"note"`
	OccurredAt time.Time `json:"occurred_at"`
}

// StockChangeResult is the outcome of a successful quantity change:
// the updated stock and the ledger entry appended alongside it.
type StockChangeResult struct {
	Stock StockResponse       `json:"stock"`
	Entry LedgerEntryResponse `json:"entry"`
}

// ListFilter holds list query parameters for stock listings
type ListFilter struct {
	Search   string `form:"q"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// ToStockResponse converts a domain stock to its response form
func ToStockResponse(s *stock.Stock) StockResponse {
	return StockResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Quantity:  s.Quantity,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToStockResponses converts a slice of domain stocks
func ToStockResponses(stocks []stock.Stock) []StockResponse {
	responses := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		responses = append(responses, ToStockResponse(&stocks[i]))
	}
	return responses
}

// ToLedgerEntryResponse converts a domain ledger entry to its response form
func ToLedgerEntryResponse(e *stock.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:         e.ID.String(),
		StockID:    e.StockID.String(),
		Change:     e.Change,
		Direction:  e.Direction.String(),
		Note:       e.Note,
		OccurredAt: e.OccurredAt,
	}
}

// ToLedgerEntryResponses converts a slice of domain ledger entries
func ToLedgerEntryResponses(entries []stock.LedgerEntry) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToLedgerEntryResponse(&entries[i]))
	}
	return responses
}

// ToJoinedLedgerEntryResponses converts joined ledger reads, carrying the stock name
func ToJoinedLedgerEntryResponses(entries []stock.LedgerEntryWithStock) []LedgerEntryResponse {
	responses := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		r := ToLedgerEntryResponse(&entries[i].LedgerEntry)
		r.StockName = entries[i].StockName
		responses = append(responses, r)
	}
	return responses
}
