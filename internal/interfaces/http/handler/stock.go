package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	stockapp "github.com/ims/backend/internal/application/stock"
	"github.com/ims/backend/internal/domain/stock"
	"github.com/ims/backend/internal/interfaces/http/dto"
)

// StockHandler handles stock and ledger API endpoints
type StockHandler struct {
	BaseHandler
	stockService *stockapp.StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stockService *stockapp.StockService) *StockHandler {
	return &StockHandler{stockService: stockService}
}

// CreateStockRequest is the request body for creating a stock
type CreateStockRequest struct {
	Name     string `json:"name" binding:"required"`
	Quantity *int64 `json:"quantity"`
}

// RenameStockRequest is the request body for renaming a stock
type RenameStockRequest struct {
	Name string `json:"name" binding:"required"`
}

// StockChangeRequest is the request body for a quantity change. Change is
// text on purpose: validation of its content is a domain concern, not a
// transport one.
type StockChangeRequest struct {
	Change    string `json:"change" binding:"required"`
	Direction string `json:"direction" binding:"required"`
	Note      string `json:"note"`
}

// RegisterRoutes registers stock routes
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	stocks := rg.Group("/stocks")
	{
		stocks.POST("", h.Create)
		stocks.GET("", h.List)
		stocks.GET("/:id", h.GetByID)
		stocks.PUT("/:id", h.Rename)
		stocks.DELETE("/:id", h.Delete)
		stocks.POST("/:id/change", h.ApplyChange)
		stocks.GET("/:id/ledger", h.LedgerForStock)
	}
	rg.GET("/ledger", h.RecentLedger)
}

// Create handles POST /stocks
func (h *StockHandler) Create(c *gin.Context) {
	var req CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	created, err := h.stockService.Create(c.Request.Context(), req.Name, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, created)
}

// List handles GET /stocks
func (h *StockHandler) List(c *gin.Context) {
	var filter stockapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.stockService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID handles GET /stocks/:id
func (h *StockHandler) GetByID(c *gin.Context) {
	stockID, ok := h.parseID(c)
	if !ok {
		return
	}

	found, err := h.stockService.GetByID(c.Request.Context(), stockID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, found)
}

// Rename handles PUT /stocks/:id
func (h *StockHandler) Rename(c *gin.Context) {
	stockID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req RenameStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	renamed, err := h.stockService.Rename(c.Request.Context(), stockID, req.Name)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, renamed)
}

// Delete handles DELETE /stocks/:id
func (h *StockHandler) Delete(c *gin.Context) {
	stockID, ok := h.parseID(c)
	if !ok {
		return
	}

	if err := h.stockService.SoftDelete(c.Request.Context(), stockID); err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyChange handles POST /stocks/:id/change
func (h *StockHandler) ApplyChange(c *gin.Context) {
	stockID, ok := h.parseID(c)
	if !ok {
		return
	}

	var req StockChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.stockService.ApplyChange(
		c.Request.Context(),
		stockID,
		req.Change,
		stock.Direction(req.Direction),
		req.Note,
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, result)
}

// LedgerForStock handles GET /stocks/:id/ledger
func (h *StockHandler) LedgerForStock(c *gin.Context) {
	stockID, ok := h.parseID(c)
	if !ok {
		return
	}

	entries, err := h.stockService.LedgerForStock(c.Request.Context(), stockID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

// RecentLedger handles GET /ledger
func (h *StockHandler) RecentLedger(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.BadRequest(c, "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := h.stockService.RecentLedger(c.Request.Context(), limit)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, entries)
}

func (h *StockHandler) parseID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "id must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
