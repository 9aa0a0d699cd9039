package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/ims/backend/internal/application/catalog"
	"github.com/ims/backend/internal/interfaces/http/dto"
)

// DashboardHandler handles dashboard and item catalog API endpoints
type DashboardHandler struct {
	BaseHandler
	dashboardService *catalogapp.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService *catalogapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// RegisterRoutes registers dashboard and item routes
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)

	items := rg.Group("/items")
	{
		items.GET("", h.ListItems)
		items.POST("", h.CreateItem)
	}
}

// Dashboard handles GET /dashboard
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	// -1 means no threshold was requested; 0 is a real threshold
	var threshold int64 = -1
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			h.BadRequest(c, "threshold must be a non-negative integer")
			return
		}
		threshold = parsed
	}

	dashboard, err := h.dashboardService.Dashboard(c.Request.Context(), threshold)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, dashboard)
}

// ListItems handles GET /items
func (h *DashboardHandler) ListItems(c *gin.Context) {
	items, err := h.dashboardService.ListItems(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Success(c, items)
}

// CreateItem handles POST /items
func (h *DashboardHandler) CreateItem(c *gin.Context) {
	var req catalogapp.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	created, err := h.dashboardService.CreateItem(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}
	h.Created(c, created)
}
