package catalog

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ims/backend/internal/domain/catalog"
	"github.com/ims/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// DashboardCache stores computed dashboard snapshots per threshold.
// A miss is reported as (nil, nil). Implementations expire entries on
// their own; the service never invalidates explicitly and tolerates a
// briefly stale snapshot.
type DashboardCache interface {
	Get(ctx context.Context, threshold int64) (*DashboardResponse, error)
	Set(ctx context.Context, threshold int64, snapshot *DashboardResponse) error
}

// DashboardService computes the low-stock/value dashboard and manages
// the priced item catalog behind it
type DashboardService struct {
	itemRepo         catalog.ItemRepository
	cache            DashboardCache
	logger           *zap.Logger
	defaultThreshold int64
}

// NewDashboardService creates a dashboard service. The cache may be nil,
// in which case every request recomputes.
func NewDashboardService(itemRepo catalog.ItemRepository, cache DashboardCache, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		itemRepo:         itemRepo,
		cache:            cache,
		logger:           logger,
		defaultThreshold: catalog.DefaultLowStockThreshold,
	}
}

// SetDefaultThreshold overrides the threshold used when a request does
// not supply one. Non-positive values are ignored.
func (s *DashboardService) SetDefaultThreshold(threshold int64) {
	if threshold > 0 {
		s.defaultThreshold = threshold
	}
}

// Dashboard returns the dashboard view for the given threshold. A
// negative threshold means none was requested and falls back to the
// default; zero is a real threshold matching only out-of-stock items.
// Snapshots are served from cache when present.
func (s *DashboardService) Dashboard(ctx context.Context, threshold int64) (*DashboardResponse, error) {
	if threshold < 0 {
		threshold = s.defaultThreshold
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, threshold)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	items, err := s.itemRepo.FindAllOrderedByName(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := catalog.ComputeDashboard(items, threshold)
	response := ToDashboardResponse(dashboard)

	if s.cache != nil {
		if err := s.cache.Set(ctx, threshold, &response); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}

	return &response, nil
}

// ListItems returns all catalog items ordered by name, flagged against
// the default low-stock threshold
func (s *DashboardService) ListItems(ctx context.Context) ([]ItemResponse, error) {
	items, err := s.itemRepo.FindAllOrderedByName(ctx)
	if err != nil {
		return nil, err
	}
	return toItemResponses(items, s.defaultThreshold), nil
}

// CreateItem registers a new catalog item. SKUs are unique.
func (s *DashboardService) CreateItem(ctx context.Context, req CreateItemRequest) (*ItemResponse, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(req.Price))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price must be a decimal number")
	}

	item, err := catalog.NewItem(req.Name, req.SKU, req.Quantity, price)
	if err != nil {
		return nil, err
	}
	item.ExpiryDate = req.ExpiryDate
	item.Category = strings.TrimSpace(req.Category)
	item.Brand = strings.TrimSpace(req.Brand)

	existing, err := s.itemRepo.FindBySKU(ctx, item.SKU)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "an item with this SKU already exists")
	}

	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog item created",
		zap.String("item_id", item.ID.String()),
		zap.String("sku", item.SKU))

	resp := toItemResponse(item, s.defaultThreshold)
	return &resp, nil
}
