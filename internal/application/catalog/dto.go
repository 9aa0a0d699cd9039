package catalog

import (
	"time"

	"github.com/ims/backend/internal/domain/catalog"
)

// ItemResponse represents a catalog item in service results
type ItemResponse struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	SKU        string     `json:"sku"`
	Quantity   int64      `json:"quantity"`
	Price      string     `json:"price"`
	TotalValue string     `json:"total_value"`
	ExpiryDate *time.Time `json:"expiry_date,omitempty"`
	Category   string     `json:"category,omitempty"`
	Brand      string     `json:"brand,omitempty"`
	LowStock   bool       `json:"low_stock"`
}

// DashboardResponse is the serialized dashboard view
type DashboardResponse struct {
	Items         []ItemResponse `json:"items"`
	LowStockItems []ItemResponse `json:"low_stock_items"`
	LowStockCount int            `json:"low_stock_count"`
	ItemCount     int            `json:"item_count"`
	Threshold     int64          `json:"threshold"`
	TotalValue    string         `json:"total_value"`
}

// CreateItemRequest carries the fields for creating a catalog item
type CreateItemRequest struct {
	Name       string     `json:"name" binding:"required"`
	SKU        string     `json:"sku" binding:"required"`
	Quantity   int64      `json:"quantity" binding:"min=0"`
	Price      string     `json:"price" binding:"required"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Category   string     `json:"category"`
	Brand      string     `json:"brand"`
}

func toItemResponse(item *catalog.Item, threshold int64) ItemResponse {
	return ItemResponse{
		ID:         item.ID.String(),
		Name:       item.Name,
		SKU:        item.SKU,
		Quantity:   item.Quantity,
		Price:      item.Price.StringFixed(2),
		TotalValue: item.TotalValue().StringFixed(2),
		ExpiryDate: item.ExpiryDate,
		Category:   item.Category,
		Brand:      item.Brand,
		LowStock:   item.IsLowStock(threshold),
	}
}

func toItemResponses(items []catalog.Item, threshold int64) []ItemResponse {
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, toItemResponse(&items[i], threshold))
	}
	return responses
}

// ToDashboardResponse serializes a computed dashboard
func ToDashboardResponse(d catalog.Dashboard) DashboardResponse {
	return DashboardResponse{
		Items:         toItemResponses(d.Items, d.Threshold),
		LowStockItems: toItemResponses(d.LowStockItems, d.Threshold),
		LowStockCount: len(d.LowStockItems),
		ItemCount:     len(d.Items),
		Threshold:     d.Threshold,
		TotalValue:    d.TotalValue.StringFixed(2),
	}
}
