package item

import (
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
)

const (
	formToggleField = "has_variants"
)

// ItemDTO is the JSON body of create and update.
type ItemDTO struct {
	Name              string               `json:"name"`
	SKU               string               `json:"sku"`
	Description       string               `json:"description"`
	CategoryID        *string              `json:"category_id"`
	SupplierID        *string              `json:"supplier_id"`
	Quantity          int                  `json:"quantity"`
	Price             float64              `json:"price"`
	LowStockThreshold int                  `json:"low_stock_threshold"`
	HasVariants       *bool                `json:"has_variants"`
	Variants          []models.OptionGroup `json:"variants"`
}

// Input is a create or update request after decoding either body shape.
type Input struct {
	Name              string
	SKU               string
	Description       string
	CategoryID        *string
	SupplierID        *string
	Quantity          int
	Price             float64
	LowStockThreshold int
	Variants          groupform.Input
}

// itemResponse flattens the category and supplier names for the grid.
type itemResponse struct {
	models.ItemModel
	CategoryName string `json:"category_name,omitempty"`
	SupplierName string `json:"supplier_name,omitempty"`
	LowStock     bool   `json:"low_stock"`
}

func toResponse(m *models.ItemModel) itemResponse {
	r := itemResponse{ItemModel: *m, LowStock: m.LowStock()}
	if m.Category != nil {
		r.CategoryName = m.Category.Name
	}
	if m.Supplier != nil {
		r.SupplierName = m.Supplier.Name
	}
	r.Category = nil
	r.Supplier = nil
	if r.Variants == nil {
		r.Variants = []models.OptionGroup{}
	}
	return r
}
