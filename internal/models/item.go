package models

// ItemModel is a stocked product. Variants are its repeatable option groups.
type ItemModel struct {
	Base
	Name              string        `json:"name"                gorm:"size:191;index;not null"`
	SKU               string        `json:"sku"                 gorm:"size:64;index"`
	Description       string        `json:"description"         gorm:"type:text"`
	CategoryID        *string       `json:"category_id"         gorm:"type:char(36);index"`
	SupplierID        *string       `json:"supplier_id"         gorm:"type:char(36);index"`
	Quantity          int           `json:"quantity"            gorm:"default:0"`
	Price             float64       `json:"price"               gorm:"default:0"`
	LowStockThreshold int           `json:"low_stock_threshold" gorm:"default:0"`
	HasVariants       bool          `json:"has_variants"        gorm:"default:false"`
	Variants          []OptionGroup `json:"variants"            gorm:"type:longtext;serializer:json"`

	Category *CategoryModel `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Supplier *SupplierModel `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (ItemModel) TableName() string { return "items" }

// LowStock reports whether the quantity is at or below the threshold.
func (m ItemModel) LowStock() bool {
	return m.Quantity <= m.LowStockThreshold
}
