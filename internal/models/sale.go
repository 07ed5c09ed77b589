package models

import "time"

// SaleModel records the payment of a completed order.
type SaleModel struct {
	Base
	OrderID string    `json:"order_id" gorm:"type:char(36);index;not null"`
	Amount  float64   `json:"amount"`
	SoldAt  time.Time `json:"sold_at"  gorm:"index"`

	Order *OrderModel `json:"order,omitempty" gorm:"foreignKey:OrderID"`
}

func (SaleModel) TableName() string { return "sales" }
