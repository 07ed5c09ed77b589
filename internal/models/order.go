package models

import "time"

// OrderStatus tracks an order through fulfilment.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderShipped   OrderStatus = "shipped"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// OrderLine is one ordered item. Name and price are captured at order time.
type OrderLine struct {
	ItemID   string  `json:"item_id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// OrderModel is a client order with its lines.
type OrderModel struct {
	Base
	ClientID  string      `json:"client_id"  gorm:"type:char(36);index;not null"`
	Status    OrderStatus `json:"status"     gorm:"size:16;index;default:pending"`
	Lines     []OrderLine `json:"lines"      gorm:"type:longtext;serializer:json"`
	Total     float64     `json:"total"`
	Notes     string      `json:"notes"      gorm:"type:text"`
	OrderedAt time.Time   `json:"ordered_at" gorm:"index"`

	Client *ClientModel `json:"client,omitempty" gorm:"foreignKey:ClientID"`
}

func (OrderModel) TableName() string { return "orders" }

// ItemNames returns the line names, in order.
func (m OrderModel) ItemNames() []string {
	out := make([]string, 0, len(m.Lines))
	for _, l := range m.Lines {
		out = append(out, l.Name)
	}
	return out
}

// Quantities returns the line quantities, in order.
func (m OrderModel) Quantities() []float64 {
	out := make([]float64, 0, len(m.Lines))
	for _, l := range m.Lines {
		out = append(out, float64(l.Quantity))
	}
	return out
}

// Prices returns the line unit prices, in order.
func (m OrderModel) Prices() []float64 {
	out := make([]float64, 0, len(m.Lines))
	for _, l := range m.Lines {
		out = append(out, l.Price)
	}
	return out
}

// LineTotal sums quantity times price over lines.
func LineTotal(lines []OrderLine) float64 {
	var total float64
	for _, l := range lines {
		total += float64(l.Quantity) * l.Price
	}
	return total
}
