package order

import (
	"time"

	"github.com/stockdesk/server/internal/models"
)

// LineDTO is one submitted order line. A nil price takes the item's price.
type LineDTO struct {
	ItemID   string   `json:"item_id"`
	Quantity int      `json:"quantity"`
	Price    *float64 `json:"price"`
}

// OrderDTO is the JSON body of create and update.
type OrderDTO struct {
	ClientID  string             `json:"client_id"`
	Status    models.OrderStatus `json:"status"`
	Lines     []LineDTO          `json:"lines"`
	Notes     string             `json:"notes"`
	OrderedAt *time.Time         `json:"ordered_at"`
}

type StatusDTO struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

type orderResponse struct {
	models.OrderModel
	ClientName string `json:"client_name,omitempty"`
}

func toResponse(m *models.OrderModel) orderResponse {
	r := orderResponse{OrderModel: *m}
	if m.Client != nil {
		r.ClientName = m.Client.Name
	}
	r.Client = nil
	if r.Lines == nil {
		r.Lines = []models.OrderLine{}
	}
	return r
}
