package category

import (
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/modules/inventory/groupform"
)

const formToggleField = "has_attributes"

// CategoryDTO is the JSON body of create and update.
type CategoryDTO struct {
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	HasAttributes *bool                `json:"has_attributes"`
	Attributes    []models.OptionGroup `json:"attributes"`
}

// Input is a create or update request after decoding either body shape.
type Input struct {
	Name        string
	Description string
	Attributes  groupform.Input
}

type categoryResponse struct {
	models.CategoryModel
	ItemCount int64 `json:"item_count"`
}
