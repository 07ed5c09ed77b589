package draft

import (
	"encoding/json"
	"time"

	"github.com/stockdesk/server/internal/fieldgroup"
)

// Draft is a server-held field group collection being edited in a legacy
// form. It lives in Redis until submitted or expired.
type Draft struct {
	ID         string                `json:"id"`
	Collection fieldgroup.Collection `json:"collection"`
	// SourceID is the item or category the draft was seeded from.
	SourceID  string    `json:"source_id,omitempty"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View is what every draft endpoint answers with.
type View struct {
	*Draft
	Enabled    bool                  `json:"enabled"`
	Validation fieldgroup.Validation `json:"validation"`
}

func newView(d *Draft) *View {
	return &View{Draft: d, Enabled: d.Collection.Enabled(), Validation: d.Collection.Validate()}
}

// RemovalView adds the id migration of a group removal.
type RemovalView struct {
	*View
	Removed int         `json:"removed"`
	Renamed map[int]int `json:"renamed"`
}

// PayloadView is the submit shape plus the legacy form fields.
type PayloadView struct {
	Payload fieldgroup.Payload  `json:"payload"`
	Form    map[string][]string `json:"form"`
}

type CreateDraftDTO struct {
	Kind       string  `json:"kind"`
	ItemID     *string `json:"item_id"`
	CategoryID *string `json:"category_id"`
}

// UnmarshalJSON also accepts camelCase ids.
func (d *CreateDraftDTO) UnmarshalJSON(data []byte) error {
	type snakeCase CreateDraftDTO
	type camelCase struct {
		ItemID     *string `json:"itemId"`
		CategoryID *string `json:"categoryId"`
	}

	var snake snakeCase
	if err := json.Unmarshal(data, &snake); err != nil {
		return err
	}
	var camel camelCase
	if err := json.Unmarshal(data, &camel); err != nil {
		return err
	}

	*d = CreateDraftDTO(snake)
	if d.ItemID == nil {
		d.ItemID = camel.ItemID
	}
	if d.CategoryID == nil {
		d.CategoryID = camel.CategoryID
	}
	return nil
}

// UpdateGroupDTO changes one or both slots of a group.
type UpdateGroupDTO struct {
	Name    *string `json:"name"`
	Options *string `json:"options"`
}

type EnabledDTO struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// MapErrorsDTO carries a backend validation payload to project onto groups.
type MapErrorsDTO struct {
	Errors map[string][]string `json:"errors"`
}
