package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/stockdesk/server/internal/fieldgroup"
)

// OptionList is the option values of one variant or attribute. It decodes
// from a JSON array or from the comma-joined string older clients send.
type OptionList []string

func (l *OptionList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("models.OptionList: expected array or string: %w", err)
	}
	if joined == "" {
		*l = []string{}
		return nil
	}
	*l = fieldgroup.SplitOptions(joined)
	return nil
}

// OptionGroup is a persisted variant of an item or attribute of a category.
type OptionGroup struct {
	Name    string     `json:"name"`
	Options OptionList `json:"options"`
}

// Seeds converts persisted groups into field group seeds, in order.
func Seeds(groups []OptionGroup) []fieldgroup.Seed {
	seeds := make([]fieldgroup.Seed, 0, len(groups))
	for _, g := range groups {
		seeds = append(seeds, fieldgroup.Seed{Name: g.Name, Options: append([]string(nil), g.Options...)})
	}
	return seeds
}

// GroupNames returns the names of groups, in order.
func GroupNames(groups []OptionGroup) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}

// GroupOptions flattens the options of all groups.
func GroupOptions(groups []OptionGroup) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Options...)
	}
	return out
}
