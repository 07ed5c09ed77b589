package fieldgroup

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxGroups bounds how many groups a single submission may carry.
const MaxGroups = 100

var (
	ErrMissingCount  = errors.New("group count is required")
	ErrInvalidCount  = errors.New("group count must be a non-negative integer")
	ErrTooManyGroups = fmt.Errorf("at most %d groups may be submitted", MaxGroups)
)

// Submitted is one group as sent to the backend.
type Submitted struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// Payload is the submit shape of a collection. Count always equals
// len(Groups).
type Payload struct {
	Kind   Kind        `json:"kind"`
	Count  int         `json:"count"`
	Groups []Submitted `json:"groups"`
}

// Serialize converts the collection for submission. Options are split on
// commas and trimmed; empty segments are kept.
func (c Collection) Serialize() Payload {
	groups := make([]Submitted, 0, len(c.Groups))
	for _, g := range c.Groups {
		groups = append(groups, Submitted{
			Name:    strings.TrimSpace(g.Name),
			Options: SplitOptions(g.Options),
		})
	}
	return Payload{Kind: c.Kind, Count: len(groups), Groups: groups}
}

// Seeds returns the payload in its persisted shape.
func (p Payload) Seeds() []Seed {
	seeds := make([]Seed, 0, len(p.Groups))
	for _, g := range p.Groups {
		seeds = append(seeds, Seed{Name: g.Name, Options: g.Options})
	}
	return seeds
}

// SplitOptions splits a comma-separated option string, trimming every
// segment.
func SplitOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// CountField is the legacy form field carrying the number of groups.
func (k Kind) CountField() string {
	return k.Label() + "-count"
}

func nameField(id int) string    { return "name-" + strconv.Itoa(id) }
func optionsField(id int) string { return "opt-" + strconv.Itoa(id) }

// EncodeForm writes the payload as legacy form fields: name-{id}, opt-{id}
// and the kind's count field.
func EncodeForm(p Payload) url.Values {
	values := url.Values{}
	values.Set(p.Kind.CountField(), strconv.Itoa(len(p.Groups)))
	for i, g := range p.Groups {
		id := i + 1
		values.Set(nameField(id), g.Name)
		values.Set(optionsField(id), strings.Join(g.Options, ","))
	}
	return values
}

// DecodeForm reads legacy form fields back into a collection. Slots missing
// for an index read as blank so required-field checks can report them.
func DecodeForm(kind Kind, values url.Values) (Collection, error) {
	raw := strings.TrimSpace(values.Get(kind.CountField()))
	if raw == "" {
		return Collection{}, ErrMissingCount
	}
	count, err := strconv.Atoi(raw)
	if err != nil || count < 0 {
		return Collection{}, ErrInvalidCount
	}
	if count > MaxGroups {
		return Collection{}, ErrTooManyGroups
	}

	groups := make([]Group, 0, count)
	for id := 1; id <= count; id++ {
		groups = append(groups, Group{
			ID:      id,
			Name:    values.Get(nameField(id)),
			Options: values.Get(optionsField(id)),
		})
	}
	return Collection{Kind: kind, Groups: groups}, nil
}
