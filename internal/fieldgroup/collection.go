// Package fieldgroup keeps ordered collections of repeatable name/options
// groups, such as item variants and category attributes.
//
// A Collection is a value. Every operation returns a fresh collection and
// leaves its receiver untouched, so ids are always reassigned for the whole
// collection in one step. Group ids are 1-based and dense in display order.
package fieldgroup

import (
	"fmt"
	"strings"
)

// Kind selects what a collection's groups describe.
type Kind string

const (
	KindVariant   Kind = "variant"
	KindAttribute Kind = "attribute"
)

// ParseKind validates a kind coming from a request.
func ParseKind(raw string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(raw))); k {
	case KindVariant, KindAttribute:
		return k, nil
	default:
		return "", fmt.Errorf("unknown field group kind %q", raw)
	}
}

// Label is the noun used in user-facing messages.
func (k Kind) Label() string {
	if k == "" {
		return "option"
	}
	return string(k)
}

// Plural is the payload key holding the groups, e.g. "variants".
func (k Kind) Plural() string {
	return k.Label() + "s"
}

// FieldKey builds the error key of one slot of one group, e.g. "variants.2.name".
func (k Kind) FieldKey(id int, slot string) string {
	return fmt.Sprintf("%s.%d.%s", k.Plural(), id, slot)
}

// Group is one repeatable entry.
type Group struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Options string `json:"options"`
}

// Collection is an ordered list of groups; slice order is display order.
type Collection struct {
	Kind   Kind    `json:"kind"`
	Groups []Group `json:"groups"`
}

// Seed is the persisted shape of a group, as returned by the edit-flow GET.
type Seed struct {
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// New returns an empty collection.
func New(kind Kind) Collection {
	return Collection{Kind: kind, Groups: []Group{}}
}

// Initialize builds a collection from persisted groups, assigning ids 1..N
// in the given order.
func Initialize(kind Kind, seeds []Seed) Collection {
	groups := make([]Group, 0, len(seeds))
	for i, seed := range seeds {
		groups = append(groups, Group{
			ID:      i + 1,
			Name:    seed.Name,
			Options: strings.Join(seed.Options, ","),
		})
	}
	return Collection{Kind: kind, Groups: groups}
}

// Len returns the number of live groups.
func (c Collection) Len() int { return len(c.Groups) }

// Enabled reports whether the collection holds any group.
func (c Collection) Enabled() bool { return len(c.Groups) > 0 }

// Get returns the group with the given id.
func (c Collection) Get(id int) (Group, bool) {
	if i := c.indexOf(id); i >= 0 {
		return c.Groups[i], true
	}
	return Group{}, false
}

// Append adds one empty group at the end.
func (c Collection) Append() Collection {
	groups := make([]Group, len(c.Groups), len(c.Groups)+1)
	copy(groups, c.Groups)
	groups = append(groups, Group{})
	return Collection{Kind: c.Kind, Groups: renumber(groups)}
}

// Removal is the outcome of Remove.
type Removal struct {
	Collection Collection `json:"collection"`
	// Enabled is false once the collection became empty; callers must turn
	// their "has groups" toggle off.
	Enabled bool `json:"enabled"`
	// Removed is the id that was dropped, 0 when nothing was removed.
	Removed int `json:"removed"`
	// Renamed maps the old id of every group that moved to its new id.
	Renamed map[int]int `json:"renamed"`
}

// Remove drops the group with the given id and renumbers the rest. Unknown
// ids are a no-op.
func (c Collection) Remove(id int) Removal {
	idx := c.indexOf(id)
	if idx < 0 {
		return Removal{Collection: c.copy(), Enabled: c.Enabled(), Renamed: map[int]int{}}
	}
	if len(c.Groups) == 1 {
		return Removal{Collection: New(c.Kind), Enabled: false, Removed: id, Renamed: map[int]int{}}
	}

	remaining := make([]Group, 0, len(c.Groups)-1)
	remaining = append(remaining, c.Groups[:idx]...)
	remaining = append(remaining, c.Groups[idx+1:]...)

	renamed := make(map[int]int)
	for i := range remaining {
		next := i + 1
		if remaining[i].ID != next {
			renamed[remaining[i].ID] = next
			remaining[i].ID = next
		}
	}
	return Removal{
		Collection: Collection{Kind: c.Kind, Groups: remaining},
		Enabled:    true,
		Removed:    id,
		Renamed:    renamed,
	}
}

// MigrateKeys re-keys anything indexed by group id after a removal: the
// removed id is dropped and moved ids follow their group. Keys that name no
// group of the resulting collection are dropped, so the result only holds
// ids 1..N.
func MigrateKeys[V any](keyed map[int]V, r Removal) map[int]V {
	n := r.Collection.Len()
	out := make(map[int]V, len(keyed))
	for id, v := range keyed {
		if r.Removed != 0 && id == r.Removed {
			continue
		}
		if next, ok := r.Renamed[id]; ok {
			id = next
		}
		if id < 1 || id > n {
			continue
		}
		out[id] = v
	}
	return out
}

// Rename sets the name slot of a group. Unknown ids are a no-op.
func (c Collection) Rename(id int, name string) Collection {
	return c.update(id, func(g *Group) { g.Name = name })
}

// SetOptions sets the comma-separated options slot of a group. Unknown ids
// are a no-op.
func (c Collection) SetOptions(id int, options string) Collection {
	return c.update(id, func(g *Group) { g.Options = options })
}

// Toggle switches the collection on or off. Turning it off discards every
// group; turning it on from empty yields one empty group.
func (c Collection) Toggle(enabled bool) Collection {
	if !enabled {
		return New(c.Kind)
	}
	if len(c.Groups) == 0 {
		return New(c.Kind).Append()
	}
	return c.copy()
}

func (c Collection) update(id int, fn func(*Group)) Collection {
	out := c.copy()
	if i := out.indexOf(id); i >= 0 {
		fn(&out.Groups[i])
	}
	return out
}

func (c Collection) copy() Collection {
	groups := make([]Group, len(c.Groups))
	copy(groups, c.Groups)
	return Collection{Kind: c.Kind, Groups: groups}
}

func (c Collection) indexOf(id int) int {
	for i, g := range c.Groups {
		if g.ID == id {
			return i
		}
	}
	return -1
}

func renumber(groups []Group) []Group {
	for i := range groups {
		groups[i].ID = i + 1
	}
	return groups
}
