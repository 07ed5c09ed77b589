package fieldgroup

import (
	"fmt"
	"sort"
	"strings"
)

// Status is the duplicate-name state of one group.
type Status struct {
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message,omitempty"`
}

// Validation maps every group id to its status.
type Validation map[int]Status

// HasDuplicates reports whether any group is flagged.
func (v Validation) HasDuplicates() bool {
	for _, s := range v {
		if s.Duplicate {
			return true
		}
	}
	return false
}

// Duplicates returns the flagged ids in ascending order.
func (v Validation) Duplicates() []int {
	var ids []int
	for id, s := range v {
		if s.Duplicate {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// DuplicateMessage is the message attached to a group whose name collides.
func DuplicateMessage(name string, kind Kind) string {
	return fmt.Sprintf("%s has already been selected. Please select another %s", name, kind.Label())
}

// Validate flags every group whose trimmed name occurs more than once,
// ignoring case. Blank names are never flagged. The result is recomputed
// from scratch so flags clear as soon as a collision is edited away.
func (c Collection) Validate() Validation {
	counts := make(map[string]int, len(c.Groups))
	for _, g := range c.Groups {
		if key := nameKey(g.Name); key != "" {
			counts[key]++
		}
	}

	out := make(Validation, len(c.Groups))
	for _, g := range c.Groups {
		key := nameKey(g.Name)
		if key != "" && counts[key] > 1 {
			out[g.ID] = Status{Duplicate: true, Message: DuplicateMessage(strings.TrimSpace(g.Name), c.Kind)}
			continue
		}
		out[g.ID] = Status{}
	}
	return out
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
