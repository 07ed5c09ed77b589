package fieldgroup

import "strings"

const (
	MsgNameRequired    = "name is required"
	MsgOptionsRequired = "options are required"
	MsgBlankOption     = "options must not contain blank values"
)

// FieldErrors is the submit-time check of a collection: every group needs a
// name and at least one option, option lists may not contain blank entries,
// and names must be unique. Keys use FieldKey, e.g. "variants.2.name".
// An empty map means the collection may be persisted.
func (c Collection) FieldErrors() map[string][]string {
	out := make(map[string][]string)
	validation := c.Validate()

	for _, g := range c.Groups {
		nameKey := c.Kind.FieldKey(g.ID, "name")
		optionsKey := c.Kind.FieldKey(g.ID, "options")

		if strings.TrimSpace(g.Name) == "" {
			out[nameKey] = append(out[nameKey], MsgNameRequired)
		} else if st := validation[g.ID]; st.Duplicate {
			out[nameKey] = append(out[nameKey], st.Message)
		}

		if strings.TrimSpace(g.Options) == "" {
			out[optionsKey] = append(out[optionsKey], MsgOptionsRequired)
			continue
		}
		for _, opt := range SplitOptions(g.Options) {
			if opt == "" {
				out[optionsKey] = append(out[optionsKey], MsgBlankOption)
				break
			}
		}
	}
	return out
}
