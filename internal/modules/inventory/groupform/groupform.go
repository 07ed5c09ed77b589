// Package groupform turns submitted variants or attributes into persisted
// option groups. Items and categories accept the same two request shapes: a
// JSON array of {name, options} or the legacy form fields name-N, opt-N and
// <kind>-count.
package groupform

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stockdesk/server/internal/fieldgroup"
	"github.com/stockdesk/server/internal/models"
	"github.com/stockdesk/server/internal/pkg/sanitize"
	"github.com/stockdesk/server/internal/pkg/validation"
)

const maxFormMemory = 1 << 20

// Input is a submitted collection plus its on/off toggle.
type Input struct {
	Groups fieldgroup.Collection
	// Enabled mirrors the has_variants / has_attributes checkbox.
	Enabled bool
	// CountErr is set when the legacy count field was unusable.
	CountErr error
}

// FromJSON builds an Input from decoded JSON groups. A nil enabled flag means
// "enabled when any group was sent".
func FromJSON(kind fieldgroup.Kind, groups []models.OptionGroup, enabled *bool) Input {
	c := fieldgroup.Initialize(kind, models.Seeds(groups))
	on := c.Enabled()
	if enabled != nil {
		on = *enabled
	}
	return Input{Groups: c, Enabled: on}
}

// FromForm builds an Input from legacy form values. toggleField names the
// checkbox; when it is absent the collection is enabled if the count is > 0.
func FromForm(kind fieldgroup.Kind, values url.Values, toggleField string) Input {
	c, err := fieldgroup.DecodeForm(kind, values)

	_, hasToggle := values[toggleField]
	enabled := err == nil && c.Enabled()
	if hasToggle {
		enabled = FormBool(values.Get(toggleField))
	}

	if err != nil {
		switched := hasToggle && !enabled
		absent := !hasToggle && errors.Is(err, fieldgroup.ErrMissingCount)
		if switched || absent {
			return Input{Groups: fieldgroup.New(kind)}
		}
		return Input{Groups: fieldgroup.New(kind), Enabled: true, CountErr: err}
	}
	return Input{Groups: c, Enabled: enabled}
}

// Resolve sanitizes, applies the toggle and checks the collection. Problems
// are added to errs; the returned groups are only meaningful when errs stays
// empty.
func Resolve(kind fieldgroup.Kind, in Input, errs validation.Errors) []models.OptionGroup {
	if in.CountErr != nil {
		errs.Add(kind.CountField(), in.CountErr.Error())
		return nil
	}

	if in.Groups.Len() > fieldgroup.MaxGroups {
		errs.Add(kind.Plural(), fieldgroup.ErrTooManyGroups.Error())
		return nil
	}

	seeds := make([]fieldgroup.Seed, 0, in.Groups.Len())
	for _, g := range in.Groups.Groups {
		seeds = append(seeds, fieldgroup.Seed{
			Name:    sanitize.Text(g.Name),
			Options: sanitize.Texts(fieldgroup.SplitOptions(g.Options)),
		})
	}
	c := fieldgroup.Initialize(kind, seeds).Toggle(in.Enabled)
	errs.Merge(c.FieldErrors())

	payload := c.Serialize()
	out := make([]models.OptionGroup, 0, payload.Count)
	for _, g := range payload.Groups {
		out = append(out, models.OptionGroup{Name: g.Name, Options: models.OptionList(g.Options)})
	}
	return out
}

// IsForm reports whether the request carries form fields rather than JSON.
func IsForm(r *http.Request) bool {
	ct, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

// FormValues parses a form request body.
func FormValues(c *gin.Context) (url.Values, error) {
	if err := c.Request.ParseMultipartForm(maxFormMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	return c.Request.PostForm, nil
}

// FormBool reads a checkbox or boolean form value.
func FormBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "yes", "1", "true":
		return true
	}
	return false
}

// FormInt reads an integer form value, recording a message under field when
// it is not a number. Blank values read as 0.
func FormInt(values url.Values, field string, errs validation.Errors) int {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(field, field+" must be a whole number")
	}
	return n
}

// FormFloat is FormInt for decimal values.
func FormFloat(values url.Values, field string, errs validation.Errors) float64 {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		errs.Add(field, field+" must be a number")
	}
	return n
}

// FormOptionalID returns nil for a blank id field.
func FormOptionalID(values url.Values, field string) *string {
	v := strings.TrimSpace(values.Get(field))
	if v == "" {
		return nil
	}
	return &v
}
