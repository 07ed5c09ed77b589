package validation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errors collects messages per request field.
type Errors map[string][]string

// Add appends msg to field.
func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Merge copies every message of other into e.
func (e Errors) Merge(other map[string][]string) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Err returns nil when nothing was collected.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &Error{Fields: e}
}

// Error is returned by services when input fails domain checks.
type Error struct {
	Fields Errors
}

func (e *Error) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// Field builds a single-field error.
func Field(field, msg string) error {
	return &Error{Fields: Errors{field: {msg}}}
}

// As extracts a validation error from err's chain.
func As(err error) (*Error, bool) {
	var v *Error
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
