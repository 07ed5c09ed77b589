package gridfilter

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownColumn    = errors.New("unknown filter column")
	ErrColumnType       = errors.New("filter type does not match column")
	ErrInvalidCondition = errors.New("invalid filter condition")
)

// IsInvalid reports whether err stems from a malformed or unsupported model,
// as opposed to a failure loading rows.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrUnknownColumn) || errors.Is(err, ErrColumnType) || errors.Is(err, ErrInvalidCondition)
}

// FilterType is the AG Grid filterType of a condition.
type FilterType string

const (
	NumberFilter FilterType = "number"
	TextFilter   FilterType = "text"
)

// Condition is one column entry of an AG Grid filter model.
type Condition struct {
	FilterType FilterType `json:"filterType"`
	Type       Mode       `json:"type"`
	Filter     any        `json:"filter"`
	FilterTo   any        `json:"filterTo,omitempty"`
}

// Model maps column ids to conditions; every condition must pass.
type Model map[string]Condition

// ParseModel decodes the JSON filter model sent by the grid. An empty string
// yields an empty model.
func ParseModel(raw string) (Model, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Model{}, nil
	}
	var m Model
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCondition, err)
	}
	return m, nil
}

// Column extracts the values of one grid column from a row. Exactly one of
// Numbers or Texts is set.
type Column[R any] struct {
	Numbers func(R) []float64
	Texts   func(R) []string
}

// NumberColumn declares a numeric column.
func NumberColumn[R any](fn func(R) []float64) Column[R] {
	return Column[R]{Numbers: fn}
}

// TextColumn declares a text column.
func TextColumn[R any](fn func(R) []string) Column[R] {
	return Column[R]{Texts: fn}
}

// One wraps a single-valued cell.
func One[T any](v T) []T { return []T{v} }

// Columns is the set of filterable columns of a grid.
type Columns[R any] map[string]Column[R]

// Apply keeps the rows that pass every condition of the model.
func Apply[R any](rows []R, model Model, columns Columns[R]) ([]R, error) {
	if len(model) == 0 {
		return rows, nil
	}

	preds := make([]func(R) bool, 0, len(model))
	for id, cond := range model {
		column, ok := columns[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, id)
		}
		pred, err := column.predicate(cond)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", id, err)
		}
		preds = append(preds, pred)
	}

	out := make([]R, 0, len(rows))
rows:
	for _, row := range rows {
		for _, pred := range preds {
			if !pred(row) {
				continue rows
			}
		}
		out = append(out, row)
	}
	return out, nil
}

var supportedModes = map[FilterType]map[Mode]bool{
	NumberFilter: {Equals: true, GreaterThan: true, LessThan: true, Between: true},
	TextFilter:   {Equals: true, Contains: true, DoesNotContain: true, BeginsWith: true, EndsWith: true},
}

func (c Column[R]) predicate(cond Condition) (func(R) bool, error) {
	if modes, ok := supportedModes[cond.FilterType]; ok && !modes[cond.Type.Canonical()] {
		if cond.Type == "" {
			return nil, fmt.Errorf("%w: missing type (combined conditions are not supported)", ErrInvalidCondition)
		}
		return nil, fmt.Errorf("%w: unsupported %s mode %q", ErrInvalidCondition, cond.FilterType, cond.Type)
	}
	switch cond.FilterType {
	case NumberFilter:
		if c.Numbers == nil {
			return nil, ErrColumnType
		}
		spec, err := cond.numberSpec()
		if err != nil {
			return nil, err
		}
		return func(row R) bool { return PassesNumber(c.Numbers(row), spec) }, nil
	case TextFilter:
		if c.Texts == nil {
			return nil, ErrColumnType
		}
		spec := TextSpec{Mode: cond.Type, Value: textValue(cond.Filter)}
		return func(row R) bool { return PassesText(c.Texts(row), spec) }, nil
	default:
		return nil, fmt.Errorf("%w: filterType %q", ErrInvalidCondition, cond.FilterType)
	}
}

func (cond Condition) numberSpec() (NumberSpec, error) {
	value, ok := numberValue(cond.Filter)
	if !ok {
		return NumberSpec{}, fmt.Errorf("%w: filter %v is not a number", ErrInvalidCondition, cond.Filter)
	}
	spec := NumberSpec{Mode: cond.Type, Value: value}
	if cond.FilterTo != nil {
		to, ok := numberValue(cond.FilterTo)
		if !ok {
			return NumberSpec{}, fmt.Errorf("%w: filterTo %v is not a number", ErrInvalidCondition, cond.FilterTo)
		}
		spec.SecondValue = &to
	}
	return spec, nil
}

func numberValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func textValue(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
