// Package gridfilter evaluates AG Grid style column filters against cells
// that hold several values, such as the item names of an order row.
//
// A row passes when at least one of its values satisfies the condition.
// doesNotContain is the exception: it passes only when no value contains
// the text, so an empty cell passes it and fails every other mode.
package gridfilter

import "strings"

// Mode names a filter condition.
type Mode string

const (
	Equals         Mode = "equals"
	GreaterThan    Mode = "greaterThan"
	LessThan       Mode = "lessThan"
	Between        Mode = "between"
	Contains       Mode = "contains"
	DoesNotContain Mode = "doesNotContain"
	BeginsWith     Mode = "beginsWith"
	EndsWith       Mode = "endsWith"
)

var aliases = map[Mode]Mode{
	"inRange":     Between,
	"notContains": DoesNotContain,
	"startsWith":  BeginsWith,
}

// Canonical maps AG Grid spellings onto the package's modes.
func (m Mode) Canonical() Mode {
	if alias, ok := aliases[m]; ok {
		return alias
	}
	return m
}

// NumberSpec is a numeric condition. SecondValue is only read by Between.
type NumberSpec struct {
	Mode        Mode     `json:"type"`
	Value       float64  `json:"filter"`
	SecondValue *float64 `json:"filterTo,omitempty"`
}

// TextSpec is a text condition; comparisons ignore case.
type TextSpec struct {
	Mode  Mode   `json:"type"`
	Value string `json:"filter"`
}

// PassesNumber reports whether any cell satisfies spec. Between is
// inclusive and tolerates reversed bounds; without a second value it never
// passes. Unknown modes never pass.
func PassesNumber(cells []float64, spec NumberSpec) bool {
	match, ok := numberMatcher(spec)
	if !ok {
		return false
	}
	for _, v := range cells {
		if match(v) {
			return true
		}
	}
	return false
}

func numberMatcher(spec NumberSpec) (func(float64) bool, bool) {
	switch spec.Mode.Canonical() {
	case Equals:
		return func(v float64) bool { return v == spec.Value }, true
	case GreaterThan:
		return func(v float64) bool { return v > spec.Value }, true
	case LessThan:
		return func(v float64) bool { return v < spec.Value }, true
	case Between:
		if spec.SecondValue == nil {
			return nil, false
		}
		lo, hi := spec.Value, *spec.SecondValue
		if lo > hi {
			lo, hi = hi, lo
		}
		return func(v float64) bool { return v >= lo && v <= hi }, true
	default:
		return nil, false
	}
}

// PassesText reports whether the cells satisfy spec.
func PassesText(cells []string, spec TextSpec) bool {
	needle := strings.ToLower(spec.Value)
	mode := spec.Mode.Canonical()

	if mode == DoesNotContain {
		for _, v := range cells {
			if strings.Contains(strings.ToLower(v), needle) {
				return false
			}
		}
		return true
	}

	var match func(string) bool
	switch mode {
	case Contains:
		match = func(v string) bool { return strings.Contains(v, needle) }
	case Equals:
		match = func(v string) bool { return v == needle }
	case BeginsWith:
		match = func(v string) bool { return strings.HasPrefix(v, needle) }
	case EndsWith:
		match = func(v string) bool { return strings.HasSuffix(v, needle) }
	default:
		return false
	}
	for _, v := range cells {
		if match(strings.ToLower(v)) {
			return true
		}
	}
	return false
}
