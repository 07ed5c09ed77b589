package gridfilter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/server/internal/gridfilter"
)

type orderRow struct {
	ID     string
	Items  []string
	Prices []float64
}

var orderColumns = gridfilter.Columns[orderRow]{
	"itemNames": gridfilter.TextColumn(func(r orderRow) []string { return r.Items }),
	"prices":    gridfilter.NumberColumn(func(r orderRow) []float64 { return r.Prices }),
}

func rowIDs(rows []orderRow) []string {
	out := []string{}
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyCombinesColumnsWithAnd(t *testing.T) {
	rows := []orderRow{
		{ID: "a", Items: []string{"Mug", "Shirt"}, Prices: []float64{5, 12}},
		{ID: "b", Items: []string{"Shirt"}, Prices: []float64{3}},
		{ID: "c", Items: []string{"Cap"}, Prices: []float64{20}},
		{ID: "d"},
	}

	model, err := gridfilter.ParseModel(`{
		"itemNames": {"filterType": "text", "type": "contains", "filter": "shirt"},
		"prices": {"filterType": "number", "type": "greaterThan", "filter": 10}
	}`)
	require.NoError(t, err)

	got, err := gridfilter.Apply(rows, model, orderColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rowIDs(got))
}

func TestApplyNotContainsKeepsEmptyRows(t *testing.T) {
	rows := []orderRow{
		{ID: "a", Items: []string{"Mug"}},
		{ID: "b", Items: []string{"Shirt"}},
		{ID: "c"},
	}
	model, err := gridfilter.ParseModel(`{"itemNames":{"filterType":"text","type":"notContains","filter":"mug"}}`)
	require.NoError(t, err)

	got, err := gridfilter.Apply(rows, model, orderColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, rowIDs(got))
}

func TestApplyInRangeWithStringBounds(t *testing.T) {
	rows := []orderRow{
		{ID: "a", Prices: []float64{5, 12}},
		{ID: "b", Prices: []float64{1, 2}},
	}
	model, err := gridfilter.ParseModel(`{"prices":{"filterType":"number","type":"inRange","filter":"6","filterTo":15}}`)
	require.NoError(t, err)

	got, err := gridfilter.Apply(rows, model, orderColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rowIDs(got))
}

func TestApplyEmptyModelReturnsRows(t *testing.T) {
	rows := []orderRow{{ID: "a"}}
	model, err := gridfilter.ParseModel("  ")
	require.NoError(t, err)

	got, err := gridfilter.Apply(rows, model, orderColumns)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestApplyRejectsBadModels(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want error
	}{
		"unknown column":     {`{"colour":{"filterType":"text","type":"contains","filter":"x"}}`, gridfilter.ErrUnknownColumn},
		"type mismatch":      {`{"prices":{"filterType":"text","type":"contains","filter":"x"}}`, gridfilter.ErrColumnType},
		"bad number":         {`{"prices":{"filterType":"number","type":"equals","filter":"ten"}}`, gridfilter.ErrInvalidCondition},
		"bad filterType":     {`{"prices":{"filterType":"date","type":"equals","filter":"2024-01-01"}}`, gridfilter.ErrInvalidCondition},
		"unsupported mode":   {`{"itemNames":{"filterType":"text","type":"notEqual","filter":"mug"}}`, gridfilter.ErrInvalidCondition},
		"number text mode":   {`{"prices":{"filterType":"number","type":"contains","filter":3}}`, gridfilter.ErrInvalidCondition},
		"combined condition": {`{"itemNames":{"filterType":"text","operator":"OR","conditions":[{"filterType":"text","type":"contains","filter":"mug"}]}}`, gridfilter.ErrInvalidCondition},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			model, err := gridfilter.ParseModel(tc.raw)
			require.NoError(t, err)
			_, err = gridfilter.Apply([]orderRow{{ID: "a"}}, model, orderColumns)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := gridfilter.ParseModel("{not json")
	assert.ErrorIs(t, err, gridfilter.ErrInvalidCondition)
}

func TestIsInvalid(t *testing.T) {
	_, err := gridfilter.Apply([]orderRow{{ID: "a"}}, gridfilter.Model{"nope": {}}, orderColumns)
	assert.True(t, gridfilter.IsInvalid(err))
	assert.False(t, gridfilter.IsInvalid(assert.AnError))
	assert.Equal(t, []string{"x"}, gridfilter.One("x"))
}
