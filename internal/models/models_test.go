package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionListDecodesArrayAndString(t *testing.T) {
	var groups []OptionGroup
	raw := `[{"name":"Size","options":["S","M"]},{"name":"Colour","options":"Red, Blue,"},{"name":"Fit","options":null}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &groups))

	assert.Equal(t, OptionList{"S", "M"}, groups[0].Options)
	assert.Equal(t, OptionList{"Red", "Blue", ""}, groups[1].Options)
	assert.Nil(t, groups[2].Options)

	var bad OptionList
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestSeedsAndFlatteners(t *testing.T) {
	groups := []OptionGroup{{Name: "Size", Options: OptionList{"S", "M"}}, {Name: "Colour", Options: OptionList{"Red"}}}

	seeds := Seeds(groups)
	require.Len(t, seeds, 2)
	assert.Equal(t, []string{"S", "M"}, seeds[0].Options)
	assert.Equal(t, []string{"Size", "Colour"}, GroupNames(groups))
	assert.Equal(t, []string{"S", "M", "Red"}, GroupOptions(groups))
}

func TestOrderCells(t *testing.T) {
	o := OrderModel{Lines: []OrderLine{{Name: "Mug", Quantity: 2, Price: 4.5}, {Name: "Cap", Quantity: 1, Price: 10}}}
	assert.Equal(t, []string{"Mug", "Cap"}, o.ItemNames())
	assert.Equal(t, []float64{2, 1}, o.Quantities())
	assert.Equal(t, []float64{4.5, 10}, o.Prices())
	assert.InDelta(t, 19.0, LineTotal(o.Lines), 1e-9)
	assert.True(t, OrderShipped.Valid())
	assert.False(t, OrderStatus("lost").Valid())
}
