package fieldgroup_test

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/server/internal/fieldgroup"
)

func TestSerializeSplitsAndTrimsOptions(t *testing.T) {
	c := fieldgroup.New(fieldgroup.KindVariant).
		Append().Rename(1, " Color ").SetOptions(1, "Red, Blue ,Green").
		Append().Rename(2, "Size").SetOptions(2, "S,,M")

	got := c.Serialize()

	want := fieldgroup.Payload{
		Kind:  fieldgroup.KindVariant,
		Count: 2,
		Groups: []fieldgroup.Submitted{
			{Name: "Color", Options: []string{"Red", "Blue", "Green"}},
			{Name: "Size", Options: []string{"S", "", "M"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeEmptyOptionsKeepsOneBlankSegment(t *testing.T) {
	got := fieldgroup.New(fieldgroup.KindVariant).Append().Serialize()
	assert.Equal(t, []string{""}, got.Groups[0].Options)
}

func TestSerializeRoundTripsSeeds(t *testing.T) {
	seeds := []fieldgroup.Seed{
		{Name: "Color", Options: []string{"Red", "Blue"}},
		{Name: "Size", Options: []string{"S"}},
		{Name: "Material", Options: []string{"Cotton", "Wool", "Linen"}},
	}

	got := fieldgroup.Initialize(fieldgroup.KindVariant, seeds).Serialize().Seeds()

	if diff := cmp.Diff(seeds, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRoundTrip(t *testing.T) {
	c := fieldgroup.Initialize(fieldgroup.KindAttribute, []fieldgroup.Seed{
		{Name: "Color", Options: []string{"Red", "Blue"}},
		{Name: "Size", Options: []string{"S", "M"}},
	})

	values := fieldgroup.EncodeForm(c.Serialize())

	assert.Equal(t, "2", values.Get("attribute-count"))
	assert.Equal(t, "Size", values.Get("name-2"))
	assert.Equal(t, "Red,Blue", values.Get("opt-1"))

	decoded, err := fieldgroup.DecodeForm(fieldgroup.KindAttribute, values)
	require.NoError(t, err)
	if diff := cmp.Diff(c, decoded); diff != "" {
		t.Fatalf("decoded collection mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeFormMissingSlotsReadBlank(t *testing.T) {
	values := url.Values{
		"variant-count": {"2"},
		"name-1":        {"Color"},
		"opt-2":         {"S,M"},
	}

	c, err := fieldgroup.DecodeForm(fieldgroup.KindVariant, values)
	require.NoError(t, err)

	assert.Equal(t, []fieldgroup.Group{
		{ID: 1, Name: "Color"},
		{ID: 2, Options: "S,M"},
	}, c.Groups)
}

func TestDecodeFormRejectsBadCounts(t *testing.T) {
	cases := map[string]struct {
		values url.Values
		want   error
	}{
		"missing":  {values: url.Values{}, want: fieldgroup.ErrMissingCount},
		"text":     {values: url.Values{"variant-count": {"two"}}, want: fieldgroup.ErrInvalidCount},
		"negative": {values: url.Values{"variant-count": {"-1"}}, want: fieldgroup.ErrInvalidCount},
		"too many": {values: url.Values{"variant-count": {"1000"}}, want: fieldgroup.ErrTooManyGroups},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := fieldgroup.DecodeForm(fieldgroup.KindVariant, tc.values)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeFormZeroCount(t *testing.T) {
	c, err := fieldgroup.DecodeForm(fieldgroup.KindVariant, url.Values{"variant-count": {"0"}})
	require.NoError(t, err)
	assert.False(t, c.Enabled())
}
