package fieldgroup_test

import (
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdesk/server/internal/fieldgroup"
)

func ids(c fieldgroup.Collection) []int {
	out := make([]int, 0, len(c.Groups))
	for _, g := range c.Groups {
		out = append(out, g.ID)
	}
	return out
}

func dense(n int) []int {
	out := make([]int, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, i)
	}
	return out
}

func TestInitializeAssignsDenseIDs(t *testing.T) {
	c := fieldgroup.Initialize(fieldgroup.KindVariant, []fieldgroup.Seed{
		{Name: "Color", Options: []string{"Red", "Blue"}},
		{Name: "Size", Options: []string{"S", "M", "L"}},
	})

	want := []fieldgroup.Group{
		{ID: 1, Name: "Color", Options: "Red,Blue"},
		{ID: 2, Name: "Size", Options: "S,M,L"},
	}
	if diff := cmp.Diff(want, c.Groups); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, fieldgroup.Initialize(fieldgroup.KindVariant, nil).Groups)
}

func TestAppendAddsEmptyGroupAtEnd(t *testing.T) {
	c := fieldgroup.New(fieldgroup.KindAttribute).Append().Append()
	require.Equal(t, []int{1, 2}, ids(c))
	assert.Equal(t, fieldgroup.Group{ID: 2}, c.Groups[1])
}

func TestOperationsDoNotMutateReceiver(t *testing.T) {
	base := fieldgroup.Initialize(fieldgroup.KindVariant, []fieldgroup.Seed{
		{Name: "Color"}, {Name: "Size"}, {Name: "Material"},
	})
	before := append([]fieldgroup.Group(nil), base.Groups...)

	_ = base.Remove(1)
	_ = base.Rename(2, "Fit")
	_ = base.SetOptions(3, "Wool")
	_ = base.Append()

	if diff := cmp.Diff(before, base.Groups); diff != "" {
		t.Fatalf("receiver mutated (-want +got):\n%s", diff)
	}
}

func TestRemoveRenumbersAndReportsRenames(t *testing.T) {
	c := fieldgroup.Initialize(fieldgroup.KindVariant, []fieldgroup.Seed{
		{Name: "Color"}, {Name: "Size"}, {Name: "Material"}, {Name: "Fit"},
	})

	r := c.Remove(2)

	assert.True(t, r.Enabled)
	assert.Equal(t, 2, r.Removed)
	assert.Equal(t, []int{1, 2, 3}, ids(r.Collection))
	assert.Equal(t, map[int]int{3: 2, 4: 3}, r.Renamed)

	names := []string{}
	for _, g := range r.Collection.Groups {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Color", "Material", "Fit"}, names)
}

func TestRemoveSoleGroupDisables(t *testing.T) {
	c := fieldgroup.New(fieldgroup.KindVariant).Append()

	r := c.Remove(1)

	assert.False(t, r.Enabled)
	assert.Empty(t, r.Collection.Groups)
	assert.Equal(t, 1, r.Removed)
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	c := fieldgroup.New(fieldgroup.KindVariant).Append().Append()

	r := c.Remove(7)

	assert.True(t, r.Enabled)
	assert.Zero(t, r.Removed)
	assert.Empty(t, r.Renamed)
	assert.Equal(t, c.Groups, r.Collection.Groups)

	empty := fieldgroup.New(fieldgroup.KindVariant).Remove(1)
	assert.False(t, empty.Enabled)
}

func TestIDsStayDenseUnderRandomMutations(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	c := fieldgroup.New(fieldgroup.KindVariant)

	for step := 0; step < 500; step++ {
		if c.Len() == 0 || rng.IntN(3) > 0 {
			c = c.Append()
		} else {
			r := c.Remove(rng.IntN(c.Len()+1) + 1)
			c = r.Collection
			if c.Len() == 0 {
				require.False(t, r.Enabled)
			}
		}
		require.Equal(t, dense(c.Len()), ids(c), "step %d", step)
	}
}

func TestMigrateKeysFollowsRenumbering(t *testing.T) {
	c := fieldgroup.Initialize(fieldgroup.KindVariant, []fieldgroup.Seed{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	})
	errs := map[int]string{1: "first", 2: "second", 3: "third"}

	r := c.Remove(2)
	got := fieldgroup.MigrateKeys(errs, r)

	assert.Equal(t, map[int]string{1: "first", 2: "third"}, got)

	last := r.Collection.Remove(2)
	assert.Equal(t, map[int]string{1: "first"}, fieldgroup.MigrateKeys(got, last))

	sole := last.Collection.Remove(1)
	assert.Empty(t, fieldgroup.MigrateKeys(map[int]string{1: "first"}, sole))
}

func TestMigrateKeysDropsIDsOutsideCollection(t *testing.T) {
	c := fieldgroup.Initialize(fieldgroup.KindVariant, []fieldgroup.Seed{
		{Name: "a"}, {Name: "b"}, {Name: "c"},
	})
	stale := map[int]string{0: "zero", 1: "first", 3: "third", 5: "stale"}

	got := fieldgroup.MigrateKeys(stale, c.Remove(1))
	assert.Equal(t, map[int]string{2: "third"}, got)

	unknown := c.Remove(9)
	assert.Equal(t, map[int]string{1: "first", 3: "third"}, fieldgroup.MigrateKeys(stale, unknown))
}

func TestRenameAndSetOptions(t *testing.T) {
	c := fieldgroup.New(fieldgroup.KindAttribute).Append()

	c = c.Rename(1, "Color").SetOptions(1, "Red, Blue").Rename(9, "ignored")

	assert.Equal(t, []fieldgroup.Group{{ID: 1, Name: "Color", Options: "Red, Blue"}}, c.Groups)
}

func TestToggle(t *testing.T) {
	empty := fieldgroup.New(fieldgroup.KindVariant)

	on := empty.Toggle(true)
	assert.Equal(t, []fieldgroup.Group{{ID: 1}}, on.Groups)

	filled := on.Rename(1, "Color").Append()
	assert.Equal(t, filled.Groups, filled.Toggle(true).Groups)

	off := filled.Toggle(false)
	assert.Empty(t, off.Groups)
	assert.False(t, off.Enabled())
}

func TestParseKind(t *testing.T) {
	k, err := fieldgroup.ParseKind(" Variant ")
	require.NoError(t, err)
	assert.Equal(t, fieldgroup.KindVariant, k)

	_, err = fieldgroup.ParseKind("colour")
	assert.Error(t, err)

	assert.Equal(t, "attributes.3.options", fieldgroup.KindAttribute.FieldKey(3, "options"))
}
