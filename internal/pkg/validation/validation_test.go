package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	e := Errors{}
	assert.NoError(t, e.Err())

	e.Add("name", "name is required")
	e.Merge(map[string][]string{"variants.1.name": {"dup"}, "name": {"too long"}})

	err := fmt.Errorf("create item: %w", e.Err())
	v, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, []string{"name is required", "too long"}, v.Fields["name"])
	assert.Equal(t, "validation failed: name, variants.1.name", v.Error())

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
}
