package mergefield

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog(t *testing.T) {
	fields := All()
	require.NotEmpty(t, fields)

	seen := map[string]bool{}
	for _, f := range fields {
		assert.NotEmpty(t, f.Token)
		assert.NotEmpty(t, f.Label)
		assert.NotEmpty(t, f.Category)
		assert.False(t, seen[f.Token], "duplicate token %s", f.Token)
		seen[f.Token] = true
	}
}

func TestLookup(t *testing.T) {
	f, ok := Lookup("client_name")
	require.True(t, ok)
	assert.Equal(t, "{{client_name}}", f.Placeholder())
	assert.Equal(t, CategoryClient, f.Category)

	_, ok = Lookup("nonexistent")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	for _, category := range Categories() {
		fields := ByCategory(category)
		assert.NotEmpty(t, fields, "category %s has no fields", category)
		for _, f := range fields {
			assert.Equal(t, category, f.Category)
		}
	}
}
