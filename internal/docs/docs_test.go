package docs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	e, ok := Lookup("transition")

	require.True(t, ok)
	assert.Equal(t, Keyword, e.Kind)
	assert.Contains(t, e.Doc, "end")
}

func TestLookupIsExact(t *testing.T) {
	_, ok := Lookup("Transition")
	assert.False(t, ok)

	_, ok = Lookup("uint32")
	assert.False(t, ok)

	e, ok := Lookup("Uint32")
	require.True(t, ok)
	assert.Equal(t, Type, e.Kind)
}

func TestEntriesAreUniqueAndGrouped(t *testing.T) {
	seen := map[string]bool{}
	order := map[Kind]int{Keyword: 0, Type: 1, Operation: 2}
	last := 0

	for _, e := range Entries() {
		assert.False(t, seen[e.Label], "duplicate entry %q", e.Label)
		seen[e.Label] = true

		assert.NotEmpty(t, e.Doc, "entry %q has no documentation", e.Label)
		assert.GreaterOrEqual(t, order[e.Kind], last, "entry %q is out of group order", e.Label)
		last = order[e.Kind]
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	first := Entries()
	first[0].Label = "changed"

	assert.NotEqual(t, "changed", Entries()[0].Label)
}
