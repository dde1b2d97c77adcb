// Package testhelpers provides testing utilities for slotting: record
// fixtures, problem builders, a scene system and a shared CLI binary.
package testhelpers

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/model"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectPairs asserts that pairs hold exactly the expected item to shelf
// placements, in any order.
func ExpectPairs(t *testing.T, pairs []model.Pair, expected map[string]string) {
	t.Helper()

	got := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		_, dup := got[pair.Item]
		require.False(t, dup, "item %s assigned twice", pair.Item)
		got[pair.Item] = pair.Shelf
	}
	require.Equal(t, expected, got)
}

// ExpectItems asserts the set of items placed by pairs
func ExpectItems(t *testing.T, pairs []model.Pair, expected ...string) {
	t.Helper()

	items := make([]string, 0, len(pairs))
	for _, pair := range pairs {
		items = append(items, pair.Item)
	}
	sort.Strings(items)
	sort.Strings(expected)
	require.Equal(t, expected, items)
}
