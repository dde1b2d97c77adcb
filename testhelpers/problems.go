package testhelpers

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/model"
)

// ItemSpec describes a test item with every field present
type ItemSpec struct {
	ID     string
	Volume float64
	Par    int
	Freq   float64
}

// ShelfSpec describes a test shelf
type ShelfSpec struct {
	ID       string
	Distance float64
	Capacity float64
}

// ItemInputs converts specs to model inputs
func ItemInputs(specs ...ItemSpec) []model.ItemInput {
	out := make([]model.ItemInput, len(specs))
	for i, in := range specs {
		volume, par, freq := in.Volume, in.Par, in.Freq
		out[i] = model.ItemInput{ID: in.ID, Volume: &volume, Par: &par, Frequency: &freq}
	}
	return out
}

// ShelfInputs converts specs to model inputs
func ShelfInputs(specs ...ShelfSpec) []model.ShelfInput {
	out := make([]model.ShelfInput, len(specs))
	for i, in := range specs {
		out[i] = model.ShelfInput{ID: in.ID, Distance: in.Distance, Capacity: in.Capacity}
	}
	return out
}

// NewProblem builds a problem from specs and fails the test on error
func NewProblem(t testing.TB, items []ItemSpec, shelves []ShelfSpec, opts ...model.Option) *model.Problem {
	t.Helper()
	p, err := model.NewProblem(ItemInputs(items...), ShelfInputs(shelves...), opts...)
	require.NoError(t, err)
	return p
}

// TwoItemProblem is the two-item, two-shelf scenario.
// With capacity 10 only one item fits per shelf.
func TwoItemProblem(t testing.TB, capacity float64) *model.Problem {
	t.Helper()
	return NewProblem(t,
		[]ItemSpec{
			{ID: "A", Volume: 10, Par: 1, Freq: 5},
			{ID: "B", Volume: 10, Par: 1, Freq: 1},
		},
		[]ShelfSpec{
			{ID: "S1", Distance: 1, Capacity: capacity},
			{ID: "S2", Distance: 10, Capacity: capacity},
		},
	)
}

// GridProblem builds a deterministic problem with the given number of items and shelves.
// Loads and frequencies vary so that capacity binds and the relaxation is fractional.
func GridProblem(t testing.TB, numItems, numShelves int, capacityFactor float64) *model.Problem {
	t.Helper()
	items := make([]ItemSpec, numItems)
	var totalLoad float64
	for i := range items {
		volume := float64(5 + (i*7)%13)
		par := 1 + (i*3)%4
		items[i] = ItemSpec{
			ID:     fmt.Sprintf("I%03d", i),
			Volume: volume,
			Par:    par,
			Freq:   float64(1 + (i*11)%17),
		}
		totalLoad += volume * float64(par)
	}
	shelves := make([]ShelfSpec, numShelves)
	for s := range shelves {
		shelves[s] = ShelfSpec{
			ID:       fmt.Sprintf("S%02d", s),
			Distance: float64(1 + s*3),
			Capacity: capacityFactor * totalLoad / float64(numShelves),
		}
	}
	return NewProblem(t, items, shelves)
}
