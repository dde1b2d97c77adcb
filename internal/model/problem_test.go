package model_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/testhelpers"
)

func ptr[T any](v T) *T {
	return &v
}

func TestNewProblem(t *testing.T) {
	t.Parallel()

	t.Run("sorts items and shelves by identifier", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.NewProblem(t,
			[]testhelpers.ItemSpec{
				{ID: "b", Volume: 1, Par: 1, Freq: 1},
				{ID: "a", Volume: 2, Par: 3, Freq: 4},
			},
			[]testhelpers.ShelfSpec{
				{ID: "S2", Distance: 2, Capacity: 10},
				{ID: "S1", Distance: 1, Capacity: 10},
			},
		)

		require.Equal(t, "a", p.Item(0).ID)
		require.Equal(t, "b", p.Item(1).ID)
		require.Equal(t, "S1", p.Shelf(0).ID)
		require.Equal(t, 0, p.ItemIndex("a"))
		require.Equal(t, 1, p.ShelfIndex("S2"))
		require.Equal(t, -1, p.ItemIndex("missing"))
		require.InDelta(t, 6.0, p.Load(0), 1e-12)
		require.InDelta(t, 8.0, p.Cost(0, 1), 1e-12)
	})

	t.Run("defaults missing volume", func(t *testing.T) {
		t.Parallel()
		p, err := model.NewProblem(
			[]model.ItemInput{{ID: "x", Par: ptr(2), Frequency: ptr(1.0)}},
			[]model.ShelfInput{{ID: "s", Distance: 1, Capacity: 500}},
		)
		require.NoError(t, err)
		require.InDelta(t, model.DefaultVolume, p.Item(0).Volume, 1e-12)
		require.InDelta(t, 160.0, p.Load(0), 1e-12)
		require.Equal(t, model.DefaultSlotLimit, p.SlotLimit())
	})

	t.Run("honors options", func(t *testing.T) {
		t.Parallel()
		p, err := model.NewProblem(
			[]model.ItemInput{{ID: "x", Par: ptr(1), Frequency: ptr(1.0)}},
			[]model.ShelfInput{{ID: "s", Distance: 1, Capacity: 500}},
			model.WithSlotLimit(3),
			model.WithDefaultVolume(12),
		)
		require.NoError(t, err)
		require.Equal(t, 3, p.SlotLimit())
		require.InDelta(t, 12.0, p.Item(0).Volume, 1e-12)
	})

	t.Run("variable indices round trip", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.GridProblem(t, 4, 3, 1.5)
		for i := 0; i < p.NumItems(); i++ {
			for s := 0; s < p.NumShelves(); s++ {
				gotI, gotS := p.Split(p.Var(i, s))
				require.Equal(t, i, gotI)
				require.Equal(t, s, gotS)
			}
		}
		require.Equal(t, 12, p.NumVars())
	})
}

func TestNewProblemRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	validItems := []model.ItemInput{{ID: "x", Volume: ptr(1.0), Par: ptr(1), Frequency: ptr(1.0)}}
	validShelves := []model.ShelfInput{{ID: "s", Distance: 1, Capacity: 10}}

	tests := []struct {
		name    string
		items   []model.ItemInput
		shelves []model.ShelfInput
		opts    []model.Option
		want    string
	}{
		{name: "no items", shelves: validShelves, want: "no items"},
		{name: "no shelves", items: validItems, want: "no shelves"},
		{
			name:    "missing par",
			items:   []model.ItemInput{{ID: "x", Frequency: ptr(1.0)}},
			shelves: validShelves,
			want:    "missing par",
		},
		{
			name:    "missing frequency",
			items:   []model.ItemInput{{ID: "x", Par: ptr(1)}},
			shelves: validShelves,
			want:    "missing pick frequency",
		},
		{
			name:    "zero capacity",
			items:   validItems,
			shelves: []model.ShelfInput{{ID: "s", Distance: 1, Capacity: 0}},
			want:    "capacity must be positive",
		},
		{
			name:    "negative distance",
			items:   validItems,
			shelves: []model.ShelfInput{{ID: "s", Distance: -1, Capacity: 1}},
			want:    "invalid distance",
		},
		{
			name: "duplicate item",
			items: []model.ItemInput{
				{ID: "x", Par: ptr(1), Frequency: ptr(1.0)},
				{ID: "x", Par: ptr(1), Frequency: ptr(1.0)},
			},
			shelves: validShelves,
			want:    "duplicate identifier",
		},
		{
			name:    "duplicate shelf",
			items:   validItems,
			shelves: []model.ShelfInput{{ID: "s", Capacity: 1}, {ID: "s", Capacity: 1}},
			want:    "duplicate identifier",
		},
		{
			name:    "negative par",
			items:   []model.ItemInput{{ID: "x", Par: ptr(-1), Frequency: ptr(1.0)}},
			shelves: validShelves,
			want:    "negative par",
		},
		{
			name:    "zero slot limit",
			items:   validItems,
			shelves: validShelves,
			opts:    []model.Option{model.WithSlotLimit(0)},
			want:    "slot limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := model.NewProblem(tt.items, tt.shelves, tt.opts...)
			require.Error(t, err)
			require.True(t, errors.Is(err, slotErrors.ErrInvalidProblem))
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := testhelpers.TwoItemProblem(t, 10)
	b := testhelpers.TwoItemProblem(t, 10)
	c := testhelpers.TwoItemProblem(t, 20)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())

	tightened, err := a.WithCapacity("S1", 20)
	require.NoError(t, err)
	require.NotEqual(t, a.Fingerprint(), tightened.Fingerprint())
	require.InDelta(t, 10.0, a.Shelf(0).Capacity, 1e-12)

	_, err = a.WithCapacity("nope", 1)
	require.ErrorIs(t, err, slotErrors.ErrInvalidProblem)
}

func TestAssignmentHelpers(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)
	a := model.NewAssignment(p.NumItems())
	require.False(t, a.Complete())

	a[0], a[1] = 0, 1
	require.True(t, a.Complete())
	require.InDelta(t, 15.0, p.Objective(a), 1e-12)
	require.Equal(t, []model.Pair{{Item: "A", Shelf: "S1"}, {Item: "B", Shelf: "S2"}}, p.Pairs(a))

	clone := a.Clone()
	clone[0] = 1
	require.False(t, a.Equal(clone))
	require.Equal(t, 0, a[0])
}
