package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/validate"
	"slotting.dev/slotting/testhelpers"
)

func requireInvariant(t *testing.T, err error, want slotErrors.Invariant) {
	t.Helper()
	require.ErrorIs(t, err, slotErrors.ErrValidationFailed)
	var verr *slotErrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Equal(t, want, verr.Invariant)
}

func TestAssignment(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)

	tests := []struct {
		name       string
		assignment model.Assignment
		want       slotErrors.Invariant
		objective  float64
	}{
		{name: "feasible", assignment: model.Assignment{0, 1}, objective: 15},
		{name: "reversed", assignment: model.Assignment{1, 0}, objective: 51},
		{name: "overfull shelf", assignment: model.Assignment{0, 0}, want: slotErrors.InvariantCapacity},
		{name: "unassigned item", assignment: model.Assignment{0, model.Unassigned}, want: slotErrors.InvariantExactlyOne},
		{name: "short assignment", assignment: model.Assignment{0}, want: slotErrors.InvariantExactlyOne},
		{name: "shelf out of range", assignment: model.Assignment{0, 7}, want: slotErrors.InvariantExactlyOne},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			objective, err := validate.Assignment(p, tt.assignment)
			if tt.want == "" {
				require.NoError(t, err)
				require.InDelta(t, tt.objective, objective, 1e-12)
				return
			}
			requireInvariant(t, err, tt.want)
		})
	}
}

func TestAssignmentSlotLimit(t *testing.T) {
	t.Parallel()

	p := testhelpers.NewProblem(t,
		[]testhelpers.ItemSpec{
			{ID: "A", Volume: 1, Par: 1, Freq: 1},
			{ID: "B", Volume: 1, Par: 1, Freq: 1},
		},
		[]testhelpers.ShelfSpec{{ID: "S1", Distance: 1, Capacity: 100}},
		model.WithSlotLimit(1),
	)

	_, err := validate.Assignment(p, model.Assignment{0, 0})
	requireInvariant(t, err, slotErrors.InvariantSlotLimit)
}

func TestAssignmentCapacityTolerance(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 20*(1-1e-8))
	_, err := validate.Assignment(p, model.Assignment{0, 0})
	require.NoError(t, err)

	p = testhelpers.TwoItemProblem(t, 19.9)
	_, err = validate.Assignment(p, model.Assignment{0, 0})
	requireInvariant(t, err, slotErrors.InvariantCapacity)
}

func TestPairs(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)

	t.Run("resolves identifiers", func(t *testing.T) {
		t.Parallel()
		a, objective, err := validate.Pairs(p, []model.Pair{{Item: "B", Shelf: "S2"}, {Item: "A", Shelf: "S1"}})
		require.NoError(t, err)
		require.InDelta(t, 15.0, objective, 1e-12)
		require.Equal(t, model.Assignment{0, 1}, a)
	})

	failures := []struct {
		name  string
		pairs []model.Pair
	}{
		{name: "unknown item", pairs: []model.Pair{{Item: "Z", Shelf: "S1"}}},
		{name: "unknown shelf", pairs: []model.Pair{{Item: "A", Shelf: "S9"}, {Item: "B", Shelf: "S2"}}},
		{name: "item twice", pairs: []model.Pair{{Item: "A", Shelf: "S1"}, {Item: "A", Shelf: "S2"}}},
		{name: "item missing", pairs: []model.Pair{{Item: "A", Shelf: "S1"}}},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := validate.Pairs(p, tt.pairs)
			requireInvariant(t, err, slotErrors.InvariantExactlyOne)
		})
	}
}

func TestValues(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)

	a, err := validate.Values(p, []float64{1, 0, 1e-9, 1 - 1e-9}, 1e-6)
	require.NoError(t, err)
	require.Equal(t, model.Assignment{0, 1}, a)

	_, err = validate.Values(p, []float64{0.5, 0.5, 0, 1}, 1e-6)
	requireInvariant(t, err, slotErrors.InvariantIntegral)

	_, err = validate.Values(p, []float64{1, 1, 0, 1}, 1e-6)
	requireInvariant(t, err, slotErrors.InvariantExactlyOne)

	_, err = validate.Values(p, []float64{0, 0, 0, 1}, 1e-6)
	requireInvariant(t, err, slotErrors.InvariantExactlyOne)

	_, err = validate.Values(p, []float64{1}, 1e-6)
	requireInvariant(t, err, slotErrors.InvariantIntegral)
}
