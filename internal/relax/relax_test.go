package relax_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/relax"
	"slotting.dev/slotting/testhelpers"
)

func freeFix(p *model.Problem) []relax.Fix {
	return make([]relax.Fix, p.NumVars())
}

func TestSolve(t *testing.T) {
	t.Parallel()

	t.Run("exclusive shelves give an integral optimum", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.TwoItemProblem(t, 10)

		rel, err := relax.Solve(p, freeFix(p))
		require.NoError(t, err)
		require.True(t, rel.Exact)
		require.True(t, rel.Integral())
		require.InDelta(t, 15.0, rel.Objective, 1e-6)
		require.InDelta(t, 1.0, rel.Values[p.Var(0, 0)], 1e-6)
		require.InDelta(t, 1.0, rel.Values[p.Var(1, 1)], 1e-6)

		_, ok := rel.MostFractional()
		require.False(t, ok)
	})

	t.Run("roomy shelves drop every capacity row", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.TwoItemProblem(t, 20)

		rel, err := relax.Solve(p, freeFix(p))
		require.NoError(t, err)
		require.True(t, rel.Integral())
		require.InDelta(t, 6.0, rel.Objective, 1e-6)
	})

	t.Run("fixed variables are honored", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.TwoItemProblem(t, 10)
		fix := freeFix(p)
		fix[p.Var(0, 1)] = relax.One

		rel, err := relax.Solve(p, fix)
		require.NoError(t, err)
		require.True(t, rel.Integral())
		require.InDelta(t, 51.0, rel.Objective, 1e-6)
	})

	t.Run("slot limit binds", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.NewProblem(t,
			[]testhelpers.ItemSpec{
				{ID: "A", Volume: 1, Par: 1, Freq: 5},
				{ID: "B", Volume: 1, Par: 1, Freq: 1},
			},
			[]testhelpers.ShelfSpec{
				{ID: "S1", Distance: 1, Capacity: 100},
				{ID: "S2", Distance: 10, Capacity: 100},
			},
			model.WithSlotLimit(1),
		)

		rel, err := relax.Solve(p, freeFix(p))
		require.NoError(t, err)
		require.InDelta(t, 15.0, rel.Objective, 1e-6)
	})

	t.Run("fractional solution branches on the value nearest one half", func(t *testing.T) {
		t.Parallel()
		p := testhelpers.NewProblem(t,
			[]testhelpers.ItemSpec{
				{ID: "A", Volume: 6, Par: 1, Freq: 5},
				{ID: "B", Volume: 6, Par: 1, Freq: 1},
			},
			[]testhelpers.ShelfSpec{
				{ID: "S1", Distance: 1, Capacity: 10},
				{ID: "S2", Distance: 10, Capacity: 10},
			},
		)

		rel, err := relax.Solve(p, freeFix(p))
		require.NoError(t, err)
		require.False(t, rel.Integral())
		require.InDelta(t, 9.0, rel.Objective, 1e-6)
		require.InDelta(t, 2.0/3.0, rel.Values[p.Var(1, 0)], 1e-6)

		v, ok := rel.MostFractional()
		require.True(t, ok)
		require.Equal(t, p.Var(1, 0), v)
	})
}

func TestSolveInfeasible(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)

	tests := []struct {
		name string
		fix  func([]relax.Fix)
	}{
		{
			name: "two ones for one item",
			fix: func(f []relax.Fix) {
				f[p.Var(0, 0)] = relax.One
				f[p.Var(0, 1)] = relax.One
			},
		},
		{
			name: "item with no allowed shelf",
			fix: func(f []relax.Fix) {
				f[p.Var(1, 0)] = relax.Zero
				f[p.Var(1, 1)] = relax.Zero
			},
		},
		{
			name: "pinned items overflow a shelf",
			fix: func(f []relax.Fix) {
				f[p.Var(0, 0)] = relax.One
				f[p.Var(1, 0)] = relax.One
			},
		},
		{
			name: "remaining item does not fit anywhere",
			fix: func(f []relax.Fix) {
				f[p.Var(0, 0)] = relax.One
				f[p.Var(1, 1)] = relax.Zero
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			fix := freeFix(p)
			tt.fix(fix)

			_, err := relax.Solve(p, fix)
			require.ErrorIs(t, err, relax.ErrInfeasible)

			_, err = relax.CombinatorialBound(p, fix)
			require.ErrorIs(t, err, relax.ErrInfeasible)
		})
	}

	t.Run("demand exceeds total capacity", func(t *testing.T) {
		t.Parallel()
		tight := testhelpers.TwoItemProblem(t, 9.5)
		_, err := relax.Solve(tight, freeFix(tight))
		require.ErrorIs(t, err, relax.ErrInfeasible)
	})

	t.Run("wrong fix length", func(t *testing.T) {
		t.Parallel()
		_, err := relax.Solve(p, make([]relax.Fix, 1))
		require.Error(t, err)
		require.False(t, errors.Is(err, relax.ErrInfeasible))
	})
}

func TestCombinatorialBound(t *testing.T) {
	t.Parallel()

	p := testhelpers.TwoItemProblem(t, 10)

	rel, err := relax.CombinatorialBound(p, freeFix(p))
	require.NoError(t, err)
	require.False(t, rel.Exact)
	require.False(t, rel.Integral())
	require.InDelta(t, 6.0, rel.Objective, 1e-12)

	v, ok := rel.MostFractional()
	require.True(t, ok)
	require.Equal(t, p.Var(0, 0), v)

	exact, err := relax.Solve(p, freeFix(p))
	require.NoError(t, err)
	require.LessOrEqual(t, rel.Objective, exact.Objective+1e-9)

	fix := freeFix(p)
	fix[p.Var(0, 0)] = relax.One
	fix[p.Var(1, 1)] = relax.One
	pinned, err := relax.CombinatorialBound(p, fix)
	require.NoError(t, err)
	require.True(t, pinned.Integral())
	require.InDelta(t, 15.0, pinned.Objective, 1e-12)
}

func TestRelaxationBoundsGrid(t *testing.T) {
	t.Parallel()

	p := testhelpers.GridProblem(t, 8, 4, 1.2)
	rel, err := relax.Solve(p, freeFix(p))
	require.NoError(t, err)

	comb, err := relax.CombinatorialBound(p, freeFix(p))
	require.NoError(t, err)
	require.LessOrEqual(t, comb.Objective, rel.Objective+1e-6)

	for i := 0; i < p.NumItems(); i++ {
		var sum float64
		for s := 0; s < p.NumShelves(); s++ {
			sum += rel.Values[p.Var(i, s)]
		}
		require.InDelta(t, 1.0, sum, 1e-6, "item %s", p.Item(i).ID)
	}
}

func TestSolveMaxSize(t *testing.T) {
	t.Parallel()

	// Both shelves bind: 2 assignment rows plus 2 capacity rows over
	// 4 item columns plus 2 slack columns
	p := testhelpers.NewProblem(t,
		[]testhelpers.ItemSpec{
			{ID: "A", Volume: 6, Par: 1, Freq: 5},
			{ID: "B", Volume: 6, Par: 1, Freq: 1},
		},
		[]testhelpers.ShelfSpec{
			{ID: "S1", Distance: 1, Capacity: 10},
			{ID: "S2", Distance: 10, Capacity: 10},
		},
	)

	t.Run("small enough for the simplex", func(t *testing.T) {
		t.Parallel()
		rel, err := relax.Solve(p, freeFix(p), relax.WithMaxSize(24))
		require.NoError(t, err)
		require.True(t, rel.Exact)
		require.InDelta(t, 9.0, rel.Objective, 1e-6)
	})

	t.Run("too large falls back to the combinatorial bound", func(t *testing.T) {
		t.Parallel()
		rel, err := relax.Solve(p, freeFix(p), relax.WithMaxSize(23))
		require.NoError(t, err)
		require.False(t, rel.Exact)
		require.InDelta(t, 6.0, rel.Objective, 1e-9)

		comb, err := relax.CombinatorialBound(p, freeFix(p))
		require.NoError(t, err)
		require.InDelta(t, comb.Objective, rel.Objective, 1e-12)
		v, ok := rel.MostFractional()
		require.True(t, ok)
		require.Equal(t, p.Var(p.ItemIndex("A"), p.ShelfIndex("S1")), v)
	})

	t.Run("zero removes the cap", func(t *testing.T) {
		t.Parallel()
		rel, err := relax.Solve(p, freeFix(p), relax.WithMaxSize(0))
		require.NoError(t, err)
		require.True(t, rel.Exact)
	})
}
