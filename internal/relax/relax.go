// Package relax solves the LP relaxation of a slotting subproblem.
//
// A subproblem is the model plus a Fix per variable. The relaxation replaces
// x ∈ {0,1} by 0 ≤ x ≤ 1 and is solved with gonum's simplex; its objective is
// a lower bound on every integral completion of the subproblem.
package relax

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"slotting.dev/slotting/internal/model"
)

// Fix is the branching decision on one variable
type Fix int8

const (
	// Free leaves the variable to the relaxation
	Free Fix = iota
	// Zero forbids the item on the shelf
	Zero
	// One places the item on the shelf
	One
)

func (f Fix) String() string {
	switch f {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return "free"
	}
}

// Default tolerances
const (
	DefaultTolerance            = 1e-9
	DefaultIntegralityTolerance = 1e-6
)

// DefaultMaxSize is the largest constraint matrix, in rows times columns, handed
// to the simplex. gonum's simplex works on a dense matrix and has no iteration
// cap, so its cost grows quickly with size.
const DefaultMaxSize = 250_000

// ErrInfeasible is returned when no fractional assignment satisfies the subproblem
var ErrInfeasible = errors.New("relaxation infeasible")

// NumericalError wraps a simplex failure that is not a proof of infeasibility
type NumericalError struct {
	Err error
}

func (e *NumericalError) Error() string {
	return fmt.Sprintf("relaxation failed numerically: %v", e.Err)
}

func (e *NumericalError) Unwrap() error {
	return e.Err
}

// Option configures a relaxation solve
type Option func(*options)

type options struct {
	tolerance            float64
	integralityTolerance float64
	maxSize              int
}

// WithTolerance sets the simplex tolerance
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.tolerance = tol
		}
	}
}

// WithIntegralityTolerance sets how far from 0 or 1 a value may be and still count as integral
func WithIntegralityTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.integralityTolerance = tol
		}
	}
}

// WithMaxSize sets the largest constraint matrix (rows times columns) solved
// with the simplex. Larger subproblems get the combinatorial bound. Zero or
// less removes the cap.
func WithMaxSize(cells int) Option {
	return func(o *options) {
		o.maxSize = cells
	}
}

func newOptions(opts []Option) options {
	o := options{
		tolerance:            DefaultTolerance,
		integralityTolerance: DefaultIntegralityTolerance,
		maxSize:              DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Relaxation is the result of relaxing one subproblem
type Relaxation struct {
	// Values holds one entry per model variable
	Values []float64
	// Objective is a lower bound on every integral completion
	Objective float64
	// Exact is false when Objective came from CombinatorialBound
	Exact bool

	intTol float64
	branch int
}

// Integral returns true if every value is within tolerance of 0 or 1
func (r *Relaxation) Integral() bool {
	if !r.Exact {
		return r.branch < 0
	}
	for _, x := range r.Values {
		if math.Abs(x-math.Round(x)) > r.intTol {
			return false
		}
	}
	return true
}

// MostFractional returns the variable whose value is closest to 0.5.
// Ties go to the lowest variable index, which is the lowest item then the lowest shelf.
func (r *Relaxation) MostFractional() (int, bool) {
	if !r.Exact {
		return r.branch, r.branch >= 0
	}
	best, bestDist := -1, math.Inf(1)
	for v, x := range r.Values {
		if math.Abs(x-math.Round(x)) <= r.intTol {
			continue
		}
		if d := math.Abs(x - 0.5); d < bestDist {
			best, bestDist = v, d
		}
	}
	return best, best >= 0
}

// Solve relaxes the subproblem described by fix, which has one entry per variable.
// When the reduced LP is larger than the configured maximum size the result
// comes from CombinatorialBound and has Exact unset.
func Solve(p *model.Problem, fix []Fix, opts ...Option) (*Relaxation, error) {
	o := newOptions(opts)
	red, err := reduce(p, fix)
	if err != nil {
		return nil, err
	}

	values := red.pinnedValues(p)
	if len(red.free) == 0 {
		return &Relaxation{Values: values, Objective: red.fixedCost, Exact: true, intTol: o.integralityTolerance, branch: -1}, nil
	}

	numShelves := p.NumShelves()
	type column struct{ item, shelf int }
	var cols []column
	perShelf := make([][]int, numShelves)
	for _, i := range red.free {
		before := len(cols)
		for s := 0; s < numShelves; s++ {
			if fix[p.Var(i, s)] == Zero || !red.fits(p, i, s) {
				continue
			}
			perShelf[s] = append(perShelf[s], len(cols))
			cols = append(cols, column{item: i, shelf: s})
		}
		if len(cols) == before {
			return nil, ErrInfeasible
		}
	}

	// Only rows that can bind are kept
	type row struct {
		shelf int
		slots bool
	}
	var rows []row
	for s := 0; s < numShelves; s++ {
		var demand float64
		for _, k := range perShelf[s] {
			demand += p.Load(cols[k].item)
		}
		if demand > red.capLeft[s]+p.CapacitySlack(s) {
			rows = append(rows, row{shelf: s})
		}
		if len(perShelf[s]) > red.slotsLeft[s] {
			rows = append(rows, row{shelf: s, slots: true})
		}
	}

	numFree := len(red.free)
	m := numFree + len(rows)
	n := len(cols) + len(rows)
	if o.maxSize > 0 && m*n > o.maxSize {
		return CombinatorialBound(p, fix, opts...)
	}
	A := mat.NewDense(m, n, nil)
	b := make([]float64, m)
	c := make([]float64, n)

	rowOf := make(map[int]int, numFree)
	for k, i := range red.free {
		rowOf[i] = k
		b[k] = 1
	}
	for k, col := range cols {
		c[k] = p.Cost(col.item, col.shelf)
		A.Set(rowOf[col.item], k, 1)
	}
	// Slack columns go last
	for j, rw := range rows {
		ri := numFree + j
		A.Set(ri, len(cols)+j, 1)
		if rw.slots {
			scale := float64(p.SlotLimit())
			for _, k := range perShelf[rw.shelf] {
				A.Set(ri, k, 1/scale)
			}
			b[ri] = float64(red.slotsLeft[rw.shelf]) / scale
			continue
		}
		scale := p.Shelf(rw.shelf).Capacity
		for _, k := range perShelf[rw.shelf] {
			A.Set(ri, k, p.Load(cols[k].item)/scale)
		}
		b[ri] = (red.capLeft[rw.shelf] + p.CapacitySlack(rw.shelf)) / scale
	}

	z, x, err := lp.Simplex(c, A, b, o.tolerance, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil, ErrInfeasible
		}
		return nil, &NumericalError{Err: err}
	}

	for k, col := range cols {
		values[p.Var(col.item, col.shelf)] = x[k]
	}
	return &Relaxation{
		Values:    values,
		Objective: red.fixedCost + z,
		Exact:     true,
		intTol:    o.integralityTolerance,
		branch:    -1,
	}, nil
}

// CombinatorialBound bounds the subproblem by sending every free item to its
// cheapest allowed shelf, ignoring capacity and slots. It branches on the first
// free item's cheapest shelf.
func CombinatorialBound(p *model.Problem, fix []Fix, opts ...Option) (*Relaxation, error) {
	o := newOptions(opts)
	red, err := reduce(p, fix)
	if err != nil {
		return nil, err
	}

	bound := red.fixedCost
	branch := -1
	for _, i := range red.free {
		cheapest := -1
		for s := 0; s < p.NumShelves(); s++ {
			if fix[p.Var(i, s)] == Zero || !red.fits(p, i, s) {
				continue
			}
			if cheapest < 0 || p.Cost(i, s) < p.Cost(i, cheapest) {
				cheapest = s
			}
		}
		if cheapest < 0 {
			return nil, ErrInfeasible
		}
		bound += p.Cost(i, cheapest)
		if branch < 0 {
			branch = p.Var(i, cheapest)
		}
	}

	return &Relaxation{
		Values:    red.pinnedValues(p),
		Objective: bound,
		Exact:     false,
		intTol:    o.integralityTolerance,
		branch:    branch,
	}, nil
}
