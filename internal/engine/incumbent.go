package engine

import (
	"math"
	"sync"

	"go.uber.org/atomic"

	"slotting.dev/slotting/internal/model"
)

// incumbent holds the best complete assignment found so far.
// best mirrors objective so workers can prune without taking the lock.
type incumbent struct {
	mu         sync.Mutex
	best       *atomic.Float64
	objective  float64
	assignment model.Assignment
}

func newIncumbent() *incumbent {
	return &incumbent{
		best:      atomic.NewFloat64(math.Inf(1)),
		objective: math.Inf(1),
	}
}

// pruneTolerance is the absolute margin below the incumbent a bound must reach to survive
func pruneTolerance(best float64) float64 {
	if math.IsInf(best, 0) {
		return 0
	}
	return 1e-9 * math.Max(1, math.Abs(best))
}

// prunes reports whether a subproblem with the given bound cannot beat the incumbent
func (in *incumbent) prunes(bound float64) bool {
	best := in.best.Load()
	if bound < best-pruneTolerance(best) {
		return false
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	return bound >= in.objective-pruneTolerance(in.objective)
}

// offer replaces the incumbent if objective is strictly better
func (in *incumbent) offer(a model.Assignment, objective float64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	if objective >= in.objective {
		return false
	}
	in.objective = objective
	in.assignment = a.Clone()
	in.best.Store(objective)
	return true
}

// get returns a copy of the incumbent and whether one exists
func (in *incumbent) get() (model.Assignment, float64, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.assignment == nil {
		return nil, math.Inf(1), false
	}
	return in.assignment.Clone(), in.objective, true
}
