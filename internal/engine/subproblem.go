package engine

import (
	"math"

	"slotting.dev/slotting/internal/relax"
)

// subproblem is the model plus the branching decisions taken to reach it.
// bound is the parent's relaxation objective until the node is relaxed.
type subproblem struct {
	decisions []Decision
	bound     float64
	seq       uint64
}

func rootSubproblem() *subproblem {
	return &subproblem{bound: math.Inf(-1)}
}

// fix expands the decision list to one Fix per variable
func (n *subproblem) fix(numVars int) []relax.Fix {
	fix := make([]relax.Fix, numVars)
	for _, d := range n.decisions {
		if d.One {
			fix[d.Var] = relax.One
		} else {
			fix[d.Var] = relax.Zero
		}
	}
	return fix
}

// child copies the decisions and adds one more
func (n *subproblem) child(v int, one bool, bound float64) *subproblem {
	decisions := make([]Decision, len(n.decisions), len(n.decisions)+1)
	copy(decisions, n.decisions)
	return &subproblem{
		decisions: append(decisions, Decision{Var: v, One: one}),
		bound:     math.Max(bound, n.bound),
	}
}

func (n *subproblem) open() OpenNode {
	decisions := make([]Decision, len(n.decisions))
	copy(decisions, n.decisions)
	return OpenNode{Decisions: decisions, Bound: n.bound}
}

func fromOpen(o OpenNode) *subproblem {
	decisions := make([]Decision, len(o.Decisions))
	copy(decisions, o.Decisions)
	return &subproblem{decisions: decisions, bound: o.Bound}
}
