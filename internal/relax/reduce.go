package relax

import (
	"fmt"

	"slotting.dev/slotting/internal/model"
)

// reduced is a subproblem with its pinned items taken out
type reduced struct {
	assigned  model.Assignment
	free      []int
	capLeft   []float64
	slotsLeft []int
	fixedCost float64
}

// reduce pins every item that has a One or a single allowed shelf and
// subtracts their load and slots from the shelves.
func reduce(p *model.Problem, fix []Fix) (*reduced, error) {
	if len(fix) != p.NumVars() {
		return nil, fmt.Errorf("relax: fix has %d entries, problem has %d variables", len(fix), p.NumVars())
	}

	numShelves := p.NumShelves()
	r := &reduced{
		assigned:  model.NewAssignment(p.NumItems()),
		capLeft:   make([]float64, numShelves),
		slotsLeft: make([]int, numShelves),
	}
	for s := 0; s < numShelves; s++ {
		r.capLeft[s] = p.Shelf(s).Capacity
		r.slotsLeft[s] = p.SlotLimit()
	}

	for i := 0; i < p.NumItems(); i++ {
		one, allowed, last := -1, 0, -1
		for s := 0; s < numShelves; s++ {
			switch fix[p.Var(i, s)] {
			case One:
				if one >= 0 {
					return nil, ErrInfeasible
				}
				one = s
			case Free:
				allowed++
				last = s
			}
		}
		shelf := one
		if shelf < 0 {
			switch allowed {
			case 0:
				return nil, ErrInfeasible
			case 1:
				shelf = last
			default:
				r.free = append(r.free, i)
				continue
			}
		}
		r.assigned[i] = shelf
		r.capLeft[shelf] -= p.Load(i)
		r.slotsLeft[shelf]--
		r.fixedCost += p.Cost(i, shelf)
	}

	for s := 0; s < numShelves; s++ {
		if r.slotsLeft[s] < 0 || r.capLeft[s] < -p.CapacitySlack(s) {
			return nil, ErrInfeasible
		}
		if r.capLeft[s] < 0 {
			r.capLeft[s] = 0
		}
	}
	return r, nil
}

// fits reports whether free item i could still go on shelf s on its own
func (r *reduced) fits(p *model.Problem, i, s int) bool {
	return r.slotsLeft[s] >= 1 && p.Load(i) <= r.capLeft[s]+p.CapacitySlack(s)
}

func (r *reduced) pinnedValues(p *model.Problem) []float64 {
	values := make([]float64, p.NumVars())
	for i, s := range r.assigned {
		if s != model.Unassigned {
			values[p.Var(i, s)] = 1
		}
	}
	return values
}
