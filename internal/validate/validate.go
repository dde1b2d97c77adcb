// Package validate rechecks a candidate assignment against the problem from scratch.
package validate

import (
	"math"

	slotErrors "slotting.dev/slotting/internal/errors"
	"slotting.dev/slotting/internal/model"
)

// Assignment checks that every item is on exactly one shelf and that no shelf
// exceeds its capacity or slot limit. It returns the recomputed objective.
func Assignment(p *model.Problem, a model.Assignment) (float64, error) {
	if len(a) != p.NumItems() {
		return 0, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
			"assignment covers %d items, problem has %d", len(a), p.NumItems())
	}

	load := make([]float64, p.NumShelves())
	count := make([]int, p.NumShelves())
	var objective float64
	for i, s := range a {
		if s < 0 || s >= p.NumShelves() {
			return 0, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"item %q has no shelf", p.Item(i).ID)
		}
		load[s] += p.Load(i)
		count[s]++
		objective += p.Cost(i, s)
	}

	for s := 0; s < p.NumShelves(); s++ {
		shelf := p.Shelf(s)
		if load[s] > shelf.Capacity+p.CapacitySlack(s) {
			return 0, slotErrors.NewValidationError(slotErrors.InvariantCapacity,
				"shelf %q holds %g of %g", shelf.ID, load[s], shelf.Capacity)
		}
		if count[s] > p.SlotLimit() {
			return 0, slotErrors.NewValidationError(slotErrors.InvariantSlotLimit,
				"shelf %q holds %d items, limit %d", shelf.ID, count[s], p.SlotLimit())
		}
	}
	return objective, nil
}

// Pairs resolves (item, shelf) identifier pairs and validates the result.
// Unknown identifiers, repeated items and missing items all violate exactly-one.
func Pairs(p *model.Problem, pairs []model.Pair) (model.Assignment, float64, error) {
	a := model.NewAssignment(p.NumItems())
	for _, pair := range pairs {
		i := p.ItemIndex(pair.Item)
		if i < 0 {
			return nil, 0, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"unknown item %q", pair.Item)
		}
		s := p.ShelfIndex(pair.Shelf)
		if s < 0 {
			return nil, 0, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"item %q is on unknown shelf %q", pair.Item, pair.Shelf)
		}
		if a[i] != model.Unassigned {
			return nil, 0, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"item %q is on both %q and %q", pair.Item, p.Shelf(a[i]).ID, pair.Shelf)
		}
		a[i] = s
	}
	objective, err := Assignment(p, a)
	if err != nil {
		return nil, 0, err
	}
	return a, objective, nil
}

// Values converts a 0/1 vector with one entry per variable into an assignment.
// Every value must be within tol of 0 or 1 and each item must have exactly one
// value above one half.
func Values(p *model.Problem, x []float64, tol float64) (model.Assignment, error) {
	if len(x) != p.NumVars() {
		return nil, slotErrors.NewValidationError(slotErrors.InvariantIntegral,
			"vector has %d values, problem has %d variables", len(x), p.NumVars())
	}

	a := model.NewAssignment(p.NumItems())
	for v, value := range x {
		if math.Abs(value-math.Round(value)) > tol || math.IsNaN(value) {
			i, s := p.Split(v)
			return nil, slotErrors.NewValidationError(slotErrors.InvariantIntegral,
				"item %q on shelf %q has value %g", p.Item(i).ID, p.Shelf(s).ID, value)
		}
		if value <= 0.5 {
			continue
		}
		i, s := p.Split(v)
		if a[i] != model.Unassigned {
			return nil, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"item %q is on both %q and %q", p.Item(i).ID, p.Shelf(a[i]).ID, p.Shelf(s).ID)
		}
		a[i] = s
	}
	for i, s := range a {
		if s == model.Unassigned {
			return nil, slotErrors.NewValidationError(slotErrors.InvariantExactlyOne,
				"item %q has no shelf", p.Item(i).ID)
		}
	}
	return a, nil
}
