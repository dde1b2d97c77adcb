package engine

import (
	"sort"

	"slotting.dev/slotting/internal/model"
)

// greedy places items by descending pick frequency on the nearest shelf that
// still has room. It returns false if some item could not be placed.
func greedy(p *model.Problem) (model.Assignment, bool) {
	order := make([]int, p.NumItems())
	for i := range order {
		order[i] = i
	}
	// Items are indexed by identifier, so the index breaks frequency ties
	sort.SliceStable(order, func(a, b int) bool {
		return p.Item(order[a]).Frequency > p.Item(order[b]).Frequency
	})

	shelves := make([]int, p.NumShelves())
	for s := range shelves {
		shelves[s] = s
	}
	sort.SliceStable(shelves, func(a, b int) bool {
		return p.Shelf(shelves[a]).Distance < p.Shelf(shelves[b]).Distance
	})

	capLeft := make([]float64, p.NumShelves())
	slotsLeft := make([]int, p.NumShelves())
	for s := range capLeft {
		capLeft[s] = p.Shelf(s).Capacity + p.CapacitySlack(s)
		slotsLeft[s] = p.SlotLimit()
	}

	a := model.NewAssignment(p.NumItems())
	for _, i := range order {
		for _, s := range shelves {
			if slotsLeft[s] > 0 && p.Load(i) <= capLeft[s] {
				a[i] = s
				capLeft[s] -= p.Load(i)
				slotsLeft[s]--
				break
			}
		}
		if a[i] == model.Unassigned {
			return nil, false
		}
	}
	return a, true
}
