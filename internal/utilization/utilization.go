// Package utilization derives per-shelf usage from an assignment.
package utilization

import (
	"sort"

	"slotting.dev/slotting/internal/model"
)

// ShelfUsage is the load placed on one shelf
type ShelfUsage struct {
	ShelfID     string  `json:"shelf" yaml:"shelf"`
	Distance    float64 `json:"distance" yaml:"distance"`
	Items       int     `json:"items" yaml:"items"`
	Volume      float64 `json:"volume" yaml:"volume"`
	Capacity    float64 `json:"capacity" yaml:"capacity"`
	Utilization float64 `json:"utilization" yaml:"utilization"`
}

// Summary totals a usage table
type Summary struct {
	Shelves         int     `json:"shelves" yaml:"shelves"`
	ShelvesUsed     int     `json:"shelves_used" yaml:"shelves_used"`
	Items           int     `json:"items" yaml:"items"`
	Volume          float64 `json:"volume" yaml:"volume"`
	Capacity        float64 `json:"capacity" yaml:"capacity"`
	Utilization     float64 `json:"utilization" yaml:"utilization"`
	MeanUtilization float64 `json:"mean_utilization" yaml:"mean_utilization"`
}

// Aggregate returns one row per shelf, including empty shelves, ordered by
// ascending distance and then shelf identifier. Unassigned items are ignored.
func Aggregate(p *model.Problem, a model.Assignment) []ShelfUsage {
	usages := make([]ShelfUsage, p.NumShelves())
	for s := range usages {
		shelf := p.Shelf(s)
		usages[s] = ShelfUsage{ShelfID: shelf.ID, Distance: shelf.Distance, Capacity: shelf.Capacity}
	}
	for i, s := range a {
		if s == model.Unassigned {
			continue
		}
		usages[s].Items++
		usages[s].Volume += p.Load(i)
	}
	for s := range usages {
		usages[s].Utilization = usages[s].Volume / usages[s].Capacity
	}

	sort.SliceStable(usages, func(x, y int) bool {
		if usages[x].Distance != usages[y].Distance {
			return usages[x].Distance < usages[y].Distance
		}
		return usages[x].ShelfID < usages[y].ShelfID
	})
	return usages
}

// Summarize totals the usage rows
func Summarize(usages []ShelfUsage) Summary {
	sum := Summary{Shelves: len(usages)}
	var utilization float64
	for _, u := range usages {
		sum.Items += u.Items
		sum.Volume += u.Volume
		sum.Capacity += u.Capacity
		utilization += u.Utilization
		if u.Items > 0 {
			sum.ShelvesUsed++
		}
	}
	if sum.Capacity > 0 {
		sum.Utilization = sum.Volume / sum.Capacity
	}
	if len(usages) > 0 {
		sum.MeanUtilization = utilization / float64(len(usages))
	}
	return sum
}
