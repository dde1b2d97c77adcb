package actions

import (
	"fmt"

	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/records"
	"slotting.dev/slotting/internal/runtime"
)

// loadProblem reads item and shelf records and builds the problem model
func loadProblem(ctx *runtime.Context, itemsPath, shelvesPath string) (*model.Problem, []string, error) {
	cfg := ctx.Config

	set, err := records.ReadItems(itemsPath, cfg.Input.Items)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read items: %w", err)
	}
	shelves, err := records.ReadShelves(shelvesPath, cfg.Input.Shelves)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read shelves: %w", err)
	}

	if n := len(set.Dropped); n > 0 {
		ctx.Splog.Warn("Dropped %d items without par or pick frequency.", n)
		ctx.Logger().Info("dropped items", "count", n, "ids", set.Dropped)
	}

	p, err := model.NewProblem(set.Items, shelves,
		model.WithSlotLimit(cfg.Solver.SlotLimit),
		model.WithDefaultVolume(cfg.Solver.DefaultVolume))
	if err != nil {
		return nil, nil, err
	}

	ctx.Logger().Debug("problem loaded",
		"items", p.NumItems(),
		"shelves", p.NumShelves(),
		"load", p.TotalLoad(),
		"capacity", p.TotalCapacity())
	return p, set.Dropped, nil
}

// resolvePairs maps identifier pairs onto the problem without checking
// capacity or slot limits. Items missing from pairs stay unassigned.
func resolvePairs(p *model.Problem, pairs []model.Pair) (model.Assignment, error) {
	a := model.NewAssignment(p.NumItems())
	for _, pair := range pairs {
		i := p.ItemIndex(pair.Item)
		if i < 0 {
			return nil, fmt.Errorf("unknown item %q", pair.Item)
		}
		s := p.ShelfIndex(pair.Shelf)
		if s < 0 {
			return nil, fmt.Errorf("item %q is on unknown shelf %q", pair.Item, pair.Shelf)
		}
		if a[i] != model.Unassigned {
			return nil, fmt.Errorf("item %q is listed twice", pair.Item)
		}
		a[i] = s
	}
	return a, nil
}
