package model

import (
	"fmt"
	"math"
	"sort"

	slotErrors "slotting.dev/slotting/internal/errors"
)

// Option configures problem construction
type Option func(*options)

type options struct {
	slotLimit     int
	defaultVolume float64
}

// WithSlotLimit sets the maximum number of items per shelf
func WithSlotLimit(n int) Option {
	return func(o *options) {
		o.slotLimit = n
	}
}

// WithDefaultVolume sets the volume used for items without one
func WithDefaultVolume(v float64) Option {
	return func(o *options) {
		o.defaultVolume = v
	}
}

// Problem is the immutable slotting problem
type Problem struct {
	items     []Item
	shelves   []Shelf
	slotLimit int

	loads      []float64
	itemIndex  map[string]int
	shelfIndex map[string]int

	fingerprint uint64
}

// NewProblem validates and normalizes the inputs and builds a Problem.
// Items and shelves are ordered by identifier.
func NewProblem(items []ItemInput, shelves []ShelfInput, opts ...Option) (*Problem, error) {
	o := options{slotLimit: DefaultSlotLimit, defaultVolume: DefaultVolume}
	for _, opt := range opts {
		opt(&o)
	}

	if o.slotLimit < 1 {
		return nil, slotErrors.NewInvalidProblemError("slot limit", "", fmt.Sprintf("must be at least 1, got %d", o.slotLimit))
	}
	if !(o.defaultVolume > 0) || math.IsInf(o.defaultVolume, 0) {
		return nil, slotErrors.NewInvalidProblemError("default volume", "", fmt.Sprintf("must be positive, got %g", o.defaultVolume))
	}
	if len(items) == 0 {
		return nil, slotErrors.NewInvalidProblemError("items", "", "no items")
	}
	if len(shelves) == 0 {
		return nil, slotErrors.NewInvalidProblemError("shelves", "", "no shelves")
	}

	p := &Problem{
		items:      make([]Item, 0, len(items)),
		shelves:    make([]Shelf, 0, len(shelves)),
		slotLimit:  o.slotLimit,
		itemIndex:  make(map[string]int, len(items)),
		shelfIndex: make(map[string]int, len(shelves)),
	}

	seen := make(map[string]bool, len(items))
	for _, in := range items {
		item, err := normalizeItem(in, o.defaultVolume)
		if err != nil {
			return nil, err
		}
		if seen[item.ID] {
			return nil, slotErrors.NewInvalidProblemError("item", item.ID, "duplicate identifier")
		}
		seen[item.ID] = true
		p.items = append(p.items, item)
	}

	seen = make(map[string]bool, len(shelves))
	for _, in := range shelves {
		shelf, err := normalizeShelf(in)
		if err != nil {
			return nil, err
		}
		if seen[shelf.ID] {
			return nil, slotErrors.NewInvalidProblemError("shelf", shelf.ID, "duplicate identifier")
		}
		seen[shelf.ID] = true
		p.shelves = append(p.shelves, shelf)
	}

	sort.Slice(p.items, func(a, b int) bool { return p.items[a].ID < p.items[b].ID })
	sort.Slice(p.shelves, func(a, b int) bool { return p.shelves[a].ID < p.shelves[b].ID })

	p.loads = make([]float64, len(p.items))
	for i, item := range p.items {
		p.itemIndex[item.ID] = i
		p.loads[i] = item.Load()
	}
	for s, shelf := range p.shelves {
		p.shelfIndex[shelf.ID] = s
	}
	p.fingerprint = fingerprint(p)

	return p, nil
}

func normalizeItem(in ItemInput, defaultVolume float64) (Item, error) {
	if in.ID == "" {
		return Item{}, slotErrors.NewInvalidProblemError("item", "", "empty identifier")
	}
	if in.Par == nil {
		return Item{}, slotErrors.NewInvalidProblemError("item", in.ID, "missing par quantity")
	}
	if in.Frequency == nil {
		return Item{}, slotErrors.NewInvalidProblemError("item", in.ID, "missing pick frequency")
	}
	if *in.Par < 0 {
		return Item{}, slotErrors.NewInvalidProblemError("item", in.ID, fmt.Sprintf("negative par quantity %d", *in.Par))
	}
	if *in.Frequency < 0 || math.IsNaN(*in.Frequency) || math.IsInf(*in.Frequency, 0) {
		return Item{}, slotErrors.NewInvalidProblemError("item", in.ID, fmt.Sprintf("invalid pick frequency %g", *in.Frequency))
	}

	volume := defaultVolume
	if in.Volume != nil {
		volume = *in.Volume
	}
	if !(volume > 0) || math.IsInf(volume, 0) {
		return Item{}, slotErrors.NewInvalidProblemError("item", in.ID, fmt.Sprintf("invalid volume %g", volume))
	}

	return Item{
		ID:        in.ID,
		Volume:    volume,
		Par:       *in.Par,
		Frequency: *in.Frequency,
	}, nil
}

func normalizeShelf(in ShelfInput) (Shelf, error) {
	if in.ID == "" {
		return Shelf{}, slotErrors.NewInvalidProblemError("shelf", "", "empty identifier")
	}
	if in.Distance < 0 || math.IsNaN(in.Distance) || math.IsInf(in.Distance, 0) {
		return Shelf{}, slotErrors.NewInvalidProblemError("shelf", in.ID, fmt.Sprintf("invalid distance %g", in.Distance))
	}
	if !(in.Capacity > 0) || math.IsInf(in.Capacity, 0) {
		return Shelf{}, slotErrors.NewInvalidProblemError("shelf", in.ID, fmt.Sprintf("capacity must be positive, got %g", in.Capacity))
	}
	return Shelf(in), nil
}

// NumItems returns the number of items
func (p *Problem) NumItems() int {
	return len(p.items)
}

// NumShelves returns the number of shelves
func (p *Problem) NumShelves() int {
	return len(p.shelves)
}

// NumVars returns the number of binary assignment variables
func (p *Problem) NumVars() int {
	return len(p.items) * len(p.shelves)
}

// Item returns the item at index i
func (p *Problem) Item(i int) Item {
	return p.items[i]
}

// Shelf returns the shelf at index s
func (p *Problem) Shelf(s int) Shelf {
	return p.shelves[s]
}

// Items returns a copy of the items in index order
func (p *Problem) Items() []Item {
	out := make([]Item, len(p.items))
	copy(out, p.items)
	return out
}

// Shelves returns a copy of the shelves in index order
func (p *Problem) Shelves() []Shelf {
	out := make([]Shelf, len(p.shelves))
	copy(out, p.shelves)
	return out
}

// SlotLimit returns the maximum number of items per shelf
func (p *Problem) SlotLimit() int {
	return p.slotLimit
}

// Load returns volume × par for item i
func (p *Problem) Load(i int) float64 {
	return p.loads[i]
}

// Cost returns the objective coefficient of placing item i on shelf s
func (p *Problem) Cost(i, s int) float64 {
	return p.items[i].Frequency * p.shelves[s].Distance
}

// Var returns the variable index of (item i, shelf s)
func (p *Problem) Var(i, s int) int {
	return i*len(p.shelves) + s
}

// Split returns the item and shelf of variable v
func (p *Problem) Split(v int) (item, shelf int) {
	return v / len(p.shelves), v % len(p.shelves)
}

// ItemIndex returns the index of the item with the given identifier, or -1
func (p *Problem) ItemIndex(id string) int {
	if i, ok := p.itemIndex[id]; ok {
		return i
	}
	return -1
}

// ShelfIndex returns the index of the shelf with the given identifier, or -1
func (p *Problem) ShelfIndex(id string) int {
	if s, ok := p.shelfIndex[id]; ok {
		return s
	}
	return -1
}

// TotalLoad returns the summed load of all items
func (p *Problem) TotalLoad() float64 {
	var total float64
	for _, l := range p.loads {
		total += l
	}
	return total
}

// TotalCapacity returns the summed capacity of all shelves
func (p *Problem) TotalCapacity() float64 {
	var total float64
	for _, s := range p.shelves {
		total += s.Capacity
	}
	return total
}

// Fingerprint returns a hash identifying the problem's contents
func (p *Problem) Fingerprint() uint64 {
	return p.fingerprint
}

// Objective returns the cost of a complete assignment.
// Unassigned items contribute nothing.
func (p *Problem) Objective(a Assignment) float64 {
	var total float64
	for i, s := range a {
		if s == Unassigned {
			continue
		}
		total += p.Cost(i, s)
	}
	return total
}

// Pairs converts an assignment to (item id, shelf id) pairs in item order
func (p *Problem) Pairs(a Assignment) []Pair {
	pairs := make([]Pair, 0, len(a))
	for i, s := range a {
		if s == Unassigned {
			continue
		}
		pairs = append(pairs, Pair{Item: p.items[i].ID, Shelf: p.shelves[s].ID})
	}
	return pairs
}

// WithCapacity returns a copy of the problem with one shelf's capacity replaced.
// It is used for sensitivity checks; the receiver is not modified.
func (p *Problem) WithCapacity(shelfID string, capacity float64) (*Problem, error) {
	items := make([]ItemInput, len(p.items))
	for i, item := range p.items {
		volume, par, freq := item.Volume, item.Par, item.Frequency
		items[i] = ItemInput{ID: item.ID, Volume: &volume, Par: &par, Frequency: &freq}
	}
	shelves := make([]ShelfInput, len(p.shelves))
	found := false
	for s, shelf := range p.shelves {
		shelves[s] = ShelfInput(shelf)
		if shelf.ID == shelfID {
			shelves[s].Capacity = capacity
			found = true
		}
	}
	if !found {
		return nil, slotErrors.NewInvalidProblemError("shelf", shelfID, "unknown identifier")
	}
	return NewProblem(items, shelves, WithSlotLimit(p.slotLimit))
}

// CapacitySlack returns the absolute amount by which shelf s may be overfilled
func (p *Problem) CapacitySlack(s int) float64 {
	return CapacityTolerance * p.shelves[s].Capacity
}
