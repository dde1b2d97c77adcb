package model

// DefaultSlotLimit is the maximum number of distinct items on one shelf
const DefaultSlotLimit = 50

// DefaultVolume is the unit volume assumed for items that do not report one
const DefaultVolume = 80.0

// Unassigned marks an item that has no shelf yet
const Unassigned = -1

// CapacityTolerance is the relative slack allowed on a shelf's capacity
const CapacityTolerance = 1e-6

// ItemInput is an item as supplied by a data source.
// Nil fields are missing values.
type ItemInput struct {
	ID        string
	Volume    *float64
	Par       *int
	Frequency *float64
}

// ShelfInput is a shelf as supplied by a data source
type ShelfInput struct {
	ID       string
	Distance float64
	Capacity float64
}

// Item is a validated, normalized item
type Item struct {
	ID        string
	Volume    float64
	Par       int
	Frequency float64
}

// Load returns the volume the item occupies on a shelf (volume × par)
func (i Item) Load() float64 {
	return i.Volume * float64(i.Par)
}

// Shelf is a validated shelf
type Shelf struct {
	ID       string
	Distance float64
	Capacity float64
}

// Pair is one (item, shelf) entry of an assignment
type Pair struct {
	Item  string `json:"item" yaml:"item"`
	Shelf string `json:"shelf" yaml:"shelf"`
}

// Assignment maps item index to shelf index
type Assignment []int

// NewAssignment returns an assignment with every item unassigned
func NewAssignment(numItems int) Assignment {
	a := make(Assignment, numItems)
	for i := range a {
		a[i] = Unassigned
	}
	return a
}

// Clone returns a copy of the assignment
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}

// Complete returns true if every item has a shelf
func (a Assignment) Complete() bool {
	for _, s := range a {
		if s == Unassigned {
			return false
		}
	}
	return true
}

// Equal reports whether two assignments bind every item to the same shelf
func (a Assignment) Equal(b Assignment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
