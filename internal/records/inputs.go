package records

import (
	"fmt"

	"slotting.dev/slotting/internal/model"
)

// ItemColumns names the item columns
type ItemColumns struct {
	ID        string `mapstructure:"id" yaml:"id" validate:"required"`
	Volume    string `mapstructure:"volume" yaml:"volume" validate:"required"`
	Par       string `mapstructure:"par" yaml:"par" validate:"required"`
	Frequency string `mapstructure:"frequency" yaml:"frequency" validate:"required"`
}

// ShelfColumns names the shelf columns
type ShelfColumns struct {
	ID       string `mapstructure:"id" yaml:"id" validate:"required"`
	Distance string `mapstructure:"distance" yaml:"distance" validate:"required"`
	Capacity string `mapstructure:"capacity" yaml:"capacity" validate:"required"`
}

// DefaultItemColumns matches the warehouse item workbook
var DefaultItemColumns = ItemColumns{
	ID:        "Item Number",
	Volume:    "Volume (Cubic In.)",
	Par:       "Par",
	Frequency: "Total Picks",
}

// DefaultShelfColumns matches the warehouse shelf workbook
var DefaultShelfColumns = ShelfColumns{
	ID:       "Shelf Number",
	Distance: "Distance",
	Capacity: "Scaled Capacity",
}

// ItemSet is the result of reading item records
type ItemSet struct {
	Items []model.ItemInput
	// Dropped lists items left out because par or frequency was missing
	Dropped []string
}

// ReadItems reads item records. Rows missing par or frequency are dropped and
// listed in the result; the volume column is optional.
func ReadItems(path string, cols ItemColumns) (*ItemSet, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idCol, err := t.column(cols.ID)
	if err != nil {
		return nil, err
	}
	parCol, err := t.column(cols.Par)
	if err != nil {
		return nil, err
	}
	freqCol, err := t.column(cols.Frequency)
	if err != nil {
		return nil, err
	}
	volumeCol := t.optionalColumn(cols.Volume)

	set := &ItemSet{}
	for row := range t.rows {
		id := t.cell(row, idCol)
		if id == "" {
			return nil, fmt.Errorf("%s line %d: empty %s", path, t.line[row], cols.ID)
		}
		volume, err := t.float(row, volumeCol, cols.Volume)
		if err != nil {
			return nil, err
		}
		par, err := t.integer(row, parCol, cols.Par)
		if err != nil {
			return nil, err
		}
		freq, err := t.float(row, freqCol, cols.Frequency)
		if err != nil {
			return nil, err
		}
		if par == nil || freq == nil {
			set.Dropped = append(set.Dropped, id)
			continue
		}
		set.Items = append(set.Items, model.ItemInput{ID: id, Volume: volume, Par: par, Frequency: freq})
	}
	return set, nil
}

// ReadShelves reads shelf records. Every column is required.
func ReadShelves(path string, cols ShelfColumns) ([]model.ShelfInput, error) {
	t, err := readTable(path)
	if err != nil {
		return nil, err
	}
	idCol, err := t.column(cols.ID)
	if err != nil {
		return nil, err
	}
	distCol, err := t.column(cols.Distance)
	if err != nil {
		return nil, err
	}
	capCol, err := t.column(cols.Capacity)
	if err != nil {
		return nil, err
	}

	shelves := make([]model.ShelfInput, 0, len(t.rows))
	for row := range t.rows {
		id := t.cell(row, idCol)
		if id == "" {
			return nil, fmt.Errorf("%s line %d: empty %s", path, t.line[row], cols.ID)
		}
		dist, err := t.float(row, distCol, cols.Distance)
		if err != nil {
			return nil, err
		}
		capacity, err := t.float(row, capCol, cols.Capacity)
		if err != nil {
			return nil, err
		}
		if dist == nil || capacity == nil {
			return nil, fmt.Errorf("%s line %d: shelf %q is missing %s or %s", path, t.line[row], id, cols.Distance, cols.Capacity)
		}
		shelves = append(shelves, model.ShelfInput{ID: id, Distance: *dist, Capacity: *capacity})
	}
	return shelves, nil
}
