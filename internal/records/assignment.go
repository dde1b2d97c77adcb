package records

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"slotting.dev/slotting/internal/model"
	"slotting.dev/slotting/internal/utilization"
)

// Assignment column headers
const (
	ItemHeader  = "Item"
	ShelfHeader = "Shelf"
)

const (
	assignmentSheet  = "Assignment"
	utilizationSheet = "Utilization"
)

// Output is a solved assignment as written to disk
type Output struct {
	Status     string                   `json:"status,omitempty" yaml:"status,omitempty"`
	Objective  float64                  `json:"objective" yaml:"objective"`
	LowerBound *float64                 `json:"lower_bound,omitempty" yaml:"lower_bound,omitempty"`
	Assignment []model.Pair             `json:"assignment" yaml:"assignment"`
	Usage      []utilization.ShelfUsage `json:"usage,omitempty" yaml:"usage,omitempty"`
	Summary    *utilization.Summary     `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// WriteAssignment writes out in the given format. Tabular formats carry the
// pairs; xlsx adds a utilization sheet; json and yaml carry everything.
func WriteAssignment(path string, format Format, out *Output) error {
	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(path, out)
	case FormatXLSX:
		err = writeXLSX(path, out)
	case FormatJSON:
		err = writeJSON(path, out)
	case FormatYAML:
		err = writeYAML(path, out)
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to write assignment: %w", err)
	}
	return nil
}

func writeCSV(path string, out *Output) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	records := make([][]string, 0, len(out.Assignment)+1)
	records = append(records, []string{ItemHeader, ShelfHeader})
	for _, pair := range out.Assignment {
		records = append(records, []string{pair.Item, pair.Shelf})
	}
	if err := w.WriteAll(records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, out *Output) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), assignmentSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(assignmentSheet, "A1", &[]interface{}{ItemHeader, ShelfHeader}); err != nil {
		return err
	}
	for n, pair := range out.Assignment {
		cell, err := excelize.CoordinatesToCellName(1, n+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(assignmentSheet, cell, &[]interface{}{pair.Item, pair.Shelf}); err != nil {
			return err
		}
	}

	if len(out.Usage) > 0 {
		if _, err := f.NewSheet(utilizationSheet); err != nil {
			return err
		}
		header := []interface{}{"Shelf", "Distance", "Items", "Volume", "Capacity", "Utilization"}
		if err := f.SetSheetRow(utilizationSheet, "A1", &header); err != nil {
			return err
		}
		for n, u := range out.Usage {
			cell, err := excelize.CoordinatesToCellName(1, n+2)
			if err != nil {
				return err
			}
			row := []interface{}{u.ShelfID, u.Distance, u.Items, u.Volume, u.Capacity, u.Utilization}
			if err := f.SetSheetRow(utilizationSheet, cell, &row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(path)
}

func writeJSON(path string, out *Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func writeYAML(path string, out *Output) error {
	data, err := yaml.Marshal(out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadAssignment reads (item, shelf) pairs written by WriteAssignment or by hand.
// Tabular files need Item and Shelf columns.
func ReadAssignment(path string) ([]model.Pair, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if format.tabular() {
		t, err := readTable(path)
		if err != nil {
			return nil, err
		}
		itemCol, err := t.column(ItemHeader)
		if err != nil {
			return nil, err
		}
		shelfCol, err := t.column(ShelfHeader)
		if err != nil {
			return nil, err
		}
		pairs := make([]model.Pair, 0, len(t.rows))
		for row := range t.rows {
			pairs = append(pairs, model.Pair{Item: t.cell(row, itemCol), Shelf: t.cell(row, shelfCol)})
		}
		return pairs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var out Output
	if format == FormatJSON {
		err = json.Unmarshal(data, &out)
	} else {
		err = yaml.Unmarshal(data, &out)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return out.Assignment, nil
}
