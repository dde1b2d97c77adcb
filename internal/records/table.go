package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// table is a header row plus data rows
type table struct {
	source string
	header map[string]int
	rows   [][]string
	// line is the 1-based source line of each row
	line []int
}

func readTable(path string) (*table, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	var raw [][]string
	switch format {
	case FormatCSV:
		raw, err = readCSV(path)
	case FormatXLSX:
		raw, err = readXLSX(path)
	default:
		return nil, fmt.Errorf("%s: %s is not a tabular format", path, format)
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no header row", path)
	}

	t := &table{source: path, header: make(map[string]int, len(raw[0]))}
	for col, name := range raw[0] {
		key := normalizeHeader(name)
		if key == "" {
			continue
		}
		if _, dup := t.header[key]; !dup {
			t.header[key] = col
		}
	}
	for n, row := range raw[1:] {
		if blank(row) {
			continue
		}
		t.rows = append(t.rows, row)
		t.line = append(t.line, n+2)
	}
	return t, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		rows = append(rows, row)
	}
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return rows, nil
}

func normalizeHeader(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// column returns the index of the named column
func (t *table) column(name string) (int, error) {
	col, ok := t.header[normalizeHeader(name)]
	if !ok {
		return 0, fmt.Errorf("%s: missing column %q", t.source, name)
	}
	return col, nil
}

// optionalColumn returns the index of the named column or -1
func (t *table) optionalColumn(name string) int {
	if col, ok := t.header[normalizeHeader(name)]; ok {
		return col
	}
	return -1
}

// cell returns the trimmed cell text; short rows read as empty
func (t *table) cell(row, col int) string {
	if col < 0 || col >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][col])
}

func (t *table) float(row, col int, name string) (*float64, error) {
	text := t.cell(row, col)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64)
	if err != nil {
		return nil, fmt.Errorf("%s line %d: %s %q is not a number", t.source, t.line[row], name, text)
	}
	return &v, nil
}

func (t *table) integer(row, col int, name string) (*int, error) {
	v, err := t.float(row, col, name)
	if err != nil || v == nil {
		return nil, err
	}
	if *v != float64(int(*v)) {
		return nil, fmt.Errorf("%s line %d: %s %g is not a whole number", t.source, t.line[row], name, *v)
	}
	n := int(*v)
	return &n, nil
}
