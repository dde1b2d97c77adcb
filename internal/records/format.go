// Package records reads item and shelf records from spreadsheets and writes
// assignments and search checkpoints.
//
// Item and shelf sources may be .csv files or .xlsx workbooks (first sheet).
// Columns are found by header text, so extra columns are ignored. Assignments
// can be written as csv, xlsx, json or yaml.
package records

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a file format for records
type Format string

// Supported formats
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists every supported format
var Formats = []Format{FormatCSV, FormatXLSX, FormatJSON, FormatYAML}

// ParseFormat parses a format name. "yml" is accepted for yaml.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want one of csv, xlsx, json, yaml)", name)
	}
}

// FormatFromPath infers the format from a file extension
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q: no file extension", path)
	}
	return ParseFormat(ext)
}

// tabular reports whether the format holds rows and columns
func (f Format) tabular() bool {
	return f == FormatCSV || f == FormatXLSX
}
