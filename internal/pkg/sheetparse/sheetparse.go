// Package sheetparse turns the first sheet of an .xlsx or .xls workbook into a dataset.
package sheetparse

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"excel-analytics/internal/dataset"
)

// Kind identifies a supported spreadsheet container.
type Kind string

const (
	KindXLSX Kind = "xlsx"
	KindXLS  Kind = "xls"
)

var (
	ErrUnsupportedKind = errors.New("only .xls and .xlsx files are allowed")
	ErrEmptyDataset    = errors.New("excel file is empty or has no data")
	ErrCorruptFile     = errors.New("excel file could not be read")
)

// KindFromFilename maps a file extension onto a Kind without looking at the content.
func KindFromFilename(name string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(name)))
	switch ext {
	case ".xlsx":
		return KindXLSX, nil
	case ".xls":
		return KindXLS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, ext)
	}
}

// Parse reads the first sheet of data. The first non-blank row is the header;
// every non-blank row below it becomes a dataset row.
func Parse(data []byte, kind Kind) (*dataset.Dataset, error) {
	var (
		grid [][]dataset.Value
		err  error
	)
	switch kind {
	case KindXLSX:
		grid, err = readXLSX(data)
	case KindXLS:
		grid, err = readXLS(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if err != nil {
		return nil, err
	}
	return buildDataset(grid)
}

func buildDataset(grid [][]dataset.Value) (*dataset.Dataset, error) {
	start := 0
	for start < len(grid) && blankRow(grid[start]) {
		start++
	}
	if start == len(grid) {
		return nil, ErrEmptyDataset
	}

	width := 0
	for _, cells := range grid[start:] {
		if w := rowWidth(cells); w > width {
			width = w
		}
	}

	header := grid[start]
	names := make([]string, width)
	for i := range names {
		if i < len(header) {
			names[i] = header[i].String()
		}
	}
	columns, renamed := uniqueColumns(names)

	rows := make([]dataset.Row, 0, len(grid)-start-1)
	for _, cells := range grid[start+1:] {
		if blankRow(cells) {
			continue
		}
		rows = append(rows, buildRow(columns, cells))
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	return &dataset.Dataset{
		Columns: columns,
		Rows:    rows,
		Renamed: renamed,
	}, nil
}

// buildRow keys cells by column. Blank-header columns all share the "" key;
// the leftmost populated one holds it.
func buildRow(columns []string, cells []dataset.Value) dataset.Row {
	var row dataset.Row
	for i, v := range cells {
		if i >= len(columns) || v.IsMissing() {
			continue
		}
		if columns[i] == "" && row.Has("") {
			continue
		}
		row.Set(columns[i], v)
	}
	return row
}

// uniqueColumns suffixes repeated header names (Sales, Sales_2, Sales_3) so no column
// shadows another inside a row. Blank headers are left as they are.
func uniqueColumns(names []string) ([]string, []dataset.ColumnRename) {
	out := make([]string, len(names))
	used := make(map[string]bool, len(names))
	next := make(map[string]int)
	var renamed []dataset.ColumnRename

	for i, name := range names {
		if name == "" {
			continue
		}
		if !used[name] {
			used[name] = true
			out[i] = name
			continue
		}
		n := next[name]
		if n == 0 {
			n = 1
		}
		candidate := name
		for used[candidate] {
			n++
			candidate = name + "_" + strconv.Itoa(n)
		}
		next[name] = n
		used[candidate] = true
		out[i] = candidate
		renamed = append(renamed, dataset.ColumnRename{Position: i, Original: name, Column: candidate})
	}
	return out, renamed
}

func rowWidth(cells []dataset.Value) int {
	for i := len(cells) - 1; i >= 0; i-- {
		if !cells[i].IsMissing() {
			return i + 1
		}
	}
	return 0
}

func blankRow(cells []dataset.Value) bool {
	return rowWidth(cells) == 0
}

func parseNumber(raw string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
