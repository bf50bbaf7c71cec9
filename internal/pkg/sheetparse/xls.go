package sheetparse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"excel-analytics/internal/dataset"
)

func readXLS(data []byte) (grid [][]dataset.Value, err error) {
	// The BIFF reader panics on some truncated workbooks.
	defer func() {
		if r := recover(); r != nil {
			grid = nil
			err = fmt.Errorf("%w: xls reader: %v", ErrCorruptFile, r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("%w: open xls: %v", ErrCorruptFile, err)
	}
	if wb.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptFile)
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: first sheet is unreadable", ErrCorruptFile)
	}

	grid = make([][]dataset.Value, 0, int(sheet.MaxRow)+1)
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := sheetRow(sheet, r)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		last := row.LastCol()
		cells := make([]dataset.Value, last)
		for c := row.FirstCol(); c < last; c++ {
			cells[c] = xlsValue(row.Col(c))
		}
		grid = append(grid, cells)
	}
	return grid, nil
}

// sheetRow returns nil for an index with no ROW record. WorkSheet.Row
// dereferences the missing map entry instead of returning nil.
func sheetRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// xlsValue infers a scalar from the formatted text the BIFF reader yields.
func xlsValue(raw string) dataset.Value {
	if raw == "" {
		return dataset.Missing
	}
	if n, ok := parseNumber(raw); ok {
		return dataset.Number(n)
	}
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "TRUE":
		return dataset.Bool(true)
	case "FALSE":
		return dataset.Bool(false)
	}
	return dataset.Text(raw)
}
