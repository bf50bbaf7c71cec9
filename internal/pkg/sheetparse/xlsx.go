package sheetparse

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"excel-analytics/internal/dataset"
)

func readXLSX(data []byte) ([][]dataset.Value, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %v", ErrCorruptFile, err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrCorruptFile)
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: read rows from %q: %v", ErrCorruptFile, sheet, err)
	}

	grid := make([][]dataset.Value, len(rows))
	for r, row := range rows {
		cells := make([]dataset.Value, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			cellName, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrCorruptFile, err)
			}
			cellType, err := f.GetCellType(sheet, cellName)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %s: %v", ErrCorruptFile, cellName, err)
			}
			cells[c] = xlsxValue(cellType, raw)
		}
		grid[r] = cells
	}
	return grid, nil
}

// xlsxValue keeps the native cell type. Numeric cells usually carry no explicit
// type attribute, so unset cells are numbers when their raw value parses as one.
func xlsxValue(cellType excelize.CellType, raw string) dataset.Value {
	switch cellType {
	case excelize.CellTypeBool:
		if b, err := strconv.ParseBool(raw); err == nil {
			return dataset.Bool(b)
		}
		return dataset.Text(raw)
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		if n, ok := parseNumber(raw); ok {
			return dataset.Number(n)
		}
		return dataset.Text(raw)
	default:
		return dataset.Text(raw)
	}
}
