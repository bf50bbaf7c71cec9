package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"excel-analytics/internal/dataset"
)

// Dataset is the persisted form of a parsed sheet. Rows are stored as arrays
// aligned with Columns so column order survives JSON columns that reorder
// object keys; a null cell means the row has no value for that column.
type Dataset struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id" msgpack:"id"`
	Columns   datatypes.JSON `gorm:"not null" json:"-" msgpack:"columns"`
	Rows      datatypes.JSON `gorm:"not null" json:"-" msgpack:"rows"`
	CreatedAt time.Time      `json:"created_at" msgpack:"created_at"`
}

func (d *Dataset) BeforeCreate(_ *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func NewDataset(ds *dataset.Dataset) (*Dataset, error) {
	columns := ds.Columns
	if columns == nil {
		columns = []string{}
	}
	columnsJSON, err := json.Marshal(columns)
	if err != nil {
		return nil, fmt.Errorf("encode dataset columns failed: %w", err)
	}

	rows := make([][]dataset.Value, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		cells := make([]dataset.Value, len(columns))
		for i, column := range columns {
			cells[i] = row.Get(column)
		}
		rows = append(rows, cells)
	}
	rowsJSON, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("encode dataset rows failed: %w", err)
	}

	return &Dataset{
		Columns: datatypes.JSON(columnsJSON),
		Rows:    datatypes.JSON(rowsJSON),
	}, nil
}

func (d *Dataset) Decode() (*dataset.Dataset, error) {
	var columns []string
	if err := json.Unmarshal(d.Columns, &columns); err != nil {
		return nil, fmt.Errorf("decode dataset columns failed: %w", err)
	}
	var cells [][]dataset.Value
	if err := json.Unmarshal(d.Rows, &cells); err != nil {
		return nil, fmt.Errorf("decode dataset rows failed: %w", err)
	}

	out := &dataset.Dataset{Columns: columns, Rows: make([]dataset.Row, 0, len(cells))}
	for i, rowCells := range cells {
		if len(rowCells) > len(columns) {
			return nil, fmt.Errorf("decode dataset rows failed: row %d has %d cells for %d columns", i, len(rowCells), len(columns))
		}
		out.Rows = append(out.Rows, dataset.RowFrom(columns[:len(rowCells)], rowCells...))
	}
	return out, nil
}
