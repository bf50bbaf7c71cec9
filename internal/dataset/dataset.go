// Package dataset holds the parsed {columns, rows} shape shared by uploads,
// history responses and projections.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Dataset is the parsed content of one spreadsheet. It is never mutated after parsing.
type Dataset struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`

	// Renamed lists header cells that were disambiguated during parsing.
	Renamed []ColumnRename `json:"-"`
}

// ColumnRename records a duplicate header that received a suffix.
type ColumnRename struct {
	Position int    `json:"position"`
	Original string `json:"original"`
	Column   string `json:"column"`
}

func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

func (d Dataset) MarshalJSON() ([]byte, error) {
	columns := d.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := d.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(struct {
		Columns []string `json:"columns"`
		Rows    []Row    `json:"rows"`
	}{columns, rows})
}

// Row is a sparse record keyed by column name. Keys keep insertion order.
type Row struct {
	keys   []string
	values map[string]Value
}

// RowFrom builds a row pairing columns with values by position; Missing values are skipped.
func RowFrom(columns []string, values ...Value) Row {
	var r Row
	for i, v := range values {
		if i >= len(columns) {
			break
		}
		r.Set(columns[i], v)
	}
	return r
}

// Set stores v under column. Setting Missing removes the column from the row.
func (r *Row) Set(column string, v Value) {
	if v.IsMissing() {
		r.remove(column)
		return
	}
	if r.values == nil {
		r.values = make(map[string]Value)
	}
	if _, exists := r.values[column]; !exists {
		r.keys = append(r.keys, column)
	}
	r.values[column] = v
}

func (r *Row) remove(column string) {
	if _, exists := r.values[column]; !exists {
		return
	}
	delete(r.values, column)
	for i, k := range r.keys {
		if k == column {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value under column, or Missing.
func (r Row) Get(column string) Value {
	return r.values[column]
}

func (r Row) Has(column string) bool {
	_, ok := r.values[column]
	return ok
}

func (r Row) Len() int { return len(r.keys) }

// Columns returns the defined columns in insertion order.
func (r Row) Columns() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := r.values[k].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("dataset: encode column %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("dataset: row must be a JSON object")
	}

	*r = Row{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return errors.New("dataset: row key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("dataset: decode column %q: %w", key, err)
		}
		var v Value
		if err := v.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("dataset: column %q: %w", key, err)
		}
		r.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
