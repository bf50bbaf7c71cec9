package dataset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind tags the scalar held by a Value.
type Kind uint8

const (
	KindMissing Kind = iota
	KindNumber
	KindText
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "boolean"
	default:
		return "missing"
	}
}

// Value is a single spreadsheet cell. The zero value is Missing.
type Value struct {
	kind Kind
	num  float64
	text string
	flag bool
}

// Missing is the absent cell.
var Missing = Value{}

func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

func Text(s string) Value { return Value{kind: KindText, text: s} }

func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsMissing() bool { return v.kind == KindMissing }

// Float returns the number held by v; ok is false for every other kind.
func (v Value) Float() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Text returns the text held by v; ok is false for every other kind.
func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

// Bool returns the boolean held by v; ok is false for every other kind.
func (v Value) Bool() (bool, bool) {
	return v.flag, v.kind == KindBool
}

// String renders the cell the way a chart label shows it.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		return ""
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindText:
		return json.Marshal(v.text)
	case KindBool:
		return json.Marshal(v.flag)
	default:
		return []byte("null"), nil
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return fmt.Errorf("dataset: empty cell value")
	case bytes.Equal(trimmed, []byte("null")):
		*v = Missing
	case bytes.Equal(trimmed, []byte("true")):
		*v = Bool(true)
	case bytes.Equal(trimmed, []byte("false")):
		*v = Bool(false)
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("dataset: decode text cell: %w", err)
		}
		*v = Text(s)
	default:
		n, err := strconv.ParseFloat(string(trimmed), 64)
		if err != nil {
			return fmt.Errorf("dataset: unsupported cell value %s", trimmed)
		}
		*v = Number(n)
	}
	return nil
}
