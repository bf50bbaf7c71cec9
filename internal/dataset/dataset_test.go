package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowKeepsColumnOrder(t *testing.T) {
	row := RowFrom([]string{"Zeta", "Alpha", "Mid"}, Text("z"), Number(1), Bool(true))

	out, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Equal(t, `{"Zeta":"z","Alpha":1,"Mid":true}`, string(out))
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, row.Columns())
}

func TestRowSkipsMissingCells(t *testing.T) {
	row := RowFrom([]string{"A", "B", "C"}, Text("a"), Missing, Number(3))

	assert.Equal(t, 2, row.Len())
	assert.False(t, row.Has("B"))
	assert.True(t, row.Get("B").IsMissing())

	row.Set("A", Missing)
	assert.Equal(t, []string{"C"}, row.Columns())
}

func TestRowUnmarshalPreservesOrderAndTypes(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"b":"x","a":2.5,"c":false,"d":null}`), &row)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c"}, row.Columns())
	n, ok := row.Get("a").Float()
	assert.True(t, ok)
	assert.Equal(t, 2.5, n)
	assert.Equal(t, KindBool, row.Get("c").Kind())
	assert.Equal(t, KindText, row.Get("b").Kind())
}

func TestRowUnmarshalRejectsNestedValues(t *testing.T) {
	var row Row
	err := json.Unmarshal([]byte(`{"a":{"nested":1}}`), &row)
	assert.Error(t, err)

	err = json.Unmarshal([]byte(`[1,2]`), &row)
	assert.Error(t, err)
}

func TestDatasetJSONShape(t *testing.T) {
	ds := Dataset{
		Columns: []string{"City", "Sales"},
		Rows: []Row{
			RowFrom([]string{"City", "Sales"}, Text("A"), Number(10)),
			RowFrom([]string{"City", "Sales"}, Text("B")),
		},
		Renamed: []ColumnRename{{Position: 1, Original: "x", Column: "x_2"}},
	}

	out, err := json.Marshal(ds)
	require.NoError(t, err)
	assert.JSONEq(t, `{"columns":["City","Sales"],"rows":[{"City":"A","Sales":10},{"City":"B"}]}`, string(out))

	var decoded Dataset
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, ds.Columns, decoded.Columns)
	assert.Equal(t, ds.Rows, decoded.Rows)
	assert.Nil(t, decoded.Renamed)
}

func TestEmptyDatasetEncodesArrays(t *testing.T) {
	out, err := json.Marshal(Dataset{})
	require.NoError(t, err)
	assert.Equal(t, `{"columns":[],"rows":[]}`, string(out))
}

func TestValueString(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want string
	}{
		{"integer", Number(10), "10"},
		{"decimal", Number(2.75), "2.75"},
		{"negative", Number(-3), "-3"},
		{"text", Text("Berlin"), "Berlin"},
		{"bool", Bool(false), "false"},
		{"missing", Missing, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.v.String())
		})
	}
}

func TestHasColumn(t *testing.T) {
	ds := &Dataset{Columns: []string{"A", ""}}
	assert.True(t, ds.HasColumn("A"))
	assert.True(t, ds.HasColumn(""))
	assert.False(t, ds.HasColumn("B"))
}
