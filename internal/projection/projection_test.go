package projection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"excel-analytics/internal/dataset"
)

func citySales() *dataset.Dataset {
	cols := []string{"City", "Sales"}
	return &dataset.Dataset{
		Columns: cols,
		Rows: []dataset.Row{
			dataset.RowFrom(cols, dataset.Text("A"), dataset.Number(10)),
			dataset.RowFrom(cols, dataset.Text("B"), dataset.Text("x")),
			dataset.RowFrom(cols, dataset.Text("C"), dataset.Number(5)),
		},
	}
}

func TestProjectBarSkipsNonNumericY(t *testing.T) {
	res, err := Project(citySales(), "City", "Sales", ChartBar)
	require.NoError(t, err)

	assert.Equal(t, ShapeCategory, res.Shape)
	assert.Equal(t, []string{"A", "C"}, res.Labels)
	assert.Equal(t, []float64{10, 5}, res.Values)
	assert.Equal(t, "Sales vs City", res.Label)
	assert.False(t, res.NoData())
}

func TestProjectScatterNeedsNumericX(t *testing.T) {
	res, err := Project(citySales(), "City", "Sales", ChartScatter)
	require.NoError(t, err)
	assert.True(t, res.NoData())
	assert.Equal(t, ChartScatter, res.Chart)
}

func TestProjectBlankAxisIsNoData(t *testing.T) {
	for _, chart := range []Chart{ChartBar, ChartLine, ChartPie, ChartScatter, Chart3D} {
		res, err := Project(citySales(), "", "Sales", chart)
		require.NoError(t, err)
		assert.True(t, res.NoData(), "chart %s", chart)

		res, err = Project(citySales(), "City", "  ", chart)
		require.NoError(t, err)
		assert.True(t, res.NoData(), "chart %s", chart)
	}
}

func TestProjectMissingColumnIsNoData(t *testing.T) {
	res, err := Project(citySales(), "City", "Profit", ChartLine)
	require.NoError(t, err)
	assert.True(t, res.NoData())
}

func TestProjectNilDataset(t *testing.T) {
	res, err := Project(nil, "a", "b", ChartPie)
	require.NoError(t, err)
	assert.True(t, res.NoData())
}

func TestProjectNumericFamilies(t *testing.T) {
	cols := []string{"Year", "Revenue", "Region"}
	ds := &dataset.Dataset{
		Columns: cols,
		Rows: []dataset.Row{
			dataset.RowFrom(cols, dataset.Number(2021), dataset.Text(" 12.5 "), dataset.Text("EU")),
			dataset.RowFrom(cols, dataset.Text("2022"), dataset.Number(20)),
			dataset.RowFrom(cols, dataset.Text("n/a"), dataset.Number(7)),
			dataset.RowFrom(cols, dataset.Number(2024), dataset.Bool(true)),
			dataset.RowFrom(cols, dataset.Number(2025)),
			dataset.RowFrom(cols, dataset.Number(2026), dataset.Text("")),
		},
	}

	scatter, err := Project(ds, "Year", "Revenue", ChartScatter)
	require.NoError(t, err)
	assert.Equal(t, ShapePoints, scatter.Shape)
	assert.Equal(t, []Point{{X: 2021, Y: 12.5}, {X: 2022, Y: 20}}, scatter.Points)

	cube, err := Project(ds, "Year", "Revenue", Chart3D)
	require.NoError(t, err)
	assert.Equal(t, ShapeCategory, cube.Shape)
	assert.Equal(t, []string{"2021", "2022"}, cube.Labels)
	assert.Equal(t, []float64{12.5, 20}, cube.Values)

	bar, err := Project(ds, "Year", "Revenue", ChartBar)
	require.NoError(t, err)
	assert.Equal(t, []string{"2021", "2022", "n/a"}, bar.Labels)
	assert.Equal(t, []float64{12.5, 20, 7}, bar.Values)
}

func TestProjectIsIdempotent(t *testing.T) {
	ds := citySales()
	first, err := Project(ds, "City", "Sales", ChartPie)
	require.NoError(t, err)
	second, err := Project(ds, "City", "Sales", ChartPie)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestProjectUnknownChart(t *testing.T) {
	_, err := Project(citySales(), "City", "Sales", Chart("radar"))
	assert.True(t, errors.Is(err, ErrUnknownChart))
}

func TestParseChart(t *testing.T) {
	c, err := ParseChart(" Scatter ")
	require.NoError(t, err)
	assert.Equal(t, ChartScatter, c)

	c, err = ParseChart("3D")
	require.NoError(t, err)
	assert.Equal(t, Chart3D, c)

	_, err = ParseChart("donut")
	assert.ErrorIs(t, err, ErrUnknownChart)
}

func TestNumericCoercion(t *testing.T) {
	tests := []struct {
		name string
		v    dataset.Value
		want float64
		ok   bool
	}{
		{"number", dataset.Number(3), 3, true},
		{"numeric text", dataset.Text("4.25"), 4.25, true},
		{"padded text", dataset.Text("  -8 "), -8, true},
		{"exponent", dataset.Text("1e3"), 1000, true},
		{"word", dataset.Text("x"), 0, false},
		{"empty text", dataset.Text(""), 0, false},
		{"nan text", dataset.Text("NaN"), 0, false},
		{"infinity text", dataset.Text("Inf"), 0, false},
		{"boolean", dataset.Bool(true), 0, false},
		{"missing", dataset.Missing, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numeric(tt.v)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
