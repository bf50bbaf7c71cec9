// Package projection derives chart series from two columns of a dataset.
package projection

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"excel-analytics/internal/dataset"
)

// Chart is the visualization a projection is built for.
type Chart string

const (
	ChartBar     Chart = "bar"
	ChartLine    Chart = "line"
	ChartPie     Chart = "pie"
	ChartScatter Chart = "scatter"
	Chart3D      Chart = "3d"
)

// Shape tells the client which series fields are populated.
type Shape string

const (
	ShapeCategory Shape = "category"
	ShapePoints   Shape = "points"
	ShapeNone     Shape = "none"
)

var ErrUnknownChart = errors.New("unknown chart type")

// ParseChart normalizes a client supplied chart name.
func ParseChart(s string) (Chart, error) {
	c := Chart(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case ChartBar, ChartLine, ChartPie, ChartScatter, Chart3D:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChart, s)
	}
}

// bothNumeric reports whether the chart plots x as a number too.
func (c Chart) bothNumeric() bool {
	return c == ChartScatter || c == Chart3D
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Result is a CategorySeries (Labels/Values), a PointSeries (Points) or no data.
type Result struct {
	Chart  Chart     `json:"chart"`
	Shape  Shape     `json:"shape"`
	Label  string    `json:"label,omitempty"`
	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Points []Point   `json:"points,omitempty"`
}

func (r Result) NoData() bool { return r.Shape == ShapeNone }

// Project builds the series for chart from the xColumn/yColumn pair of ds.
// Rows whose cells are absent or not numeric where required are skipped; an empty
// selection or no surviving rows gives a ShapeNone result, never an error.
func Project(ds *dataset.Dataset, xColumn, yColumn string, chart Chart) (Result, error) {
	switch chart {
	case ChartBar, ChartLine, ChartPie, ChartScatter, Chart3D:
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownChart, chart)
	}

	none := Result{Chart: chart, Shape: ShapeNone}
	if ds == nil || strings.TrimSpace(xColumn) == "" || strings.TrimSpace(yColumn) == "" {
		return none, nil
	}

	label := yColumn + " vs " + xColumn
	if chart == ChartScatter {
		var points []Point
		for _, row := range ds.Rows {
			x, okX := numeric(row.Get(xColumn))
			y, okY := numeric(row.Get(yColumn))
			if !okX || !okY {
				continue
			}
			points = append(points, Point{X: x, Y: y})
		}
		if len(points) == 0 {
			return none, nil
		}
		return Result{Chart: chart, Shape: ShapePoints, Label: label, Points: points}, nil
	}

	var (
		labels []string
		values []float64
	)
	for _, row := range ds.Rows {
		xv := row.Get(xColumn)
		if xv.IsMissing() {
			continue
		}
		if chart.bothNumeric() {
			if _, ok := numeric(xv); !ok {
				continue
			}
		}
		y, ok := numeric(row.Get(yColumn))
		if !ok {
			continue
		}
		labels = append(labels, xv.String())
		values = append(values, y)
	}
	if len(values) == 0 {
		return none, nil
	}
	return Result{Chart: chart, Shape: ShapeCategory, Label: label, Labels: labels, Values: values}, nil
}

// numeric coerces a cell: numbers pass through, text goes through decimal parsing,
// booleans and absent cells are not numeric.
func numeric(v dataset.Value) (float64, bool) {
	switch v.Kind() {
	case dataset.KindNumber:
		n, _ := v.Float()
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case dataset.KindText:
		s, _ := v.Text()
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
