package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/tzuchia/backtest"
	"github.com/tzuchia/backtest/date"
)

// CompareChart renders the comparison as a PNG line chart, the strategy in
// solid blue against the benchmark in dashed gray. Returns raw PNG bytes.
func CompareChart(r *backtest.CompareReport) ([]byte, error) {
	if len(r.Entries) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(r.Entries))
	}

	xValues := make([]time.Time, len(r.Entries))
	strategyY := make([]float64, len(r.Entries))
	benchmarkY := make([]float64, len(r.Entries))
	for i, e := range r.Entries {
		xValues[i] = timeOf(e.Date)
		strategyY[i] = float64(e.Strategy)
		benchmarkY[i] = float64(e.Benchmark)
	}

	strategySeries := chart.TimeSeries{
		Name: "Strategy",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: strategyY,
	}
	benchmarkSeries := chart.TimeSeries{
		Name: r.Benchmark.String(),
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"), // gray-400
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: benchmarkY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("%s vs %s", symbolList(r.Basket), r.Benchmark),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%+.0f%%", f)
				}
				return ""
			},
		},
		Series: []chart.Series{strategySeries, benchmarkSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

// ProjectionChart renders the projected value of a savings plan against the
// amount paid in. Returns raw PNG bytes.
func ProjectionChart(r *backtest.ProjectionReport) ([]byte, error) {
	if len(r.Points) < 2 {
		return nil, fmt.Errorf("need at least 2 data points, got %d", len(r.Points))
	}

	xValues := make([]time.Time, len(r.Points))
	valueY := make([]float64, len(r.Points))
	principalY := make([]float64, len(r.Points))
	for i, p := range r.Points {
		xValues[i] = timeOf(p.Day)
		valueY[i] = p.Value
		principalY[i] = p.Principal
	}

	valueSeries := chart.TimeSeries{
		Name: "Projected Value",
		Style: chart.Style{
			StrokeColor: drawing.ColorFromHex("2563eb"),
			StrokeWidth: 2.5,
		},
		XValues: xValues,
		YValues: valueY,
	}
	principalSeries := chart.TimeSeries{
		Name: "Paid In",
		Style: chart.Style{
			StrokeColor:     drawing.ColorFromHex("9ca3af"),
			StrokeWidth:     1.5,
			StrokeDashArray: []float64{5.0, 3.0},
		},
		XValues: xValues,
		YValues: principalY,
	}

	graph := chart.Chart{
		Title:  fmt.Sprintf("Savings Plan at %s", r.AnnualRate),
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0fk", f/1000)
				}
				return ""
			},
		},
		Series: []chart.Series{valueSeries, principalSeries},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}
	return buf.Bytes(), nil
}

func timeOf(d date.Date) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}
