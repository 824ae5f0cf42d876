package aggregate

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

func shopRows() []dataset.Row {
	return []dataset.Row{
		{"region": "North", "product": "A", "sales": "10", "units": "1"},
		{"region": "South", "product": "A", "sales": "30", "units": "3"},
		{"region": "North", "product": "B", "sales": "20", "units": "2"},
		{"region": "East", "product": "B", "sales": "5", "units": "1"},
		{"region": "", "product": "C", "sales": "100", "units": "9"},
		{"region": "South", "product": "C", "sales": "n/a", "units": "4"},
		{"region": "West", "product": "A", "sales": "1", "units": "1"},
	}
}

func TestBarSumSortedDesc(t *testing.T) {
	pl, err := Run(shopRows(), chart.Bar, chart.Parameters{XAxis: "region", YAxis: "sales"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 4)
	assert.Equal(t, "North", pl.Data[0]["category"])
	assert.Equal(t, 30.0, pl.Data[0]["value"])
	assert.Equal(t, "South", pl.Data[1]["category"])
	assert.Equal(t, 30.0, pl.Data[1]["value"], "non-numeric sales is skipped")
	assert.Equal(t, "West", pl.Data[3]["category"])
	assert.Equal(t, chart.AggSum, pl.Metadata["aggregation"])
	assert.Equal(t, "Sales by Region", pl.Title)
	assert.NotEmpty(t, pl.Interpretation)

	total := 0
	for _, r := range pl.Data {
		total += r["count"].(int)
	}
	assert.Equal(t, 6, total, "counts cover every row with a non-null x")
	assert.Equal(t, 6, pl.Metadata["total_points"])
}

func TestBarCountFallback(t *testing.T) {
	rows := []dataset.Row{{"k": "a", "v": "x"}, {"k": "a", "v": "y"}, {"k": "b", "v": "z"}}
	pl, err := Run(rows, chart.Bar, chart.Parameters{XAxis: "k", YAxis: "v", Aggregation: chart.AggMean})
	require.NoError(t, err)
	assert.Equal(t, chart.AggCount, pl.Metadata["aggregation"])
	assert.Equal(t, true, pl.Metadata["aggregation_fallback"])
	assert.Equal(t, 2.0, pl.Data[0]["value"])
}

func TestBarLimitAndAscending(t *testing.T) {
	var rows []dataset.Row
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			rows = append(rows, dataset.Row{"k": fmt.Sprintf("g%02d", i)})
		}
	}
	pl, err := Run(rows, chart.Bar, chart.Parameters{XAxis: "k"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 10, "bar defaults to 10 groups")
	assert.Equal(t, 5, pl.Metadata["truncated_groups"])
	assert.Equal(t, "g14", pl.Data[0]["category"])

	pl, err = Run(rows, chart.Bar, chart.Parameters{XAxis: "k", SortOrder: chart.SortAsc, Limit: 3})
	require.NoError(t, err)
	require.Len(t, pl.Data, 3)
	assert.Equal(t, "g00", pl.Data[0]["category"])

	pl, err = Run(rows, chart.Pie, chart.Parameters{XAxis: "k"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 7, "pie defaults to 7 slices")
}

func TestPiePercentages(t *testing.T) {
	rows := []dataset.Row{{"k": "a", "v": 30}, {"k": "b", "v": 10}, {"k": "a", "v": 10}}
	pl, err := Run(rows, chart.Pie, chart.Parameters{XAxis: "k", YAxis: "v"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 2)
	assert.Equal(t, 80.0, pl.Data[0]["percentage"])
	assert.Equal(t, 20.0, pl.Data[1]["percentage"])
	assert.Equal(t, 50.0, pl.Metadata["total_value"])
}

func TestStackedBarSegmentsNormalize(t *testing.T) {
	p := chart.Parameters{XAxis: "region", YAxis: "sales", StackBy: "product", Normalize: true}
	pl, err := Run(shopRows(), chart.StackedBar, p)
	require.NoError(t, err)
	north := pl.Data[0]
	require.Equal(t, "North", north["category"])
	segs := north["segments"].(map[string]float64)
	assert.InDelta(t, 33.33, segs["A"], 0.01)
	assert.InDelta(t, 66.67, segs["B"], 0.01)
	assert.Equal(t, "product", pl.Metadata["segment_column"])
}

func TestLineSortsNumericAndLexicographic(t *testing.T) {
	rows := []dataset.Row{{"x": "10", "y": 1}, {"x": "9", "y": 2}, {"x": "10", "y": 3}, {"x": "2", "y": 4}}
	pl, err := Run(rows, chart.Line, chart.Parameters{XAxis: "x", YAxis: "y"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 3)
	assert.Equal(t, 2.0, pl.Data[0]["x"])
	assert.Equal(t, 9.0, pl.Data[1]["x"])
	assert.Equal(t, 10.0, pl.Data[2]["x"])
	assert.Equal(t, 2.0, pl.Data[2]["y"], "mean by default")

	rows = []dataset.Row{{"x": "b", "y": 1}, {"x": "10", "y": 2}, {"x": "a", "y": 3}}
	pl, err = Run(rows, chart.Line, chart.Parameters{XAxis: "x", YAxis: "y", Aggregation: chart.AggSum})
	require.NoError(t, err)
	assert.Equal(t, "10", pl.Data[0]["x"])
	assert.Equal(t, "a", pl.Data[1]["x"])
	assert.Equal(t, "b", pl.Data[2]["x"])
	assert.Equal(t, false, pl.Metadata["x_numeric"])
}

func TestScatterDropsNonFinite(t *testing.T) {
	rows := []dataset.Row{
		{"a": 1, "b": 2, "c": "x"},
		{"a": "NaN", "b": 2},
		{"a": 3, "b": nil},
		{"a": 2, "b": 4, "c": "y"},
		{"a": 3, "b": 6, "c": "x"},
	}
	pl, err := Run(rows, chart.Scatter, chart.Parameters{XAxis: "a", YAxis: "b", ColorBy: "c"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 3)
	assert.Equal(t, 2, pl.Metadata["dropped_points"])
	assert.Equal(t, 1.0, pl.Metadata["correlation"])
	assert.Equal(t, "x", pl.Data[0]["color"])
}

func TestHistogramBinsCoverEveryValue(t *testing.T) {
	var rows []dataset.Row
	for i := 0; i <= 100; i++ {
		rows = append(rows, dataset.Row{"v": i})
	}
	rows = append(rows, dataset.Row{"v": "oops"}, dataset.Row{"v": nil})
	pl, err := Run(rows, chart.Histogram, chart.Parameters{XAxis: "v", Bins: 10})
	require.NoError(t, err)
	require.Len(t, pl.Data, 10)
	total := 0
	for _, r := range pl.Data {
		total += r["count"].(int)
	}
	assert.Equal(t, 101, total)
	assert.Equal(t, 11, pl.Data[9]["count"], "max lands in the last bin")
	assert.Equal(t, 100.0, pl.Data[9]["bin_end"])
	assert.Equal(t, 0.0, pl.Data[0]["bin_start"])
}

func TestHistogramSingleValue(t *testing.T) {
	rows := []dataset.Row{{"v": 5}, {"v": 5}}
	pl, err := Run(rows, chart.Histogram, chart.Parameters{XAxis: "v"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 1)
	assert.Equal(t, 2, pl.Data[0]["count"])
}

func TestBoxQuartilesNearestRank(t *testing.T) {
	var rows []dataset.Row
	for i := 1; i <= 10; i++ {
		rows = append(rows, dataset.Row{"g": "one", "v": i})
	}
	pl, err := Run(rows, chart.Box, chart.Parameters{XAxis: "g", YAxis: "v"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 1)
	b := pl.Data[0]
	assert.Equal(t, 3.0, b["q1"])
	assert.Equal(t, 6.0, b["median"])
	assert.Equal(t, 8.0, b["q3"])
	assert.Equal(t, 1.0, b["min"])
	assert.Equal(t, 10.0, b["max"])
	assert.NotContains(t, b, "outliers")
}

func TestBoxOutliersOnlyWhenRequested(t *testing.T) {
	rows := []dataset.Row{}
	for _, v := range []int{10, 11, 12, 13, 14, 15, 16, 100} {
		rows = append(rows, dataset.Row{"v": v})
	}
	pl, err := Run(rows, chart.Box, chart.Parameters{YAxis: "v", ShowOutliers: true})
	require.NoError(t, err)
	b := pl.Data[0]
	assert.Equal(t, []float64{100}, b["outliers"])
	assert.Equal(t, 16.0, b["max"], "whisker stops at the fence")
	assert.Equal(t, "v", b["group"])

	pl, err = Run(rows, chart.Violin, chart.Parameters{YAxis: "v"})
	require.NoError(t, err)
	assert.Len(t, pl.Data[0]["values"], 8)
}

func TestHeatmapFullGrid(t *testing.T) {
	rows := []dataset.Row{
		{"a": "x1", "b": "y1", "v": 2},
		{"a": "x1", "b": "y1", "v": 3},
		{"a": "x2", "b": "y2", "v": 7},
		{"a": "x3", "b": nil, "v": 1},
	}
	pl, err := Run(rows, chart.Heatmap, chart.Parameters{XAxis: "a", YAxis: "b"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 4, "2 x values × 2 y values, zero cells included")
	assert.Equal(t, Record{"x": "x1", "y": "y1", "value": 2.0, "count": 2}, pl.Data[0])
	assert.Equal(t, 0.0, pl.Data[1]["value"])
	assert.Equal(t, []string{"x1", "x2"}, pl.Metadata["x_values"])
	assert.Equal(t, 0.0, pl.Metadata["min_value"])
	assert.Equal(t, 2.0, pl.Metadata["max_value"])

	pl, err = Run(rows, chart.Heatmap, chart.Parameters{XAxis: "a", YAxis: "b", ValueColumn: "v"})
	require.NoError(t, err)
	assert.Equal(t, 5.0, pl.Data[0]["value"])
	assert.Equal(t, 7.0, pl.Metadata["max_value"])
}

func TestHeatmapMissingAxisFails(t *testing.T) {
	_, err := Run(shopRows(), chart.Heatmap, chart.Parameters{XAxis: "region"})
	var ve *chart.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, chart.CodeMissingRequired, ve.Violations[0].Code)
}

func TestRadarGroupsAndLimit(t *testing.T) {
	var rows []dataset.Row
	for i := 0; i < 8; i++ {
		rows = append(rows, dataset.Row{"team": fmt.Sprintf("t%d", i), "speed": i, "power": 10 - i, "label": "x"})
	}
	pl, err := Run(rows, chart.Radar, chart.Parameters{GroupBy: "team"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 6)
	assert.Equal(t, []string{"power", "speed"}, pl.Metadata["axes"])
	assert.Equal(t, 2, pl.Metadata["truncated_groups"])
	assert.Equal(t, "t0", pl.Data[0]["group"])

	pl, err = Run(rows, chart.Radar, chart.Parameters{})
	require.NoError(t, err)
	require.Len(t, pl.Data, 1)
	vals := pl.Data[0]["values"].(map[string]float64)
	assert.Equal(t, 3.5, vals["speed"])
}

func TestGanttSpans(t *testing.T) {
	rows := []dataset.Row{
		{"task": "Build", "start": "2024-02-01", "end": "2024-02-11"},
		{"task": "Design", "start": "2024-01-01", "end": "2024-01-31"},
		{"task": "Broken", "start": "2024-03-01", "end": "2024-02-01"},
	}
	pl, err := Run(rows, chart.Gantt, chart.Parameters{YAxis: "task", XAxis: "start", EndColumn: "end"})
	require.NoError(t, err)
	require.Len(t, pl.Data, 2)
	assert.Equal(t, "Design", pl.Data[0]["task"])
	assert.Equal(t, 30.0, pl.Data[0]["duration_days"])
	assert.Equal(t, 1, pl.Metadata["skipped_rows"])
	assert.Equal(t, "2024-02-11", pl.Metadata["latest"])
}

func TestRunIsPure(t *testing.T) {
	rows := shopRows()
	before := fmt.Sprint(rows)
	for _, ct := range []chart.ChartType{chart.Bar, chart.Pie, chart.Line, chart.Scatter, chart.Histogram, chart.Box, chart.Heatmap, chart.Radar} {
		p := chart.Parameters{XAxis: "region", YAxis: "sales"}
		switch ct {
		case chart.Line, chart.Scatter:
			p = chart.Parameters{XAxis: "units", YAxis: "sales"}
		case chart.Histogram:
			p = chart.Parameters{XAxis: "sales"}
		case chart.Heatmap:
			p = chart.Parameters{XAxis: "region", YAxis: "product"}
		case chart.Radar:
			p = chart.Parameters{GroupBy: "region"}
		}
		a, err := Run(rows, ct, p)
		require.NoError(t, err, ct)
		b, err := Run(rows, ct, p)
		require.NoError(t, err, ct)
		assert.Equal(t, a, b, ct)
	}
	assert.Equal(t, before, fmt.Sprint(rows))
}

func TestRunUnsupported(t *testing.T) {
	_, err := Run(nil, "sankey", chart.Parameters{})
	assert.Equal(t, chart.CodeUnsupportedChartType, chart.ViolationsOf(err)[0].Code)
}

func TestPayloadMarkdown(t *testing.T) {
	pl, err := Run(shopRows(), chart.Bar, chart.Parameters{XAxis: "region", YAxis: "sales"})
	require.NoError(t, err)
	md := pl.Markdown()
	assert.Contains(t, md, "[CHART] Sales by Region (bar)\n")
	assert.Contains(t, md, "| category | value | count |")
	assert.Contains(t, md, "| North | 30 | 2 |")
	assert.NotContains(t, md, "more rows")
}

func TestPayloadMarkdownCapsRows(t *testing.T) {
	var rows []dataset.Row
	for i := 0; i < 60; i++ {
		rows = append(rows, dataset.Row{"a": fmt.Sprint(i), "b": fmt.Sprint(i * 2)})
	}
	pl, err := Run(rows, chart.Scatter, chart.Parameters{XAxis: "a", YAxis: "b"})
	require.NoError(t, err)
	md := pl.Markdown()
	assert.Contains(t, md, "| x | y |")
	assert.Contains(t, md, "... 10 more rows")
	assert.NotContains(t, md, "| 59 | 118 |")
}

func TestHeatmapHonorsAggregation(t *testing.T) {
	rows := []dataset.Row{
		{"a": "x", "b": "p", "v": 1},
		{"a": "x", "b": "p", "v": 9},
		{"a": "x", "b": "q", "v": 4},
	}
	for agg, want := range map[string]float64{
		chart.AggSum:   10,
		chart.AggMean:  5,
		chart.AggMin:   1,
		chart.AggMax:   9,
		chart.AggCount: 2,
	} {
		pl, err := Run(rows, chart.Heatmap, chart.Parameters{XAxis: "a", YAxis: "b", ValueColumn: "v", Aggregation: agg})
		require.NoError(t, err, agg)
		assert.Equal(t, agg, pl.Metadata["aggregation"])
		assert.Equal(t, want, pl.Data[0]["value"], agg)
	}
}

func TestBoxMeanMatchesProfile(t *testing.T) {
	rows := []dataset.Row{}
	for _, v := range []float64{1.5, 2.5, 4, 8} {
		rows = append(rows, dataset.Row{"v": v})
	}
	pl, err := Run(rows, chart.Box, chart.Parameters{YAxis: "v"})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pl.Data[0]["mean"], 1e-9)
}

func TestLineInterpretationNegativeStart(t *testing.T) {
	rows := []dataset.Row{
		{"t": "1", "v": "-10"},
		{"t": "2", "v": "-5"},
	}
	pl, err := Run(rows, chart.Line, chart.Parameters{XAxis: "t", YAxis: "v"})
	require.NoError(t, err)
	assert.Contains(t, pl.Interpretation, "(+50.0%)")
}
