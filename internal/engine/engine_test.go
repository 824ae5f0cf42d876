package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

func shopTable() *dataset.Table {
	regions := []string{"North", "South", "East", "West"}
	var rows []dataset.Row
	for i := 0; i < 60; i++ {
		units := i%20 + 1
		rows = append(rows, dataset.Row{
			"region": regions[i%4],
			"units":  units,
			"sales":  float64(units)*10 + float64(i%3),
			"store":  fmt.Sprintf("s%02d", i%12),
		})
	}
	return dataset.FromRows("shop", rows, []string{"region", "store", "units", "sales"})
}

func TestRecommendBuildsProfileFromRows(t *testing.T) {
	e := New(nil)
	tb := shopTable()
	got, err := e.Recommend(context.Background(), nil, tb.Rows, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, chart.Scatter, got[0].ChartType)

	withProfile, err := e.Recommend(context.Background(), e.Profile(context.Background(), tb), nil, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(withProfile), e.MaxSuggestions)

	_, err = e.Recommend(context.Background(), nil, nil, 0)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestAggregateValidatesFirst(t *testing.T) {
	e := New(nil)
	tb := shopTable()

	_, err := e.Aggregate(context.Background(), tb.Rows, chart.Heatmap, chart.Parameters{XAxis: "region"})
	var ve *chart.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, chart.CodeMissingRequired, ve.Violations[0].Code)

	_, err = e.Aggregate(context.Background(), tb.Rows, chart.Bar, chart.Parameters{XAxis: "nope"})
	var de *chart.DataError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, chart.CodeColumnNotFound, de.Violations[0].Code)

	pl, err := e.Aggregate(context.Background(), tb.Rows, chart.Bar, chart.Parameters{XAxis: "region", YAxis: "sales"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 4)
	assert.Equal(t, chart.Bar, pl.ChartType)
	assert.NotContains(t, pl.Metadata, "warnings")
}

func TestAggregateCarriesWarnings(t *testing.T) {
	e := New(nil)
	tb := shopTable()
	pl, err := e.Aggregate(context.Background(), tb.Rows, chart.Pie, chart.Parameters{XAxis: "store", YAxis: "sales"})
	require.NoError(t, err)
	assert.Len(t, pl.Data, 7)
	ws, ok := pl.Metadata["warnings"].([]chart.Violation)
	require.True(t, ok)
	assert.Equal(t, chart.CodeTooManyCategories, ws[0].Code)
}

func TestAutoChart(t *testing.T) {
	e := New(nil)
	tb := shopTable()
	pl, params, err := e.AutoChart(context.Background(), tb, nil, chart.Histogram)
	require.NoError(t, err)
	assert.Equal(t, "units", params.XAxis)
	assert.Equal(t, 20, params.Bins)
	total := 0
	for _, r := range pl.Data {
		total += r["count"].(int)
	}
	assert.Equal(t, 60, total)

	_, _, err = e.AutoChart(context.Background(), tb, nil, chart.Gantt)
	assert.Error(t, err)
}
