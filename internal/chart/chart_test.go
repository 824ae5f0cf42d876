package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

func testProfile() *profile.DatasetProfile {
	return &profile.DatasetProfile{
		RowCount: 500,
		Columns: []profile.ColumnProfile{
			{Name: "region", Type: profile.Categorical, UniqueCount: 4},
			{Name: "sales", Type: profile.Numeric, UniqueCount: 480},
			{Name: "product", Type: profile.Categorical, UniqueCount: 12},
			{Name: "units", Type: profile.Numeric, UniqueCount: 90},
			{Name: "order_id", Type: profile.Categorical, UniqueCount: 500},
		},
	}
}

func codes(vs []Violation) []Code {
	out := make([]Code, len(vs))
	for i, v := range vs {
		out[i] = v.Code
	}
	return out
}

func TestRegistryIsConsistent(t *testing.T) {
	seen := map[ChartType]bool{}
	for i, r := range Registry() {
		assert.False(t, seen[r.Type], "duplicate %s", r.Type)
		seen[r.Type] = true
		assert.Equal(t, i, Index(r.Type))
		assert.NotEmpty(t, r.TitleTemplate, r.Type)
		assert.NotEmpty(t, r.InsightTemplate, r.Type)
		assert.Positive(t, r.MinDataPoints, r.Type)
		for _, role := range r.Required {
			assert.False(t, contains(r.Optional, role), "%s lists %s as required and optional", r.Type, role)
		}
	}
	assert.Len(t, Types(), 20)
	_, ok := Lookup("sankey")
	assert.False(t, ok)
}

func TestSynthesizeFirstCompatibleWithoutSelfPairing(t *testing.T) {
	cols := testProfile().Columns

	p := Synthesize(Scatter, cols)
	assert.Equal(t, "sales", p.XAxis)
	assert.Equal(t, "units", p.YAxis)

	p = Synthesize(Heatmap, cols)
	assert.Equal(t, "region", p.XAxis)
	assert.Equal(t, "product", p.YAxis)

	p = Synthesize(Bar, cols)
	assert.Equal(t, "region", p.XAxis)
	assert.Equal(t, "sales", p.YAxis)
	assert.Equal(t, AggSum, p.Aggregation)
	assert.Equal(t, SortDesc, p.SortOrder)

	p = Synthesize(StackedBar, cols)
	assert.Equal(t, "region", p.XAxis)
	assert.Equal(t, "sales", p.YAxis)
	assert.Equal(t, "product", p.StackBy)

	assert.Equal(t, 20, Synthesize(Histogram, cols).Bins)
	assert.Equal(t, 8, Synthesize(Pie, cols).Limit)

	p = Synthesize(Box, cols)
	assert.Equal(t, "sales", p.YAxis)
	assert.Equal(t, "region", p.XAxis)
}

func TestSynthesizeLeavesUnfillableRoleUnset(t *testing.T) {
	p := Synthesize(Gantt, testProfile().Columns)
	assert.Equal(t, "region", p.YAxis)
	assert.Empty(t, p.XAxis)
	assert.Empty(t, p.EndColumn)

	p = Synthesize(Bubble, testProfile().Columns)
	assert.Empty(t, p.SizeBy)
}

func TestValidateSynthesizedBarIsClean(t *testing.T) {
	prof := testProfile()
	assert.Empty(t, Validate(Bar, Synthesize(Bar, prof.Columns), prof))
	assert.NoError(t, Check(Scatter, Synthesize(Scatter, prof.Columns), prof))
}

func TestValidateBubbleWithoutSize(t *testing.T) {
	prof := testProfile()
	vs := Validate(Bubble, Parameters{XAxis: "sales", YAxis: "units"}, prof)
	require.Contains(t, codes(vs), CodeMissingRequired)
	for _, v := range vs {
		if v.Code == CodeMissingRequired {
			assert.Equal(t, RoleSize, v.Role)
			assert.Equal(t, KindValidation, v.Kind)
			assert.NotEmpty(t, v.Suggestion)
		}
	}

	err := Check(Bubble, Parameters{XAxis: "sales", YAxis: "units"}, prof)
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.NotEmpty(t, ViolationsOf(err))
}

func TestValidateReportsEverything(t *testing.T) {
	prof := testProfile()
	prof.RowCount = 3
	p := Parameters{XAxis: "sales", YAxis: "sales", ColorBy: "missing", Normalize: true, Bins: -1, Aggregation: "median"}
	vs := Validate(Bar, p, prof)
	got := codes(vs)
	assert.Contains(t, got, CodeIncompatibleType)
	assert.Contains(t, got, CodeColumnNotFound)
	assert.Contains(t, got, CodeIncompatibleCombo)
	assert.Contains(t, got, CodeOutOfRange)
	assert.Contains(t, got, CodeInvalidValue)
	assert.NotContains(t, got, CodeInsufficientDataPoints, "bar needs only 2 rows")

	vs = Validate(Histogram, Parameters{XAxis: "sales"}, prof)
	assert.Equal(t, []Code{CodeInsufficientDataPoints}, codes(vs))
	assert.Equal(t, KindData, vs[0].Kind)
}

func TestValidateUnsupportedChartType(t *testing.T) {
	vs := Validate("sankey", Parameters{}, testProfile())
	require.Len(t, vs, 1)
	assert.Equal(t, CodeUnsupportedChartType, vs[0].Code)
}

func TestValidateCombinationRules(t *testing.T) {
	prof := testProfile()
	vs := Validate(StackedBar, Parameters{XAxis: "region", YAxis: "sales"}, prof)
	assert.Contains(t, codes(vs), CodeMissingRequired)

	vs = Validate(GroupedBar, Parameters{XAxis: "region", YAxis: "sales"}, prof)
	assert.Contains(t, codes(vs), CodeMissingRequired)

	vs = Validate(Pie, Parameters{XAxis: "region", Normalize: true}, prof)
	assert.Empty(t, vs)

	vs = Validate(Line, Parameters{XAxis: "sales", YAxis: "units", Normalize: true}, prof)
	assert.Equal(t, []Code{CodeIncompatibleCombo}, codes(vs))

	vs = Validate(Scatter, Parameters{XAxis: "sales", YAxis: "units", StackBy: "region"}, prof)
	assert.Equal(t, []Code{CodeIncompatibleCombo}, codes(vs))
}

func TestValidateTooManyCategories(t *testing.T) {
	prof := testProfile()

	vs := Validate(Pie, Parameters{XAxis: "product"}, prof)
	require.Len(t, vs, 1)
	assert.Equal(t, CodeTooManyCategories, vs[0].Code)
	assert.False(t, vs[0].Blocking(), "pie truncates to limit")
	assert.NoError(t, AsError(Pie, vs))

	vs = Validate(Heatmap, Parameters{XAxis: "order_id", YAxis: "region"}, prof)
	require.Len(t, vs, 1)
	assert.True(t, vs[0].Blocking())
	var de *DataError
	assert.True(t, errors.As(AsError(Heatmap, vs), &de))
}

func TestParametersSet(t *testing.T) {
	var p Parameters
	require.NoError(t, p.Set("x_axis", "region"))
	require.NoError(t, p.Set("LIMIT", "5"))
	require.NoError(t, p.Set("show_outliers", "true"))
	require.NoError(t, p.Set("aggregation", "Mean"))
	assert.Equal(t, "region", p.XAxis)
	assert.Equal(t, 5, p.Limit)
	assert.True(t, p.ShowOutliers)
	assert.Equal(t, AggMean, p.Aggregation)
	assert.Error(t, p.Set("bins", "many"))
	assert.Error(t, p.Set("colour", "x"))
}

func TestFillTemplates(t *testing.T) {
	req, _ := Lookup(Bar)
	assert.Equal(t, "Count by Region", req.Title(Parameters{XAxis: "region"}))
	assert.Equal(t, "Total Sales by Region", req.Title(Parameters{XAxis: "region", YAxis: "total_sales"}))
	assert.Equal(t, "Order Date", Humanize("order_date"))
}

func TestSynthesizeOptionalAxisSkipsWideColumns(t *testing.T) {
	cols := []profile.ColumnProfile{
		{Name: "order_id", Type: profile.Categorical, UniqueCount: 500},
		{Name: "product", Type: profile.Categorical, UniqueCount: 12},
		{Name: "region", Type: profile.Categorical, UniqueCount: 4},
		{Name: "sales", Type: profile.Numeric, UniqueCount: 480},
	}
	prof := &profile.DatasetProfile{RowCount: 500, Columns: cols}

	p := Synthesize(Box, cols)
	assert.Equal(t, "product", p.XAxis, "order_id exceeds the box cap of 20")
	assert.NoError(t, Check(Box, p, prof))

	p = Synthesize(Violin, cols)
	assert.Equal(t, "region", p.XAxis, "product exceeds the violin cap of 10")
	assert.NoError(t, Check(Violin, p, prof))

	p = Synthesize(Box, []profile.ColumnProfile{cols[0], cols[3]})
	assert.Empty(t, p.XAxis)
	assert.Equal(t, "sales", p.YAxis)
	assert.Empty(t, Validate(Box, p, prof))

	// required axes still bind; the pipeline truncates them
	assert.Equal(t, "order_id", Synthesize(Bar, cols).XAxis)
}
