package profile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

func cells(vs ...any) []any { return vs }

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []any
		want   TypeTag
	}{
		{"numeric strings", cells("1", "2.5", "", "-3e2"), Numeric},
		{"native numbers", cells(1.0, 2, nil), Numeric},
		{"one non-number makes categorical", cells("1", "2", "x"), Categorical},
		{"iso dates", cells("2024-01-01", "2024-02-15", "2024-03-31"), Datetime},
		{"us dates", cells("01/31/2024", "12/01/2023", "7/4/2024"), Datetime},
		{"dash us dates", cells("01-31-2024", "12-01-2023"), Datetime},
		{"invalid calendar date", cells("2024-02-30", "2024-13-01", "2024-01-01"), Categorical},
		{"exactly 80 percent is not enough", cells("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "n/a"), Categorical},
		{"above 80 percent", cells("2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07", "2024-01-08", "2024-01-09", "n/a"), Datetime},
		{"all empty", cells("", nil, "  "), Categorical},
		{"empty column", nil, Categorical},
		{"labels", cells("red", "blue"), Categorical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferType(tt.values))
			assert.Equal(t, tt.want, InferType(tt.values), "inference must be deterministic")
		})
	}
}

func TestParseDateIgnoresTimeSuffix(t *testing.T) {
	d, ok := ParseDate("2024-03-05T10:30:00Z")
	require.True(t, ok)
	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, 5, d.Day())

	_, ok = ParseDate("March 5")
	assert.False(t, ok)
}

func TestSummarizeNearestRank(t *testing.T) {
	s, ok := Summarize(cells("1", "2", "3", "4", "5", "6", "7", "8", "9", "10"))
	require.True(t, ok)
	assert.Equal(t, 10, s.Count)
	assert.Equal(t, 5.5, s.Mean)
	assert.InDelta(t, 2.8722813, s.Std, 1e-6, "population std divides by n")
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 3.0, s.P25)
	assert.Equal(t, 6.0, s.P50)
	assert.Equal(t, 8.0, s.P75)
	assert.Equal(t, 10.0, s.Max)
}

func TestSummarizeOrderingAndCount(t *testing.T) {
	s, ok := Summarize(cells("9", "", "x", "3", nil, "-1", "7.5", "inf"))
	require.True(t, ok)
	assert.Equal(t, 4, s.Count, "only finite non-missing values count")
	assert.LessOrEqual(t, s.Min, s.P25)
	assert.LessOrEqual(t, s.P25, s.P50)
	assert.LessOrEqual(t, s.P50, s.P75)
	assert.LessOrEqual(t, s.P75, s.Max)

	_, ok = Summarize(cells("", nil))
	assert.False(t, ok)
}

func TestPercentileSingleValue(t *testing.T) {
	assert.Equal(t, 4.0, Percentile([]float64{4}, 0.75))
	assert.Equal(t, 4.0, Percentile([]float64{4}, 1))
}

func salesTable() *dataset.Table {
	var rows []dataset.Row
	regions := []string{"North", "South", "East", "West"}
	for i := 0; i < 40; i++ {
		units := i + 1
		row := dataset.Row{
			"region": regions[i%4],
			"units":  fmt.Sprint(units),
			"price":  fmt.Sprintf("%.1f", 10+float64(units)*2.5),
			"day":    fmt.Sprintf("2024-01-%02d", i%28+1),
			"note":   "",
		}
		if i%10 == 0 {
			row["price"] = ""
		}
		rows = append(rows, row)
	}
	return &dataset.Table{Name: "sales.csv", Columns: []string{"region", "units", "price", "day", "note"}, Rows: rows}
}

func TestBuild(t *testing.T) {
	p := Build(salesTable())
	require.Equal(t, 40, p.RowCount)
	require.Len(t, p.Columns, 5)

	region, ok := p.Column("region")
	require.True(t, ok)
	assert.Equal(t, Categorical, region.Type)
	assert.Equal(t, 4, region.UniqueCount)

	units, _ := p.Column("units")
	assert.Equal(t, Numeric, units.Type)
	assert.True(t, units.Integer)

	price, _ := p.Column("price")
	assert.Equal(t, Numeric, price.Type)
	assert.False(t, price.Integer)
	assert.Equal(t, 4, price.MissingCount)
	assert.InDelta(t, 0.1, p.MissingRatio("price"), 1e-9)

	day, _ := p.Column("day")
	assert.Equal(t, Datetime, day.Type)

	note, _ := p.Column("note")
	assert.Equal(t, Categorical, note.Type)
	assert.Equal(t, 40, note.MissingCount)

	assert.Contains(t, p.Stats, "units")
	assert.Contains(t, p.Stats, "price")
	assert.NotContains(t, p.Stats, "region")
	assert.Equal(t, 36, p.Stats["price"].Count)

	r, ok := p.Correlation("price", "units")
	require.True(t, ok)
	assert.InDelta(t, 1.0, r, 1e-9)
	assert.Equal(t, []string{"units", "price"}, p.ColumnsOfType(Numeric))
}

func TestMarkdownSections(t *testing.T) {
	md := Build(salesTable()).Markdown()
	for _, section := range []string{"[DATASET SUMMARY]", "[SCHEMA]", "[STATISTICS]", "[CORRELATIONS]", "[NOTES]"} {
		assert.True(t, strings.Contains(md, section), "missing %s", section)
	}
	assert.Contains(t, md, "File: sales.csv")
	assert.Contains(t, md, "Column note is entirely empty.")
}
