package profile

import (
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// TypeTag is the inferred semantic category of a column.
type TypeTag string

const (
	Numeric     TypeTag = "numeric"
	Categorical TypeTag = "categorical"
	Datetime    TypeTag = "datetime"
)

// ColumnProfile describes one column. It is derived once and never mutated.
type ColumnProfile struct {
	Name         string  `json:"name" yaml:"name"`
	Type         TypeTag `json:"type" yaml:"type"`
	UniqueCount  int     `json:"unique_count" yaml:"unique_count"`
	MissingCount int     `json:"missing_count" yaml:"missing_count"`
	// Integer marks numeric columns whose values are all whole numbers.
	Integer bool `json:"integer,omitempty" yaml:"integer,omitempty"`
}

// Summary holds descriptive statistics for a numeric column.
type Summary struct {
	Count int     `json:"count" yaml:"count"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Std   float64 `json:"std" yaml:"std"`
	Min   float64 `json:"min" yaml:"min"`
	P25   float64 `json:"p25" yaml:"p25"`
	P50   float64 `json:"p50" yaml:"p50"`
	P75   float64 `json:"p75" yaml:"p75"`
	Max   float64 `json:"max" yaml:"max"`
}

// Correlation is a Pearson coefficient between two numeric columns.
type Correlation struct {
	A string  `json:"a" yaml:"a"`
	B string  `json:"b" yaml:"b"`
	R float64 `json:"r" yaml:"r"`
	N int     `json:"n" yaml:"n"`
}

// DatasetProfile is the derived metadata of a dataset. It owns no rows.
type DatasetProfile struct {
	Name         string             `json:"name,omitempty" yaml:"name,omitempty"`
	RowCount     int                `json:"row_count" yaml:"row_count"`
	Truncated    bool               `json:"truncated,omitempty" yaml:"truncated,omitempty"`
	Columns      []ColumnProfile    `json:"columns" yaml:"columns"`
	Stats        map[string]Summary `json:"stats" yaml:"stats"`
	Correlations []Correlation      `json:"correlations,omitempty" yaml:"correlations,omitempty"`
}

// Build infers column profiles, numeric statistics and pairwise correlations.
func Build(t *dataset.Table) *DatasetProfile {
	p := &DatasetProfile{
		Name:      t.Name,
		RowCount:  len(t.Rows),
		Truncated: t.Truncated,
		Stats:     map[string]Summary{},
	}
	numeric := map[string][]any{}
	var numericOrder []string
	for _, col := range t.Columns {
		values := t.Values(col)
		cp := profileColumn(col, values)
		p.Columns = append(p.Columns, cp)
		if cp.Type != Numeric {
			continue
		}
		if s, ok := Summarize(values); ok {
			p.Stats[col] = s
		}
		numeric[col] = values
		numericOrder = append(numericOrder, col)
	}
	p.Correlations = Correlations(numericOrder, numeric)
	return p
}

// FromRows profiles caller-supplied rows using their sorted key union as header.
func FromRows(rows []dataset.Row) *DatasetProfile {
	return Build(dataset.FromRows("", rows, nil))
}

func profileColumn(name string, values []any) ColumnProfile {
	cp := ColumnProfile{Name: name, Type: InferType(values)}
	seen := map[string]struct{}{}
	whole := true
	for _, v := range values {
		if dataset.IsNull(v) {
			cp.MissingCount++
			continue
		}
		seen[dataset.Text(v)] = struct{}{}
		if cp.Type == Numeric {
			if f, ok := dataset.Float(v); ok && f != float64(int64(f)) {
				whole = false
			}
		}
	}
	cp.UniqueCount = len(seen)
	cp.Integer = cp.Type == Numeric && whole && len(seen) > 0
	return cp
}

// Column returns the profile of name.
func (p *DatasetProfile) Column(name string) (ColumnProfile, bool) {
	for _, c := range p.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnProfile{}, false
}

// ColumnsOfType lists column names with the given tag in declared order.
func (p *DatasetProfile) ColumnsOfType(tag TypeTag) []string {
	var out []string
	for _, c := range p.Columns {
		if c.Type == tag {
			out = append(out, c.Name)
		}
	}
	return out
}

// MissingRatio is the share of rows where name is missing.
func (p *DatasetProfile) MissingRatio(name string) float64 {
	c, ok := p.Column(name)
	if !ok || p.RowCount == 0 {
		return 0
	}
	return float64(c.MissingCount) / float64(p.RowCount)
}

// Correlation looks up r between a and b in either order.
func (p *DatasetProfile) Correlation(a, b string) (float64, bool) {
	for _, c := range p.Correlations {
		if (c.A == a && c.B == b) || (c.A == b && c.B == a) {
			return c.R, true
		}
	}
	return 0, false
}
