package recommend

import (
	"fmt"
	"math"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// Factor caps.
const (
	maxCompatibility = 30
	maxSize          = 20
	maxQuality       = 15
	maxComplexity    = 15
	maxInsight       = 20
)

type factor struct {
	score      float64
	confidence float64
	reasons    []string
}

type scorer struct {
	req    chart.Requirement
	params chart.Parameters
	prof   *profile.DatasetProfile
}

func newScorer(req chart.Requirement, params chart.Parameters, prof *profile.DatasetProfile) scorer {
	return scorer{req: req, params: params, prof: prof}
}

func (s scorer) column(name string) (profile.ColumnProfile, bool) {
	if name == "" {
		return profile.ColumnProfile{}, false
	}
	return s.prof.Column(name)
}

// compatibility rewards satisfied required roles and well-typed axes.
func (s scorer) compatibility() factor {
	var f factor
	total, satisfied := 0, 0
	for _, role := range s.req.Required {
		total++
		if s.params.Column(role) != "" {
			satisfied++
			f.score += 5
		}
	}
	if satisfied == total {
		f.score += 10
		if total == 0 {
			f.reasons = append(f.reasons, "No column bindings required")
		} else {
			f.reasons = append(f.reasons, fmt.Sprintf("All %d required parameters satisfied", total))
		}
	}
	for _, role := range []chart.Role{chart.RoleX, chart.RoleY} {
		c, ok := s.column(s.params.Column(role))
		if !ok || !s.req.Accepts(role, c.Type) {
			continue
		}
		f.score += 5
		f.reasons = append(f.reasons, fmt.Sprintf("%s %s is %s", role, c.Name, c.Type))
	}
	f.score = math.Min(f.score, maxCompatibility)
	if total == 0 {
		f.confidence = 25
	} else {
		f.confidence = 25 * float64(satisfied) / float64(total)
	}
	return f
}

// size rewards row counts that meet the minimum and sit in the optimal range.
func (s scorer) size() factor {
	var f factor
	n := s.prof.RowCount
	if n >= s.req.MinDataPoints {
		f.score += 10
		f.confidence = 5
	}
	switch {
	case s.req.Optimal.Contains(n):
		f.score += 10
		f.confidence = 20
		f.reasons = append(f.reasons, fmt.Sprintf("%d rows is in the ideal range for %s", n, s.req.Type))
	case s.req.Optimal.Exceeds(n):
		f.score += 5
		f.confidence = 10
		f.reasons = append(f.reasons, fmt.Sprintf("%d rows exceeds the ideal %d for %s; data will be aggregated", n, s.req.Optimal.Max, s.req.Type))
	}
	f.score = math.Min(f.score, maxSize)
	return f
}

// quality scores missingness of the bound columns and category bounds.
func (s scorer) quality() factor {
	var f factor
	var names []string
	for _, b := range s.params.Bindings() {
		names = append(names, b.Column)
	}
	if len(names) == 0 {
		names = s.prof.ColumnsOfType(profile.Numeric)
	}
	if len(names) > 0 {
		sum := 0.0
		for _, name := range names {
			r := s.prof.MissingRatio(name)
			switch {
			case r > 0.2:
				sum -= 2
				f.reasons = append(f.reasons, fmt.Sprintf("%s is %.0f%% missing", name, r*100))
			case r < 0.05:
				sum += 3
			case r < 0.2:
				sum++
			}
		}
		avg := sum / float64(len(names))
		f.score = avg * 3
		if avg > 0 {
			f.confidence = 15
		} else {
			f.confidence = 5
		}
		if avg >= 3 {
			f.reasons = append(f.reasons, "Bound columns have under 5% missing values")
		}
	}
	if s.categoriesInBounds() {
		f.score += 6
	}
	f.score = math.Max(0, math.Min(f.score, maxQuality))
	return f
}

func (s scorer) categoriesInBounds() bool {
	for _, role := range []chart.Role{chart.RoleX, chart.RoleY, chart.RoleStack, chart.RoleGroup} {
		c, ok := s.column(s.params.Column(role))
		if !ok || c.Type != profile.Categorical {
			continue
		}
		if c.UniqueCount < 2 || (s.req.MaxCategories > 0 && c.UniqueCount > s.req.MaxCategories) {
			return false
		}
	}
	return true
}

// complexity matches the chart's tier to the dataset's breadth.
func (s scorer) complexity() factor {
	var f factor
	numeric := len(s.prof.ColumnsOfType(profile.Numeric))
	categorical := len(s.prof.ColumnsOfType(profile.Categorical))
	broad := len(s.prof.Columns) >= 3 && (numeric >= 2 || categorical >= 2)

	fit := func(score float64, ok bool, reason string) {
		if ok {
			f.score, f.confidence = score, 15
			f.reasons = append(f.reasons, reason)
			return
		}
		f.score, f.confidence = 3, 5
	}
	switch s.req.Complexity {
	case chart.Basic:
		fit(15, true, "Simple chart that reads well for any audience")
	case chart.Advanced:
		fit(10, broad, "Dataset has enough columns for a multi-dimensional view")
	case chart.Statistical:
		fit(12, s.prof.RowCount >= 30, "Enough rows for a stable statistical summary")
	case chart.Specialized:
		fit(8, broad, "Dataset breadth supports a specialized chart")
	}
	f.score = math.Min(f.score, maxComplexity)
	return f
}

// insight rewards bindings likely to surface a pattern.
func (s scorer) insight() factor {
	var f factor
	add := func(points float64, reason string) {
		f.score += points
		f.reasons = append(f.reasons, reason)
	}
	x, xok := s.column(s.params.XAxis)
	y, yok := s.column(s.params.YAxis)

	switch s.req.Family {
	case chart.FamilyPairwise:
		if xok && yok && x.Type == profile.Numeric && y.Type == profile.Numeric {
			add(6, fmt.Sprintf("Pairs two numeric columns, %s and %s", x.Name, y.Name))
			if r, ok := s.prof.Correlation(x.Name, y.Name); ok {
				switch a := math.Abs(r); {
				case a >= 0.7:
					add(10, fmt.Sprintf("Strong correlation between %s and %s (r=%.2f)", x.Name, y.Name, r))
				case a >= 0.4:
					add(6, fmt.Sprintf("Moderate correlation between %s and %s (r=%.2f)", x.Name, y.Name, r))
				}
			}
		}
	case chart.FamilySequential, chart.FamilyTimeline:
		if xok && x.Type == profile.Datetime {
			add(8, fmt.Sprintf("%s is a date column, suited to time series", x.Name))
		}
	case chart.FamilyCategorical:
		if barOrPie(s.req.Type) && xok && x.Type == profile.Categorical && x.UniqueCount >= 3 && x.UniqueCount <= 12 {
			add(8, fmt.Sprintf("%s has %d categories, easy to compare", x.Name, x.UniqueCount))
		}
	case chart.FamilyCrossTab:
		if xok && yok && x.UniqueCount <= 12 && y.UniqueCount <= 12 {
			add(6, fmt.Sprintf("%s × %s forms a compact grid", x.Name, y.Name))
		}
	case chart.FamilySummary:
		if xok && x.Type == profile.Categorical {
			add(6, fmt.Sprintf("Compares the distribution of %s across %s", s.params.YAxis, x.Name))
		}
	case chart.FamilyDistribution:
		add(4, fmt.Sprintf("Shows the shape of %s", s.params.XAxis))
	case chart.FamilyProfile:
		if n := len(s.prof.ColumnsOfType(profile.Numeric)); n >= 3 {
			add(6, fmt.Sprintf("%d numeric measures can share one profile", n))
		}
	}
	f.score = math.Min(f.score, maxInsight)
	f.confidence = math.Min(5*float64(len(f.reasons)), maxInsight)
	return f
}

func barOrPie(t chart.ChartType) bool {
	switch t {
	case chart.Bar, chart.HorizontalBar, chart.StackedBar, chart.GroupedBar, chart.Pie, chart.Donut:
		return true
	}
	return false
}
