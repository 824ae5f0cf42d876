// Package aggregate turns raw rows and validated chart parameters into
// chart-ready payloads. Every routine is a pure function of its inputs.
package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// Record is one data point of a payload.
type Record map[string]any

// Payload is the renderable result of one aggregation.
type Payload struct {
	ChartType      chart.ChartType `json:"chart_type" yaml:"chart_type"`
	Data           []Record        `json:"data" yaml:"data"`
	Metadata       map[string]any  `json:"metadata" yaml:"metadata"`
	Title          string          `json:"title" yaml:"title"`
	Insight        string          `json:"insight,omitempty" yaml:"insight,omitempty"`
	Interpretation string          `json:"interpretation,omitempty" yaml:"interpretation,omitempty"`
}

type routine func(rows []dataset.Row, req chart.Requirement, p chart.Parameters) (Payload, error)

var routines = map[chart.Family]routine{
	chart.FamilyCategorical:  categorical,
	chart.FamilySequential:   sequential,
	chart.FamilyPairwise:     pairwise,
	chart.FamilyDistribution: histogram,
	chart.FamilySummary:      boxSummary,
	chart.FamilyCrossTab:     crossTab,
	chart.FamilyProfile:      radar,
	chart.FamilyTimeline:     timeline,
}

// Run aggregates rows for chart type t. Callers validate p first; Run only
// rejects unknown chart types and unset required roles.
func Run(rows []dataset.Row, t chart.ChartType, p chart.Parameters) (Payload, error) {
	req, ok := chart.Lookup(t)
	if !ok {
		return Payload{}, chart.AsError(t, chart.Validate(t, p, nil))
	}
	if err := requireRoles(req, p); err != nil {
		return Payload{}, err
	}
	fn, ok := routines[req.Family]
	if !ok {
		return Payload{}, fmt.Errorf("no aggregation routine for %s", req.Family)
	}
	pl, err := fn(rows, req, p)
	if err != nil {
		return Payload{}, err
	}
	pl.ChartType = t
	pl.Title = req.Title(p)
	pl.Insight = req.Insight(p)
	if pl.Data == nil {
		pl.Data = []Record{}
	}
	return pl, nil
}

func requireRoles(req chart.Requirement, p chart.Parameters) error {
	var vs []chart.Violation
	for _, role := range req.Required {
		if p.Column(role) != "" {
			continue
		}
		vs = append(vs, chart.Violation{
			Code:       chart.CodeMissingRequired,
			Kind:       chart.KindOf(chart.CodeMissingRequired),
			Severity:   chart.SeverityError,
			Role:       role,
			Message:    fmt.Sprintf("%s requires %s", req.Type, role),
			Suggestion: fmt.Sprintf("Set %s before aggregating.", role),
		})
	}
	return chart.AsError(req.Type, vs)
}

// reduce applies an aggregation function. n is the row count of the group;
// vals holds its finite measure values.
func reduce(agg string, vals []float64, n int) float64 {
	switch agg {
	case chart.AggCount:
		return float64(n)
	case chart.AggSum:
		return sum(vals)
	case chart.AggMin, chart.AggMax:
		if len(vals) == 0 {
			return 0
		}
		out := vals[0]
		for _, v := range vals[1:] {
			if (agg == chart.AggMin && v < out) || (agg == chart.AggMax && v > out) {
				out = v
			}
		}
		return out
	default:
		if len(vals) == 0 {
			return 0
		}
		return sum(vals) / float64(len(vals))
	}
}

func sum(vals []float64) float64 {
	s := 0.0
	for _, v := range vals {
		s += v
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return round2(part / whole * 100)
}

// sortedKeys orders axis values numerically when every key is a number,
// otherwise lexicographically. It reports whether the order was numeric.
func sortedKeys(keys []string) ([]string, bool) {
	out := append([]string(nil), keys...)
	nums := make(map[string]float64, len(out))
	numeric := len(out) > 0
	for _, k := range out {
		f, ok := dataset.Float(k)
		if !ok {
			numeric = false
			break
		}
		nums[k] = f
	}
	if numeric {
		sort.SliceStable(out, func(i, j int) bool { return nums[out[i]] < nums[out[j]] })
	} else {
		sort.Strings(out)
	}
	return out, numeric
}

// bucket accumulates one group's rows.
type bucket struct {
	key   string
	count int
	vals  []float64
	segs  map[string]*bucket
	order []string
}

func newBucket(key string) *bucket {
	return &bucket{key: key, segs: map[string]*bucket{}}
}

func (b *bucket) add(v float64, ok bool) {
	b.count++
	if ok {
		b.vals = append(b.vals, v)
	}
}

func (b *bucket) segment(key string) *bucket {
	s, ok := b.segs[key]
	if !ok {
		s = newBucket(key)
		b.segs[key] = s
		b.order = append(b.order, key)
	}
	return s
}

// groups keeps buckets in first-appearance order.
type groups struct {
	byKey map[string]*bucket
	order []string
}

func newGroups() *groups { return &groups{byKey: map[string]*bucket{}} }

func (g *groups) get(key string) *bucket {
	b, ok := g.byKey[key]
	if !ok {
		b = newBucket(key)
		g.byKey[key] = b
		g.order = append(g.order, key)
	}
	return b
}

func (g *groups) list() []*bucket {
	out := make([]*bucket, len(g.order))
	for i, k := range g.order {
		out[i] = g.byKey[k]
	}
	return out
}

func segmentKey(v any) string {
	if dataset.IsNull(v) {
		return "(blank)"
	}
	return dataset.Text(v)
}

// segmentValues reduces each segment of b; normalize turns them into shares
// of the bucket total.
func segmentValues(b *bucket, agg string, normalize bool) map[string]float64 {
	out := make(map[string]float64, len(b.segs))
	total := 0.0
	for _, k := range b.order {
		v := reduce(agg, b.segs[k].vals, b.segs[k].count)
		out[k] = v
		total += v
	}
	if normalize {
		for k, v := range out {
			out[k] = percent(v, total)
		}
	}
	return out
}

// segmentOrder merges segment keys across buckets in first-appearance order.
func segmentOrder(bs []*bucket) []string {
	seen := map[string]bool{}
	var out []string
	for _, b := range bs {
		for _, k := range b.order {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
