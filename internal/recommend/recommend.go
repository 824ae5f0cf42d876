package recommend

import (
	"sort"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// DefaultMax is the number of suggestions returned when Options.Max is unset.
const DefaultMax = 8

// Options tunes a recommendation run.
type Options struct {
	Max int
}

// Suggestion is one ranked chart recommendation.
type Suggestion struct {
	ChartType  chart.ChartType  `json:"chart_type" yaml:"chart_type"`
	Parameters chart.Parameters `json:"parameters" yaml:"parameters"`
	Score      float64          `json:"score" yaml:"score"`
	Confidence float64          `json:"confidence" yaml:"confidence"`
	Reasoning  []string         `json:"reasoning" yaml:"reasoning"`
	Title      string           `json:"title" yaml:"title"`
	Insight    string           `json:"insight" yaml:"insight"`
	// Warnings carries non-blocking validation notes.
	Warnings []chart.Violation `json:"warnings,omitempty" yaml:"warnings,omitempty"`

	rank float64
	pos  int
}

// Rank is the ordering key score × confidence / 100.
func (s Suggestion) Rank() float64 { return s.rank }

// Recommend scores every registered chart type against prof and returns the
// best suggestions, highest rank first. Chart types whose synthesized
// parameters fail validation are left out.
func Recommend(prof *profile.DatasetProfile, opt Options) []Suggestion {
	limit := opt.Max
	if limit <= 0 {
		limit = DefaultMax
	}
	var out []Suggestion
	for i, req := range chart.Registry() {
		s, ok := Evaluate(req, prof)
		if !ok {
			continue
		}
		s.pos = i
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].rank != out[j].rank {
			return out[i].rank > out[j].rank
		}
		return out[i].pos < out[j].pos
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Evaluate synthesizes, validates and scores a single chart type. It reports
// false when the chart type is not viable for the dataset.
func Evaluate(req chart.Requirement, prof *profile.DatasetProfile) (Suggestion, bool) {
	params := chart.Synthesize(req.Type, prof.Columns)
	vs := chart.Validate(req.Type, params, prof)
	if chart.AsError(req.Type, vs) != nil {
		return Suggestion{}, false
	}
	sc := newScorer(req, params, prof)
	factors := []factor{sc.compatibility(), sc.size(), sc.quality(), sc.complexity(), sc.insight()}

	s := Suggestion{
		ChartType:  req.Type,
		Parameters: params,
		Title:      req.Title(params),
		Insight:    req.Insight(params),
		Warnings:   vs,
	}
	for _, f := range factors {
		s.Score += f.score
		s.Confidence += f.confidence
		s.Reasoning = append(s.Reasoning, f.reasons...)
	}
	for _, v := range vs {
		s.Reasoning = append(s.Reasoning, v.Suggestion)
	}
	if s.Confidence > 100 {
		s.Confidence = 100
	}
	if s.Score <= 0 {
		return Suggestion{}, false
	}
	s.rank = s.Score * s.Confidence / 100
	return s, true
}
