package profile

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// minCorrelationPairs is the fewest complete cases needed to report r.
const minCorrelationPairs = 3

// Finite returns the finite numeric values of cells in their original order.
func Finite(values []any) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := dataset.Float(v); ok {
			out = append(out, f)
		}
	}
	return out
}

// Summarize computes descriptive statistics over the finite values of a
// column. It reports false when no finite value exists.
func Summarize(values []any) (Summary, bool) {
	xs := Finite(values)
	if len(xs) == 0 {
		return Summary{}, false
	}
	sort.Float64s(xs)
	return SummarizeSorted(xs), true
}

// SummarizeSorted computes a Summary over an ascending, non-empty slice.
func SummarizeSorted(xs []float64) Summary {
	mean, _ := stats.Mean(xs)
	std, _ := stats.StandardDeviationPopulation(xs)
	return Summary{
		Count: len(xs),
		Mean:  mean,
		Std:   std,
		Min:   xs[0],
		P25:   Percentile(xs, 0.25),
		P50:   Percentile(xs, 0.5),
		P75:   Percentile(xs, 0.75),
		Max:   xs[len(xs)-1],
	}
}

// Percentile returns the nearest-rank percentile sorted[floor(n*p)] of an
// ascending slice, without interpolation. For 1..10 this yields p25=3,
// p50=6 and p75=8, which differs from interpolating libraries.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	i := int(math.Floor(float64(n) * p))
	if i < 0 {
		i = 0
	}
	if i >= n {
		i = n - 1
	}
	return sorted[i]
}

// Pearson computes r over the complete cases of two columns. It reports false
// when fewer than three pairs exist or either side has zero variance.
func Pearson(a, b []any) (float64, int, bool) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		x, okx := dataset.Float(a[i])
		y, oky := dataset.Float(b[i])
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	r, ok := PearsonFloats(xs, ys)
	return r, len(xs), ok
}

// PearsonFloats computes r over paired samples of equal length.
func PearsonFloats(xs, ys []float64) (float64, bool) {
	if len(xs) < minCorrelationPairs || len(xs) != len(ys) {
		return 0, false
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, false
	}
	return r, true
}

// Correlations returns r for every computable pair of numeric columns, in
// declared column order.
func Correlations(cols []string, values map[string][]any) []Correlation {
	var out []Correlation
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			r, n, ok := Pearson(values[cols[i]], values[cols[j]])
			if !ok {
				continue
			}
			out = append(out, Correlation{A: cols[i], B: cols[j], R: r, N: n})
		}
	}
	return out
}
