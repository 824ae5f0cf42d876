package aggregate

import (
	"fmt"
	"math"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// pairwise maps rows to points, dropping rows with a non-finite coordinate.
func pairwise(rows []dataset.Row, _ chart.Requirement, p chart.Parameters) (Payload, error) {
	data := make([]Record, 0, len(rows))
	xs := make([]float64, 0, len(rows))
	ys := make([]float64, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		x, okx := dataset.Float(row[p.XAxis])
		y, oky := dataset.Float(row[p.YAxis])
		if !okx || !oky {
			dropped++
			continue
		}
		rec := Record{"x": x, "y": y}
		if p.SizeBy != "" {
			s, ok := dataset.Float(row[p.SizeBy])
			if !ok {
				dropped++
				continue
			}
			rec["size"] = s
		}
		if p.ColorBy != "" {
			rec["color"] = segmentKey(row[p.ColorBy])
		}
		data = append(data, rec)
		xs = append(xs, x)
		ys = append(ys, y)
	}

	meta := map[string]any{
		"x_column":       p.XAxis,
		"y_column":       p.YAxis,
		"total_points":   len(data),
		"dropped_points": dropped,
	}
	if p.SizeBy != "" {
		meta["size_column"] = p.SizeBy
	}
	if p.ColorBy != "" {
		meta["color_column"] = p.ColorBy
	}
	pl := Payload{Data: data, Metadata: meta}
	if r, ok := profile.PearsonFloats(xs, ys); ok {
		meta["correlation"] = round2(r)
		pl.Interpretation = describeCorrelation(p.XAxis, p.YAxis, r)
	}
	return pl, nil
}

func describeCorrelation(a, b string, r float64) string {
	strength := "no clear linear"
	switch v := math.Abs(r); {
	case v >= 0.7:
		strength = "a strong"
	case v >= 0.4:
		strength = "a moderate"
	case v >= 0.2:
		strength = "a weak"
	}
	dir := "positive"
	if r < 0 {
		dir = "negative"
	}
	if strength == "no clear linear" {
		return fmt.Sprintf("%s and %s show no clear linear relationship (r=%.2f).", chart.Humanize(a), chart.Humanize(b), r)
	}
	return fmt.Sprintf("%s and %s show %s %s relationship (r=%.2f).", chart.Humanize(a), chart.Humanize(b), strength, dir, r)
}
