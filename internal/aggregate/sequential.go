package aggregate

import (
	"fmt"
	"math"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

func sequential(rows []dataset.Row, req chart.Requirement, p chart.Parameters) (Payload, error) {
	x, y := p.XAxis, p.YAxis
	series := p.GroupBy
	if series == "" {
		series = p.StackBy
	}
	if series == "" {
		series = p.ColorBy
	}
	agg := p.Aggregation
	if agg == "" {
		agg = chart.AggMean
	}

	g := newGroups()
	points := 0
	for _, row := range rows {
		if dataset.IsNull(row[x]) {
			continue
		}
		v, ok := dataset.Float(row[y])
		if !ok {
			continue
		}
		points++
		b := g.get(dataset.Text(row[x]))
		b.add(v, true)
		if series != "" {
			b.segment(segmentKey(row[series])).add(v, true)
		}
	}

	keys, numeric := sortedKeys(g.order)
	data := make([]Record, 0, len(keys))
	values := make([]float64, 0, len(keys))
	for _, k := range keys {
		b := g.byKey[k]
		v := reduce(agg, b.vals, b.count)
		rec := Record{"x": k, "y": v, "count": b.count}
		if numeric {
			f, _ := dataset.Float(k)
			rec["x"] = f
		}
		if series != "" {
			rec["segments"] = segmentValues(b, agg, p.Normalize)
		}
		data = append(data, rec)
		values = append(values, v)
	}

	meta := map[string]any{
		"x_column":     x,
		"y_column":     y,
		"aggregation":  agg,
		"x_numeric":    numeric,
		"total_points": points,
	}
	if series != "" {
		meta["series_column"] = series
		meta["series"] = segmentOrder(g.list())
		meta["normalized"] = p.Normalize
	}

	pl := Payload{Data: data, Metadata: meta}
	if n := len(values); n >= 2 {
		first, last := values[0], values[n-1]
		dir := "rose"
		if last < first {
			dir = "fell"
		} else if last == first {
			dir = "stayed flat"
		}
		pl.Interpretation = fmt.Sprintf("%s %s from %s at %s to %s at %s",
			chart.Humanize(y), dir, formatNumber(first), keys[0], formatNumber(last), keys[n-1])
		if first != 0 && last != first {
			pl.Interpretation += fmt.Sprintf(" (%+.1f%%)", (last-first)/math.Abs(first)*100)
		}
		pl.Interpretation += "."
	}
	return pl, nil
}
