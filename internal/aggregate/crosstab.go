package aggregate

import (
	"fmt"
	"math"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// crossTab builds the full x_axis × y_axis grid, zero cells included. Cells
// count rows, or reduce value_column with the aggregation (sum by default)
// when one is bound.
func crossTab(rows []dataset.Row, _ chart.Requirement, p chart.Parameters) (Payload, error) {
	agg := chart.AggCount
	if p.ValueColumn != "" {
		agg = chart.AggSum
		if p.Aggregation != "" {
			agg = p.Aggregation
		}
	}

	type cell struct{ x, y string }
	counts := map[cell]int{}
	vals := map[cell][]float64{}
	xg, yg := newGroups(), newGroups()
	points := 0
	for _, row := range rows {
		if dataset.IsNull(row[p.XAxis]) || dataset.IsNull(row[p.YAxis]) {
			continue
		}
		c := cell{dataset.Text(row[p.XAxis]), dataset.Text(row[p.YAxis])}
		xg.get(c.x)
		yg.get(c.y)
		points++
		counts[c]++
		if p.ValueColumn != "" {
			if v, ok := dataset.Float(row[p.ValueColumn]); ok {
				vals[c] = append(vals[c], v)
			}
		}
	}
	xs, _ := sortedKeys(xg.order)
	ys, _ := sortedKeys(yg.order)

	data := make([]Record, 0, len(xs)*len(ys))
	lo, hi := math.Inf(1), math.Inf(-1)
	var peak Record
	for _, x := range xs {
		for _, y := range ys {
			c := cell{x, y}
			v := reduce(agg, vals[c], counts[c])
			rec := Record{"x": x, "y": y, "value": v, "count": counts[c]}
			data = append(data, rec)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
			if peak == nil || v > peak["value"].(float64) {
				peak = rec
			}
		}
	}
	if len(data) == 0 {
		lo, hi = 0, 0
	}

	meta := map[string]any{
		"x_column":     p.XAxis,
		"y_column":     p.YAxis,
		"aggregation":  agg,
		"x_values":     xs,
		"y_values":     ys,
		"min_value":    lo,
		"max_value":    hi,
		"cells":        len(data),
		"total_points": points,
	}
	if p.ValueColumn != "" {
		meta["value_column"] = p.ValueColumn
	}
	pl := Payload{Data: data, Metadata: meta}
	if peak != nil {
		pl.Interpretation = fmt.Sprintf("The highest cell is %s × %s with %s.", peak["x"], peak["y"], formatNumber(peak["value"].(float64)))
	}
	return pl, nil
}
