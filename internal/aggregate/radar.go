package aggregate

import (
	"fmt"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

const allRows = "All rows"

// radar profiles every numeric column, per group_by value when set.
func radar(rows []dataset.Row, req chart.Requirement, p chart.Parameters) (Payload, error) {
	var axes []string
	for _, col := range dataset.ColumnsOf(rows) {
		if col == p.GroupBy {
			continue
		}
		values := make([]any, len(rows))
		for i, r := range rows {
			values[i] = r[col]
		}
		if profile.InferType(values) == profile.Numeric {
			axes = append(axes, col)
		}
	}
	if len(axes) == 0 {
		return Payload{}, &chart.DataError{ChartType: req.Type, Violations: []chart.Violation{{
			Code:       chart.CodeInsufficientDataPoints,
			Kind:       chart.KindData,
			Severity:   chart.SeverityError,
			Message:    "no numeric columns to plot",
			Suggestion: "Radar charts need numeric measures.",
		}}}
	}
	agg := p.Aggregation
	if agg == "" {
		agg = chart.AggMean
	}

	type profileAcc struct {
		key   string
		count int
		vals  map[string][]float64
	}
	var order []*profileAcc
	byKey := map[string]*profileAcc{}
	for _, row := range rows {
		key := allRows
		if p.GroupBy != "" {
			if dataset.IsNull(row[p.GroupBy]) {
				continue
			}
			key = dataset.Text(row[p.GroupBy])
		}
		acc, ok := byKey[key]
		if !ok {
			acc = &profileAcc{key: key, vals: map[string][]float64{}}
			byKey[key] = acc
			order = append(order, acc)
		}
		acc.count++
		for _, a := range axes {
			if v, ok := dataset.Float(row[a]); ok {
				acc.vals[a] = append(acc.vals[a], v)
			}
		}
	}

	limit := p.Limit
	if limit <= 0 {
		limit = req.DefaultLimit
	}
	truncated := 0
	if p.GroupBy != "" && limit > 0 && len(order) > limit {
		truncated = len(order) - limit
		order = order[:limit]
	}

	data := make([]Record, 0, len(order))
	leads := map[string]int{}
	best := map[string]float64{}
	leader := map[string]string{}
	for _, acc := range order {
		values := make(map[string]float64, len(axes))
		for _, a := range axes {
			v := reduce(agg, acc.vals[a], len(acc.vals[a]))
			values[a] = v
			if cur, ok := best[a]; !ok || v > cur {
				best[a] = v
				leader[a] = acc.key
			}
		}
		data = append(data, Record{"group": acc.key, "values": values, "count": acc.count})
	}
	for _, k := range leader {
		leads[k]++
	}

	meta := map[string]any{
		"axes":         axes,
		"aggregation":  agg,
		"total_points": len(rows),
		"groups":       len(data),
	}
	if p.GroupBy != "" {
		meta["group_column"] = p.GroupBy
		meta["limit"] = limit
	}
	if truncated > 0 {
		meta["truncated_groups"] = truncated
	}
	pl := Payload{Data: data, Metadata: meta}
	if len(data) > 1 {
		top, n := "", -1
		for _, acc := range order {
			if leads[acc.key] > n {
				top, n = acc.key, leads[acc.key]
			}
		}
		pl.Interpretation = fmt.Sprintf("%s leads on %d of %d measures.", top, n, len(axes))
	} else if len(data) == 1 {
		pl.Interpretation = fmt.Sprintf("Profile of %d numeric measures across %d rows.", len(axes), order[0].count)
	}
	return pl, nil
}
