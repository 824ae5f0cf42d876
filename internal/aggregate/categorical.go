package aggregate

import (
	"fmt"
	"sort"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// categorical groups rows by x_axis, aggregates y_axis (or counts), sorts the
// groups by value and keeps the top limit.
func categorical(rows []dataset.Row, req chart.Requirement, p chart.Parameters) (Payload, error) {
	x, y := p.XAxis, p.YAxis
	seg := p.StackBy
	if seg == "" {
		seg = p.GroupBy
	}
	agg := p.Aggregation
	switch {
	case y == "":
		agg = chart.AggCount
	case agg == "":
		agg = chart.AggSum
	}

	g := newGroups()
	points, measured := 0, false
	for _, row := range rows {
		if dataset.IsNull(row[x]) {
			continue
		}
		points++
		v, ok := 0.0, false
		if y != "" {
			v, ok = dataset.Float(row[y])
			measured = measured || ok
		}
		b := g.get(dataset.Text(row[x]))
		b.add(v, ok)
		if seg != "" {
			b.segment(segmentKey(row[seg])).add(v, ok)
		}
	}
	fallback := agg != chart.AggCount && !measured
	if fallback {
		agg = chart.AggCount
	}

	type item struct {
		b     *bucket
		value float64
	}
	all := g.list()
	items := make([]item, len(all))
	total := 0.0
	for i, b := range all {
		items[i] = item{b: b, value: reduce(agg, b.vals, b.count)}
		total += items[i].value
	}
	order := p.SortOrder
	if order == "" {
		order = chart.SortDesc
	}
	switch order {
	case chart.SortDesc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].value > items[j].value })
	case chart.SortAsc:
		sort.SliceStable(items, func(i, j int) bool { return items[i].value < items[j].value })
	}
	limit := p.Limit
	if limit <= 0 {
		limit = req.DefaultLimit
	}
	truncated := 0
	if limit > 0 && len(items) > limit {
		truncated = len(items) - limit
		items = items[:limit]
	}

	share := req.Type == chart.Pie || req.Type == chart.Donut
	data := make([]Record, 0, len(items))
	kept := make([]*bucket, 0, len(items))
	for _, it := range items {
		rec := Record{"category": it.b.key, "value": it.value, "count": it.b.count}
		if share {
			pct := percent(it.value, total)
			rec["percentage"] = pct
			if p.Normalize {
				rec["value"] = pct
			}
		}
		if req.Type == chart.Funnel && len(data) > 0 {
			rec["conversion"] = percent(it.value, items[0].value)
		}
		if seg != "" {
			rec["segments"] = segmentValues(it.b, agg, p.Normalize)
		}
		data = append(data, rec)
		kept = append(kept, it.b)
	}

	meta := map[string]any{
		"x_column":     x,
		"aggregation":  agg,
		"sort_order":   order,
		"limit":        limit,
		"total_points": points,
		"total_groups": len(all),
	}
	if y != "" {
		meta["y_column"] = y
	}
	if share {
		meta["total_value"] = total
	}
	if truncated > 0 {
		meta["truncated_groups"] = truncated
	}
	if fallback {
		meta["aggregation_fallback"] = true
	}
	if seg != "" {
		meta["segment_column"] = seg
		meta["segments"] = segmentOrder(kept)
		meta["normalized"] = p.Normalize
	}

	pl := Payload{Data: data, Metadata: meta}
	if len(items) > 0 {
		top := items[0]
		for _, it := range items[1:] {
			if it.value > top.value {
				top = it
			}
		}
		measure := chart.Humanize(y)
		if agg == chart.AggCount {
			measure = "count"
		}
		pl.Interpretation = fmt.Sprintf("%s has the highest %s (%s), %.1f%% of the total across %d groups.",
			top.b.key, measure, formatNumber(top.value), percent(top.value, total), len(all))
	}
	return pl, nil
}
