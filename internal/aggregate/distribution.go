package aggregate

import (
	"fmt"
	"sort"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

const defaultBins = 20

// histogram counts finite x_axis values into equal-width bins over [min, max].
// The maximum lands in the last bin.
func histogram(rows []dataset.Row, _ chart.Requirement, p chart.Parameters) (Payload, error) {
	xs := make([]float64, 0, len(rows))
	for _, row := range rows {
		if v, ok := dataset.Float(row[p.XAxis]); ok {
			xs = append(xs, v)
		}
	}
	bins := p.Bins
	if bins <= 0 {
		bins = defaultBins
	}
	meta := map[string]any{"x_column": p.XAxis, "total_points": len(xs)}
	if len(xs) == 0 {
		meta["bins"] = 0
		return Payload{Metadata: meta, Interpretation: fmt.Sprintf("%s has no numeric values.", chart.Humanize(p.XAxis))}, nil
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	s := profile.SummarizeSorted(sorted)
	lo, hi := s.Min, s.Max
	if lo == hi {
		bins = 1
	}
	width := (hi - lo) / float64(bins)
	counts := make([]int, bins)
	for _, v := range xs {
		i := 0
		if width > 0 {
			i = int((v - lo) / width)
		}
		if i >= bins {
			i = bins - 1
		}
		if i < 0 {
			i = 0
		}
		counts[i]++
	}
	data := make([]Record, bins)
	mode := 0
	for i, c := range counts {
		start := lo + float64(i)*width
		end := lo + float64(i+1)*width
		if i == bins-1 {
			end = hi
		}
		data[i] = Record{
			"bin_start": start,
			"bin_end":   end,
			"label":     fmt.Sprintf("%s - %s", formatNumber(round2(start)), formatNumber(round2(end))),
			"count":     c,
		}
		if c > counts[mode] {
			mode = i
		}
	}
	meta["bins"] = bins
	meta["bin_width"] = width
	meta["min"] = lo
	meta["max"] = hi
	meta["mean"] = s.Mean
	meta["std"] = s.Std
	return Payload{
		Data:     data,
		Metadata: meta,
		Interpretation: fmt.Sprintf("Most %s values fall in %s (%d of %d).",
			chart.Humanize(p.XAxis), data[mode]["label"], counts[mode], len(xs)),
	}, nil
}

// boxSummary computes nearest-rank quartiles per x_axis group with whiskers at
// the most extreme values inside the 1.5×IQR fence.
func boxSummary(rows []dataset.Row, req chart.Requirement, p chart.Parameters) (Payload, error) {
	g := newGroups()
	points := 0
	for _, row := range rows {
		v, ok := dataset.Float(row[p.YAxis])
		if !ok {
			continue
		}
		key := p.YAxis
		if p.XAxis != "" {
			if dataset.IsNull(row[p.XAxis]) {
				continue
			}
			key = dataset.Text(row[p.XAxis])
		}
		points++
		g.get(key).add(v, true)
	}

	data := make([]Record, 0, len(g.order))
	var hiMed, loMed Record
	outlierTotal := 0
	for _, b := range g.list() {
		vals := append([]float64(nil), b.vals...)
		sort.Float64s(vals)
		st := profile.SummarizeSorted(vals)
		q1, med, q3 := st.P25, st.P50, st.P75
		iqr := q3 - q1
		lo, hi := q1-1.5*iqr, q3+1.5*iqr

		wmin, wmax := vals[0], vals[len(vals)-1]
		for _, v := range vals {
			if v >= lo {
				wmin = v
				break
			}
		}
		for i := len(vals) - 1; i >= 0; i-- {
			if vals[i] <= hi {
				wmax = vals[i]
				break
			}
		}
		outliers := []float64{}
		for _, v := range vals {
			if v < lo || v > hi {
				outliers = append(outliers, v)
			}
		}
		outlierTotal += len(outliers)

		rec := Record{
			"group":  b.key,
			"min":    wmin,
			"q1":     q1,
			"median": med,
			"q3":     q3,
			"max":    wmax,
			"mean":   st.Mean,
			"count":  len(vals),
		}
		if p.ShowOutliers {
			rec["outliers"] = outliers
		}
		if req.Type == chart.Violin {
			rec["values"] = vals
		}
		data = append(data, rec)
		if hiMed == nil || med > hiMed["median"].(float64) {
			hiMed = rec
		}
		if loMed == nil || med < loMed["median"].(float64) {
			loMed = rec
		}
	}

	meta := map[string]any{
		"y_column":      p.YAxis,
		"total_points":  points,
		"groups":        len(data),
		"show_outliers": p.ShowOutliers,
		"outlier_count": outlierTotal,
	}
	if p.XAxis != "" {
		meta["x_column"] = p.XAxis
	}
	pl := Payload{Data: data, Metadata: meta}
	switch {
	case len(data) > 1:
		pl.Interpretation = fmt.Sprintf("Median %s ranges from %s (%s) to %s (%s).",
			chart.Humanize(p.YAxis), formatNumber(loMed["median"].(float64)), loMed["group"],
			formatNumber(hiMed["median"].(float64)), hiMed["group"])
	case len(data) == 1:
		pl.Interpretation = fmt.Sprintf("Median %s is %s with half the values between %s and %s.",
			chart.Humanize(p.YAxis), formatNumber(data[0]["median"].(float64)),
			formatNumber(data[0]["q1"].(float64)), formatNumber(data[0]["q3"].(float64)))
	}
	return pl, nil
}
