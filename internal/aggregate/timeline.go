package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

const dateLayout = "2006-01-02"

// timeline turns rows into task spans from x_axis (start) to end_column.
// Rows with unparseable dates or an end before the start are skipped.
func timeline(rows []dataset.Row, _ chart.Requirement, p chart.Parameters) (Payload, error) {
	type span struct {
		task       string
		start, end time.Time
		color      string
	}
	var spans []span
	skipped := 0
	for _, row := range rows {
		start, ok1 := profile.ParseDate(dataset.Text(row[p.XAxis]))
		end, ok2 := profile.ParseDate(dataset.Text(row[p.EndColumn]))
		if !ok1 || !ok2 || end.Before(start) || dataset.IsNull(row[p.YAxis]) {
			skipped++
			continue
		}
		s := span{task: dataset.Text(row[p.YAxis]), start: start, end: end}
		if p.ColorBy != "" {
			s.color = segmentKey(row[p.ColorBy])
		}
		spans = append(spans, s)
	}
	sort.SliceStable(spans, func(i, j int) bool {
		if !spans[i].start.Equal(spans[j].start) {
			return spans[i].start.Before(spans[j].start)
		}
		return spans[i].task < spans[j].task
	})

	data := make([]Record, 0, len(spans))
	for _, s := range spans {
		rec := Record{
			"task":          s.task,
			"start":         s.start.Format(dateLayout),
			"end":           s.end.Format(dateLayout),
			"duration_days": s.end.Sub(s.start).Hours() / 24,
		}
		if p.ColorBy != "" {
			rec["color"] = s.color
		}
		data = append(data, rec)
	}

	meta := map[string]any{
		"task_column":  p.YAxis,
		"start_column": p.XAxis,
		"end_column":   p.EndColumn,
		"total_points": len(data),
		"skipped_rows": skipped,
	}
	pl := Payload{Data: data, Metadata: meta}
	if len(spans) > 0 {
		first := spans[0].start
		last := spans[0].end
		for _, s := range spans[1:] {
			if s.end.After(last) {
				last = s.end
			}
		}
		meta["earliest"] = first.Format(dateLayout)
		meta["latest"] = last.Format(dateLayout)
		pl.Interpretation = fmt.Sprintf("%d tasks span %.0f days from %s to %s.",
			len(spans), last.Sub(first).Hours()/24, first.Format(dateLayout), last.Format(dateLayout))
	}
	return pl, nil
}
