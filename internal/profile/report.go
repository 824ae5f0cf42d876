package profile

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Markdown renders a compact profile report.
func (p *DatasetProfile) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if p.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", p.Name))
	}
	if p.Truncated {
		b.WriteString(fmt.Sprintf("Rows: %d (truncated)\n", p.RowCount))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", p.RowCount))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n\n", len(p.Columns)))

	b.WriteString("[SCHEMA]\n")
	for _, c := range p.Columns {
		missPct := 0.0
		if p.RowCount > 0 {
			missPct = float64(c.MissingCount) * 100.0 / float64(p.RowCount)
		}
		kind := string(c.Type)
		if c.Integer {
			kind += ", integer"
		}
		b.WriteString(fmt.Sprintf("- %s: %s (unique %d, missing %.1f%%)\n", safeName(c.Name), kind, c.UniqueCount, missPct))
	}

	if len(p.Stats) > 0 {
		b.WriteString("\n[STATISTICS]\n")
		b.WriteString("| column | count | mean | std | min | p25 | p50 | p75 | max |\n")
		b.WriteString("| --- | --- | --- | --- | --- | --- | --- | --- | --- |\n")
		for _, c := range p.Columns {
			s, ok := p.Stats[c.Name]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
				safeVal(c.Name), s.Count, s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max))
		}
	}

	if len(p.Correlations) > 0 {
		b.WriteString("\n[CORRELATIONS]\n")
		pairs := append([]Correlation(nil), p.Correlations...)
		sort.SliceStable(pairs, func(i, j int) bool {
			return math.Abs(pairs[i].R) > math.Abs(pairs[j].R)
		})
		maxp := 10
		if len(pairs) < maxp {
			maxp = len(pairs)
		}
		for _, c := range pairs[:maxp] {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f (n=%d)\n", c.A, c.B, c.R, c.N))
		}
	}

	if notes := p.notes(); len(notes) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, n := range notes {
			b.WriteString("- ")
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (p *DatasetProfile) notes() []string {
	var out []string
	if p.Truncated {
		out = append(out, fmt.Sprintf("Only the first %d rows were loaded.", p.RowCount))
	}
	for _, c := range p.Columns {
		if p.RowCount > 0 && c.MissingCount == p.RowCount {
			out = append(out, fmt.Sprintf("Column %s is entirely empty.", safeName(c.Name)))
			continue
		}
		if r := p.MissingRatio(c.Name); r > 0.2 {
			out = append(out, fmt.Sprintf("Column %s is %.0f%% missing.", safeName(c.Name), r*100))
		}
		if c.Type == Categorical && c.UniqueCount > 0 && c.UniqueCount == p.RowCount-c.MissingCount && p.RowCount > 20 {
			out = append(out, fmt.Sprintf("Column %s looks like an identifier (every value is unique).", safeName(c.Name)))
		}
	}
	return out
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
