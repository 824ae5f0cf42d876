package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

// maxRows caps the data table in Markdown output.
const maxRows = 50

// Markdown renders the payload as a title, its interpretation and a table of
// records.
func (p Payload) Markdown() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[CHART] %s (%s)\n", p.Title, p.ChartType))
	if p.Insight != "" {
		b.WriteString(p.Insight)
		b.WriteString("\n")
	}
	if p.Interpretation != "" {
		b.WriteString("\n")
		b.WriteString(p.Interpretation)
		b.WriteString("\n")
	}
	if len(p.Data) == 0 {
		b.WriteString("\n(no data points)\n")
		return b.String()
	}

	cols := recordColumns(p.Data)
	b.WriteString("\n| ")
	b.WriteString(strings.Join(cols, " | "))
	b.WriteString(" |\n|")
	b.WriteString(strings.Repeat(" --- |", len(cols)))
	b.WriteString("\n")
	for i, r := range p.Data {
		if i == maxRows {
			b.WriteString(fmt.Sprintf("\n... %d more rows\n", len(p.Data)-maxRows))
			break
		}
		vals := make([]string, len(cols))
		for j, c := range cols {
			vals[j] = formatCell(r[c])
		}
		b.WriteString("| ")
		b.WriteString(strings.Join(vals, " | "))
		b.WriteString(" |\n")
	}
	return b.String()
}

// recordColumns orders keys by first appearance of well-known fields, then
// alphabetically.
func recordColumns(data []Record) []string {
	preferred := []string{"category", "group", "task", "x", "y", "bin_start", "bin_end", "label", "value", "count"}
	seen := map[string]bool{}
	for _, r := range data {
		for k := range r {
			seen[k] = true
		}
	}
	var out []string
	for _, k := range preferred {
		if seen[k] {
			out = append(out, k)
			delete(seen, k)
		}
	}
	var rest []string
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return formatNumber(round2(t))
	case map[string]float64:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s: %s", k, formatNumber(round2(t[k])))
		}
		return strings.Join(parts, ", ")
	case []float64:
		return fmt.Sprintf("%d values", len(t))
	default:
		return strings.ReplaceAll(fmt.Sprint(t), "|", "/")
	}
}
