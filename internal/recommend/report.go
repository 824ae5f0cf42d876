package recommend

import (
	"fmt"
	"strings"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
)

// Markdown renders ranked suggestions for dataset name.
func Markdown(name string, ss []Suggestion) string {
	var b strings.Builder
	b.WriteString("[CHART RECOMMENDATIONS]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("Dataset: %s\n", name))
	}
	if len(ss) == 0 {
		b.WriteString("No chart type fits this dataset.\n")
		return b.String()
	}
	b.WriteString("\n| # | chart | score | confidence | title | parameters |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for i, s := range ss {
		b.WriteString(fmt.Sprintf("| %d | %s | %.0f | %.0f | %s | %s |\n",
			i+1, s.ChartType, s.Score, s.Confidence, cell(s.Title), cell(describe(s.Parameters))))
	}
	for i, s := range ss {
		b.WriteString(fmt.Sprintf("\n%d. %s: %s\n", i+1, s.ChartType, s.Insight))
		for _, r := range s.Reasoning {
			b.WriteString("   - ")
			b.WriteString(r)
			b.WriteString("\n")
		}
		for _, w := range s.Warnings {
			b.WriteString("   - ⚠ ")
			b.WriteString(w.Message)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func describe(p chart.Parameters) string {
	var parts []string
	for _, bnd := range p.Bindings() {
		parts = append(parts, fmt.Sprintf("%s=%s", bnd.Role, bnd.Column))
	}
	if p.Aggregation != "" {
		parts = append(parts, "aggregation="+p.Aggregation)
	}
	if p.Bins > 0 {
		parts = append(parts, fmt.Sprintf("bins=%d", p.Bins))
	}
	if p.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit=%d", p.Limit))
	}
	return strings.Join(parts, ", ")
}

func cell(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
