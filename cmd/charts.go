package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
)

var chartsOut outputFlags

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "List supported chart types and their requirements",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg := chart.Registry()
		return chartsOut.render(cmd, "chart types", reg, func() string { return registryMarkdown(reg) })
	},
}

func registryMarkdown(reg []chart.Requirement) string {
	var b strings.Builder
	b.WriteString("[CHART TYPES]\n")
	b.WriteString("| type | family | complexity | required | optional | min rows |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, r := range reg {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %d |\n",
			r.Type, r.Family, r.Complexity, roles(r.Required), roles(r.Optional), r.MinDataPoints))
	}
	return b.String()
}

func roles(rs []chart.Role) string {
	if len(rs) == 0 {
		return "-"
	}
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = string(r)
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(chartsCmd)
	chartsOut.register(chartsCmd)
}
