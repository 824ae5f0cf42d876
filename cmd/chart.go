package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmmelissat/analisis-al-instante/internal/aggregate"
	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/engine"
)

var (
	chLoad   loadFlags
	chOut    outputFlags
	chType   string
	chParams []string
	chAuto   bool
)

// chartResult pairs a payload with the parameters that produced it.
type chartResult struct {
	aggregate.Payload `yaml:",inline"`
	Parameters        chart.Parameters `json:"parameters"`
}

var chartCmd = &cobra.Command{
	Use:   "chart <file>",
	Short: "Build a chart-ready aggregated payload",
	Long: `Aggregate a dataset for one chart type. Bind roles with repeated --param flags,
for example --param x_axis=region --param y_axis=sales --param aggregation=sum,
or let --auto choose columns from the inferred schema.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chType == "" {
			return fmt.Errorf("--type is required (see 'instante charts')")
		}
		t := chart.ChartType(strings.ToLower(strings.TrimSpace(chType)))
		var params chart.Parameters
		for _, kv := range chParams {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("invalid --param %q (use key=value)", kv)
			}
			if err := params.Set(k, v); err != nil {
				return err
			}
		}
		if chAuto && len(chParams) > 0 {
			return fmt.Errorf("--auto and --param are mutually exclusive")
		}

		tb, err := chLoad.load(args[0])
		if err != nil {
			return err
		}
		eng := engine.New(newLogger(cmd.ErrOrStderr()))
		prof := eng.Profile(cmd.Context(), tb)
		var pl aggregate.Payload
		if chAuto {
			pl, params, err = eng.AutoChart(cmd.Context(), tb, prof, t)
		} else {
			pl, err = eng.AggregateTable(cmd.Context(), tb, prof, t, params)
		}
		if err != nil {
			for _, v := range chart.ViolationsOf(err) {
				if v.Suggestion != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "  hint (%s): %s\n", v.Code, v.Suggestion)
				}
			}
			return err
		}
		res := chartResult{Payload: pl, Parameters: params}
		return chOut.render(cmd, "chart", res, pl.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chLoad.register(chartCmd)
	chOut.register(chartCmd)
	chartCmd.Flags().StringVarP(&chType, "type", "t", "", "chart type (see 'instante charts')")
	chartCmd.Flags().StringArrayVarP(&chParams, "param", "p", nil, "parameter binding key=value (repeatable)")
	chartCmd.Flags().BoolVar(&chAuto, "auto", false, "choose parameters from the inferred schema")
}
