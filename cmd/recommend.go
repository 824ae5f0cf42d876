package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kmmelissat/analisis-al-instante/internal/engine"
	"github.com/kmmelissat/analisis-al-instante/internal/recommend"
)

var (
	recLoad loadFlags
	recOut  outputFlags
	recMax  int
)

// recommendation is the serialized result for one dataset.
type recommendation struct {
	Dataset     string                 `json:"dataset"`
	Rows        int                    `json:"rows"`
	Suggestions []recommend.Suggestion `json:"suggestions"`
}

func (r recommendation) markdown() string { return recommend.Markdown(r.Dataset, r.Suggestions) }

var recommendCmd = &cobra.Command{
	Use:   "recommend <file>",
	Short: "Rank the chart types that suit a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rec, err := recommendFile(cmd, args[0], recLoad, recMax)
		if err != nil {
			return err
		}
		return recOut.render(cmd, "recommendations", rec, rec.markdown)
	},
}

func recommendFile(cmd *cobra.Command, path string, lf loadFlags, limit int) (recommendation, error) {
	tb, err := lf.load(path)
	if err != nil {
		return recommendation{}, err
	}
	eng := engine.New(newLogger(cmd.ErrOrStderr()))
	if limit <= 0 {
		limit = current().MaxSuggestions
	}
	prof := eng.Profile(cmd.Context(), tb)
	ss, err := eng.Recommend(cmd.Context(), prof, tb.Rows, limit)
	if err != nil {
		return recommendation{}, err
	}
	if ss == nil {
		ss = []recommend.Suggestion{}
	}
	return recommendation{Dataset: tb.Name, Rows: prof.RowCount, Suggestions: ss}, nil
}

func init() {
	rootCmd.AddCommand(recommendCmd)
	recLoad.register(recommendCmd)
	recOut.register(recommendCmd)
	recommendCmd.Flags().IntVarP(&recMax, "max", "n", 0, "maximum suggestions (default from config)")
}
