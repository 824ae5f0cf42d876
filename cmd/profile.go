package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kmmelissat/analisis-al-instante/internal/engine"
)

var (
	profLoad loadFlags
	profOut  outputFlags
)

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Infer column types and summary statistics of a CSV/TSV/XLSX file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tb, err := profLoad.load(args[0])
		if err != nil {
			return err
		}
		eng := engine.New(newLogger(cmd.ErrOrStderr()))
		prof := eng.Profile(cmd.Context(), tb)
		return profOut.render(cmd, "profile", prof, prof.Markdown)
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profLoad.register(profileCmd)
	profOut.register(profileCmd)
}
