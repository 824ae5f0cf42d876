package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kmmelissat/analisis-al-instante/internal/utils"
)

var (
	rbLoad      loadFlags
	rbOut       outputFlags
	rbMax       int
	rbJobs      int
	rbOutputDir string
	rbQuiet     bool
)

var recommendBatchCmd = &cobra.Command{
	Use:   "recommend-batch <files...>",
	Short: "Recommend charts for many datasets in parallel",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := utils.ExpandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format, err := rbOut.resolve()
		if err != nil {
			return err
		}
		jobs := rbJobs
		if jobs <= 0 {
			jobs = current().BatchJobs
		}
		if jobs <= 0 {
			jobs = 1
		}

		out := cmd.OutOrStdout()
		var mu sync.Mutex
		started := 0
		results := make([]recommendation, len(files))

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(jobs)
		for i, path := range files {
			i, path := i, path
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				if !rbQuiet {
					mu.Lock()
					started++
					fmt.Fprintf(out, "[%d/%d] Processing %s...\n", started, len(files), filepath.Base(path))
					mu.Unlock()
				}
				rec, err := recommendFile(cmd, path, rbLoad, rbMax)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				results[i] = rec
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if rbOutputDir != "" {
			ext := map[string]string{"markdown": ".md", "json": ".json", "yaml": ".yaml"}[format]
			claimed := map[string]bool{}
			for i, rec := range results {
				base := strings.TrimSuffix(filepath.Base(files[i]), filepath.Ext(files[i]))
				dest := uniquePath(filepath.Join(rbOutputDir, base+".recommendations"+ext), claimed)
				b, err := encode(format, rec, rec.markdown)
				if err != nil {
					return err
				}
				if err := utils.SafeWriteFile(dest, b); err != nil {
					return fmt.Errorf("write %s: %w", dest, err)
				}
				if !rbQuiet {
					fmt.Fprintf(out, "✓ Wrote recommendations to %s\n", dest)
				}
			}
			return nil
		}

		return rbOut.render(cmd, "recommendations", results, func() string {
			parts := make([]string, len(results))
			for i, rec := range results {
				parts[i] = rec.markdown()
			}
			return strings.Join(parts, "\n")
		})
	},
}

// uniquePath appends __2, __3, ... before the extension while the path exists
// on disk or was already claimed by this run.
func uniquePath(path string, claimed map[string]bool) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	cand := path
	for idx := 2; claimed[cand] || exists(cand); idx++ {
		cand = fmt.Sprintf("%s__%d%s", stem, idx, ext)
	}
	claimed[cand] = true
	return cand
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func init() {
	rootCmd.AddCommand(recommendBatchCmd)
	rbLoad.register(recommendBatchCmd)
	rbOut.register(recommendBatchCmd)
	recommendBatchCmd.Flags().IntVarP(&rbMax, "max", "n", 0, "maximum suggestions per file (default from config)")
	recommendBatchCmd.Flags().IntVarP(&rbJobs, "jobs", "j", 0, "files processed in parallel (default from config)")
	recommendBatchCmd.Flags().StringVar(&rbOutputDir, "output-dir", "", "write one result file per input into this directory")
	recommendBatchCmd.Flags().BoolVar(&rbQuiet, "quiet", false, "suppress progress and non-essential output")
}
