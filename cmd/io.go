package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/kmmelissat/analisis-al-instante/internal/config"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/utils"
)

// loadFlags are shared by every command that reads a dataset file.
type loadFlags struct {
	delimiter string
	sheet     string
	maxRows   int
}

func (lf *loadFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default from config, auto-detect)")
	cmd.Flags().StringVar(&lf.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	cmd.Flags().IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to load (default from config)")
}

func (lf loadFlags) options() (dataset.LoadOptions, error) {
	c := current()
	opt := dataset.DefaultLoadOptions()
	if c.MaxRows > 0 {
		opt.MaxRows = c.MaxRows
	}
	if lf.maxRows > 0 {
		opt.MaxRows = lf.maxRows
	}
	opt.Delimiter = c.DelimiterRune()
	if lf.delimiter != "" {
		switch lf.delimiter {
		case "auto":
			opt.Delimiter = 0
		case ",", ";", "\t", "tab", "comma", "semicolon":
			opt.Delimiter = cfgpkg.ParseDelimiter(lf.delimiter)
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
		}
	}
	opt.Sheet = c.Sheet
	if lf.sheet != "" {
		opt.Sheet = lf.sheet
	}
	return opt, nil
}

func (lf loadFlags) load(path string) (*dataset.Table, error) {
	if !dataset.Supported(path) {
		return nil, fmt.Errorf("%w: %s (use .csv, .tsv or .xlsx)", dataset.ErrUnsupported, filepath.Ext(path))
	}
	opt, err := lf.options()
	if err != nil {
		return nil, err
	}
	return dataset.LoadFile(path, opt)
}

// outputFlags select the output format and an optional destination file.
type outputFlags struct {
	format string
	path   string
}

func (of *outputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&of.format, "format", "", "output format: markdown | json | yaml (default from config)")
	cmd.Flags().StringVarP(&of.path, "output", "o", "", "write output to file instead of stdout")
}

func (of outputFlags) resolve() (string, error) {
	f := of.format
	if f == "" {
		f = current().OutputFormat
	}
	switch strings.ToLower(f) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json", "yaml":
		return strings.ToLower(f), nil
	}
	return "", fmt.Errorf("unsupported --format: %s (use markdown, json or yaml)", f)
}

// render encodes v in the selected format and writes it to --output or
// stdout. what names the artifact in the confirmation line.
func (of outputFlags) render(cmd *cobra.Command, what string, v any, markdown func() string) error {
	format, err := of.resolve()
	if err != nil {
		return err
	}
	b, err := encode(format, v, markdown)
	if err != nil {
		return err
	}
	if of.path != "" {
		if err := utils.SafeWriteFile(of.path, b); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", what, of.path)
		return nil
	}
	_, err = cmd.OutOrStdout().Write(b)
	return err
}

func encode(format string, v any, markdown func() string) ([]byte, error) {
	switch format {
	case "json":
		return utils.PrettyJSON(v)
	case "yaml":
		return utils.PrettyYAML(v)
	default:
		md := markdown()
		if !strings.HasSuffix(md, "\n") {
			md += "\n"
		}
		return []byte(md), nil
	}
}
