package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LoadOptions controls how a file is turned into a Table.
type LoadOptions struct {
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, sniffed from the extension and the header line.
	Delimiter rune
	// Sheet selects an XLSX sheet by name. Empty means the first sheet.
	Sheet string
}

// DefaultLoadOptions returns the limits used when the caller has no config.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{MaxRows: 100000}
}

// Loader turns one file format into a Table.
type Loader interface {
	CanLoad(filename string) bool
	Load(name string, r io.Reader, opt LoadOptions) (*Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// ErrUnsupported indicates no registered loader accepts the file name.
var ErrUnsupported = errors.New("unsupported dataset format")

// Load selects a loader by file name and reads the dataset from r.
func Load(filename string, r io.Reader, opt LoadOptions) (*Table, error) {
	for _, l := range registry {
		if l.CanLoad(filename) {
			t, err := l.Load(filepath.Base(filename), r, opt)
			if err != nil {
				return nil, err
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(filename))
}

// LoadFile opens path and loads it with the matching loader.
func LoadFile(path string, opt LoadOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return Load(path, f, opt)
}

// Supported reports whether some loader accepts filename.
func Supported(filename string) bool {
	for _, l := range registry {
		if l.CanLoad(filename) {
			return true
		}
	}
	return false
}

func hasExt(filename string, exts ...string) bool {
	name := strings.ToLower(filename)
	for _, e := range exts {
		if strings.HasSuffix(name, e) {
			return true
		}
	}
	return false
}

// header cleans raw header cells: trims, names blanks, and suffixes duplicates.
func header(raw []string) []string {
	out := make([]string, len(raw))
	seen := map[string]int{}
	for i, h := range raw {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		} else {
			seen[name] = 1
		}
		out[i] = name
	}
	return out
}

// record converts one raw record into a Row keyed by the header. Short
// records leave trailing columns nil.
func record(cols, cells []string) Row {
	row := make(Row, len(cols))
	for i, c := range cols {
		if i < len(cells) {
			row[c] = cells[i]
		} else {
			row[c] = nil
		}
	}
	return row
}

func init() {
	Register(csvLoader{})
	Register(xlsxLoader{})
}
