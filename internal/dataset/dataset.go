package dataset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Row maps a column name to a scalar cell value (string, number, bool or nil).
type Row map[string]any

// Table is a loaded dataset: an ordered header plus its rows.
type Table struct {
	Name    string
	Columns []string
	Rows    []Row
	// Truncated is set when the loader stopped at LoadOptions.MaxRows.
	Truncated bool
}

// FromRows builds a Table from caller-supplied rows. When columns is empty the
// header is the sorted union of keys across all rows.
func FromRows(name string, rows []Row, columns []string) *Table {
	cols := columns
	if len(cols) == 0 {
		cols = ColumnsOf(rows)
	}
	return &Table{Name: name, Columns: append([]string(nil), cols...), Rows: rows}
}

// ColumnsOf returns the sorted union of keys present in rows.
func ColumnsOf(rows []Row) []string {
	seen := map[string]struct{}{}
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Values returns the cells of one column in row order. Absent keys yield nil.
func (t *Table) Values(col string) []any {
	out := make([]any, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[col]
	}
	return out
}

// HasColumn reports whether col is part of the header.
func (t *Table) HasColumn(col string) bool {
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// IsNull reports whether a cell counts as missing: nil or blank text.
func IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	default:
		return false
	}
}

// Float coerces a cell to a finite float64. Text is parsed with strconv; NaN
// and infinities are rejected.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		p, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Text renders a cell as the string used for grouping and display.
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
