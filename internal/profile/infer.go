package profile

import (
	"regexp"
	"time"

	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
)

// datetimeThreshold is the share of non-missing values that must look like
// dates before a column is tagged datetime.
const datetimeThreshold = 0.8

var datePatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	{regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}`), "2006-1-2"},
	{regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}`), "1/2/2006"},
	{regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}`), "1-2-2006"},
}

// InferType classifies one column's raw cells.
//
// Missing cells are ignored. If every remaining value is a finite number the
// column is numeric; otherwise, if more than 80% are valid dates in one of the
// YYYY-MM-DD, MM/DD/YYYY or MM-DD-YYYY forms, it is datetime. Everything else,
// including an all-missing column, is categorical.
func InferType(values []any) TypeTag {
	n, numeric, dates := 0, 0, 0
	for _, v := range values {
		if dataset.IsNull(v) {
			continue
		}
		n++
		if _, ok := dataset.Float(v); ok {
			numeric++
			continue
		}
		if _, ok := ParseDate(dataset.Text(v)); ok {
			dates++
		}
	}
	switch {
	case n == 0:
		return Categorical
	case numeric == n:
		return Numeric
	case float64(dates)/float64(n) > datetimeThreshold:
		return Datetime
	default:
		return Categorical
	}
}

// ParseDate parses the leading date of s in one of the recognised forms.
// Trailing time components are ignored. Impossible dates such as 2024-02-30
// are rejected.
func ParseDate(s string) (time.Time, bool) {
	for _, p := range datePatterns {
		m := p.re.FindString(s)
		if m == "" {
			continue
		}
		t, err := time.Parse(p.layout, m)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}
	return time.Time{}, false
}
