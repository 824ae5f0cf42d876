package chart

import (
	"errors"
	"fmt"
	"strings"
)

// Code is a stable, machine-readable violation identifier.
type Code string

const (
	CodeMissingRequired        Code = "MISSING_REQUIRED_PARAMETER"
	CodeIncompatibleType       Code = "INCOMPATIBLE_PARAMETER_TYPE"
	CodeOutOfRange             Code = "PARAMETER_OUT_OF_RANGE"
	CodeInvalidValue           Code = "INVALID_PARAMETER_VALUE"
	CodeIncompatibleCombo      Code = "INCOMPATIBLE_PARAMETER_COMBINATION"
	CodeUnsupportedChartType   Code = "UNSUPPORTED_CHART_TYPE"
	CodeInsufficientDataPoints Code = "INSUFFICIENT_DATA_POINTS"
	CodeTooManyCategories      Code = "TOO_MANY_CATEGORIES"
	CodeColumnNotFound         Code = "COLUMN_NOT_FOUND"
)

// Kind separates parameter problems from problems with the data itself.
type Kind string

const (
	KindValidation Kind = "ValidationError"
	KindData       Kind = "DataError"
)

// Severity marks whether a violation blocks the chart.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// KindOf maps a code to its error kind.
func KindOf(c Code) Kind {
	switch c {
	case CodeInsufficientDataPoints, CodeTooManyCategories, CodeColumnNotFound:
		return KindData
	default:
		return KindValidation
	}
}

// Violation is one failed compatibility check.
type Violation struct {
	Code       Code     `json:"code" yaml:"code"`
	Kind       Kind     `json:"kind" yaml:"kind"`
	Severity   Severity `json:"severity" yaml:"severity"`
	Role       Role     `json:"role,omitempty" yaml:"role,omitempty"`
	Column     string   `json:"column,omitempty" yaml:"column,omitempty"`
	Message    string   `json:"message" yaml:"message"`
	Suggestion string   `json:"suggestion" yaml:"suggestion"`
}

// Blocking reports whether the violation rejects the parameter set.
func (v Violation) Blocking() bool { return v.Severity != SeverityWarning }

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Code, v.Message)
}

// ValidationError reports parameters that cannot configure the chart type.
type ValidationError struct {
	ChartType  ChartType
	Violations []Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s parameters: %s", e.ChartType, joinViolations(e.Violations))
}

// DataError reports a dataset that cannot support the chart type.
type DataError struct {
	ChartType  ChartType
	Violations []Violation
}

func (e *DataError) Error() string {
	return fmt.Sprintf("data unsuitable for %s: %s", e.ChartType, joinViolations(e.Violations))
}

func joinViolations(vs []Violation) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, "; ")
}

// AsError folds the blocking violations into a typed error, or nil. Any
// parameter problem makes it a *ValidationError; otherwise a *DataError.
func AsError(t ChartType, vs []Violation) error {
	var blocking []Violation
	dataOnly := true
	for _, v := range vs {
		if !v.Blocking() {
			continue
		}
		blocking = append(blocking, v)
		if v.Kind != KindData {
			dataOnly = false
		}
	}
	if len(blocking) == 0 {
		return nil
	}
	if dataOnly {
		return &DataError{ChartType: t, Violations: blocking}
	}
	return &ValidationError{ChartType: t, Violations: blocking}
}

// ViolationsOf extracts violations carried by err, if any.
func ViolationsOf(err error) []Violation {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	var de *DataError
	if errors.As(err, &de) {
		return de.Violations
	}
	return nil
}

func violation(c Code, sev Severity, role Role, col, msg, hint string) Violation {
	return Violation{Code: c, Kind: KindOf(c), Severity: sev, Role: role, Column: col, Message: msg, Suggestion: hint}
}
