package chart

import (
	"fmt"
	"strings"

	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

var (
	aggregations = []string{AggCount, AggSum, AggMean, AggMin, AggMax}
	sortOrders   = []string{SortAsc, SortDesc, SortNone}
	// categoryRoles are checked against Requirement.MaxCategories.
	categoryRoles = []Role{RoleX, RoleY, RoleStack, RoleGroup}
)

// Validate checks a parameter set against the registry and a dataset profile.
// Every check runs; the result lists all violations, empty when valid.
func Validate(t ChartType, p Parameters, prof *profile.DatasetProfile) []Violation {
	req, ok := Lookup(t)
	if !ok {
		return []Violation{violation(CodeUnsupportedChartType, SeverityError, "", "",
			fmt.Sprintf("chart type %q is not supported", t),
			"Use one of: "+joinTypes(Types()))}
	}
	if prof == nil {
		prof = &profile.DatasetProfile{}
	}
	var out []Violation
	out = append(out, checkRequired(req, p)...)
	out = append(out, checkColumns(req, p, prof)...)
	out = append(out, checkSize(req, prof)...)
	out = append(out, checkCombinations(req, p)...)
	out = append(out, checkScalars(req, p)...)
	out = append(out, checkCategories(req, p, prof)...)
	return out
}

// Check runs Validate and returns the typed error for blocking violations.
func Check(t ChartType, p Parameters, prof *profile.DatasetProfile) error {
	return AsError(t, Validate(t, p, prof))
}

func checkRequired(req Requirement, p Parameters) []Violation {
	var out []Violation
	for _, role := range req.Required {
		if !isColumnRole(role) || p.Column(role) != "" {
			continue
		}
		out = append(out, violation(CodeMissingRequired, SeverityError, role, "",
			fmt.Sprintf("%s requires %s", req.Type, role),
			fmt.Sprintf("Set %s to a %s column.", role, describeTags(req.Accept[role]))))
	}
	return out
}

func checkColumns(req Requirement, p Parameters, prof *profile.DatasetProfile) []Violation {
	var out []Violation
	for _, b := range p.Bindings() {
		col, ok := prof.Column(b.Column)
		if !ok {
			out = append(out, violation(CodeColumnNotFound, SeverityError, b.Role, b.Column,
				fmt.Sprintf("column %q bound to %s is not in the dataset", b.Column, b.Role),
				"Check the column name against the dataset schema."))
			continue
		}
		if !req.Knows(b.Role) || req.Accepts(b.Role, col.Type) {
			continue
		}
		out = append(out, violation(CodeIncompatibleType, SeverityError, b.Role, b.Column,
			fmt.Sprintf("%s expects a %s column but %q is %s", b.Role, describeTags(req.Accept[b.Role]), b.Column, col.Type),
			fmt.Sprintf("Bind %s to a %s column or pick another chart type.", b.Role, describeTags(req.Accept[b.Role]))))
	}
	return out
}

func checkSize(req Requirement, prof *profile.DatasetProfile) []Violation {
	var out []Violation
	if prof.RowCount < req.MinDataPoints {
		out = append(out, violation(CodeInsufficientDataPoints, SeverityError, "", "",
			fmt.Sprintf("%s needs at least %d rows, dataset has %d", req.Type, req.MinDataPoints, prof.RowCount),
			"Add more data or choose a chart that works with fewer points."))
	}
	if req.MinNumericColumns > 0 {
		if n := len(prof.ColumnsOfType(profile.Numeric)); n < req.MinNumericColumns {
			out = append(out, violation(CodeInsufficientDataPoints, SeverityError, "", "",
				fmt.Sprintf("%s needs at least %d numeric columns, dataset has %d", req.Type, req.MinNumericColumns, n),
				"Choose a chart that compares fewer measures."))
		}
	}
	return out
}

func checkCombinations(req Requirement, p Parameters) []Violation {
	var out []Violation
	seen := map[string]Role{}
	for _, b := range p.Bindings() {
		if !req.Knows(b.Role) {
			out = append(out, violation(CodeIncompatibleCombo, SeverityError, b.Role, b.Column,
				fmt.Sprintf("%s does not use %s", req.Type, b.Role),
				fmt.Sprintf("Remove %s or choose a chart type that supports it.", b.Role)))
			continue
		}
		if prev, dup := seen[b.Column]; dup {
			out = append(out, violation(CodeIncompatibleCombo, SeverityError, b.Role, b.Column,
				fmt.Sprintf("column %q is bound to both %s and %s", b.Column, prev, b.Role),
				"Use a different column for each role."))
			continue
		}
		seen[b.Column] = b.Role
	}
	if p.Normalize && !req.AllowNormalize {
		out = append(out, violation(CodeIncompatibleCombo, SeverityError, RoleNormalize, "",
			fmt.Sprintf("normalize is not available for %s", req.Type),
			"Normalize only applies to stacked_bar, stacked_area, pie and donut charts."))
	}
	return out
}

func checkScalars(req Requirement, p Parameters) []Violation {
	var out []Violation
	if outOfRange(p.Limit, req.LimitRange) {
		out = append(out, violation(CodeOutOfRange, SeverityError, RoleLimit, "",
			fmt.Sprintf("limit %d is outside %s", p.Limit, describeRange(req.LimitRange)),
			fmt.Sprintf("Use a limit within %s.", describeRange(req.LimitRange))))
	}
	if outOfRange(p.Bins, req.BinsRange) {
		out = append(out, violation(CodeOutOfRange, SeverityError, RoleBins, "",
			fmt.Sprintf("bins %d is outside %s", p.Bins, describeRange(req.BinsRange)),
			fmt.Sprintf("Use a bin count within %s.", describeRange(req.BinsRange))))
	}
	if p.Aggregation != "" && !containsString(aggregations, p.Aggregation) {
		out = append(out, violation(CodeInvalidValue, SeverityError, RoleAggregation, "",
			fmt.Sprintf("unknown aggregation %q", p.Aggregation),
			"Use one of: "+strings.Join(aggregations, ", ")+"."))
	}
	if p.SortOrder != "" && !containsString(sortOrders, p.SortOrder) {
		out = append(out, violation(CodeInvalidValue, SeverityError, RoleSortOrder, "",
			fmt.Sprintf("unknown sort order %q", p.SortOrder),
			"Use one of: "+strings.Join(sortOrders, ", ")+"."))
	}
	return out
}

// checkCategories flags categorical axes above the chart's cardinality cap.
// Roles the pipeline truncates with limit only warn.
func checkCategories(req Requirement, p Parameters, prof *profile.DatasetProfile) []Violation {
	if req.MaxCategories == 0 {
		return nil
	}
	var out []Violation
	for _, role := range categoryRoles {
		name := p.Column(role)
		if name == "" || !req.Knows(role) {
			continue
		}
		col, ok := prof.Column(name)
		if !ok || col.Type != profile.Categorical || col.UniqueCount <= req.MaxCategories {
			continue
		}
		sev, hint := SeverityError, "Pre-aggregate the data or pick a column with fewer distinct values."
		if truncated(req, role) {
			sev = SeverityWarning
			hint = fmt.Sprintf("Only the top %d categories will be shown; set limit to adjust.", req.DefaultLimit)
		}
		out = append(out, violation(CodeTooManyCategories, sev, role, name,
			fmt.Sprintf("%q has %d distinct values, %s supports up to %d", name, col.UniqueCount, req.Type, req.MaxCategories),
			hint))
	}
	return out
}

func truncated(req Requirement, role Role) bool {
	return (req.Family == FamilyCategorical && role == RoleX) || (req.Family == FamilyProfile && role == RoleGroup)
}

func outOfRange(n int, r Range) bool {
	if n < 0 {
		return true
	}
	return n > 0 && r != (Range{}) && !r.Contains(n)
}

func describeRange(r Range) string {
	if r.Max == 0 {
		return fmt.Sprintf(">= %d", r.Min)
	}
	return fmt.Sprintf("%d..%d", r.Min, r.Max)
}

func describeTags(tags []profile.TypeTag) string {
	if len(tags) == 0 {
		return "any"
	}
	parts := make([]string, len(tags))
	for i, t := range tags {
		parts[i] = string(t)
	}
	return strings.Join(parts, " or ")
}

func joinTypes(ts []ChartType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
