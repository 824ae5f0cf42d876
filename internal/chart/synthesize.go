package chart

import (
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// optionalFill lists optional column roles the synthesizer binds when a
// compatible unused column exists.
var optionalFill = []Role{RoleX, RoleY, RoleSize, RoleValue}

// Synthesize proposes default parameters for t from the available columns.
//
// Each required role takes the first column, in the given order, whose tag the
// registry accepts and that no other role already uses. A required role with
// no candidate stays unset; validation reports it.
func Synthesize(t ChartType, columns []profile.ColumnProfile) Parameters {
	var p Parameters
	req, ok := Lookup(t)
	if !ok {
		return p
	}
	used := map[string]bool{}
	pick := func(role Role, optional bool) {
		if p.Column(role) != "" {
			return
		}
		for _, c := range columns {
			if used[c.Name] || !req.Accepts(role, c.Type) {
				continue
			}
			// optional axes skip columns the chart cannot show without truncation
			if optional && overCap(req, role, c) {
				continue
			}
			p.SetColumn(role, c.Name)
			used[c.Name] = true
			return
		}
	}
	for _, role := range req.Required {
		if isColumnRole(role) {
			pick(role, false)
		}
	}
	for _, role := range optionalFill {
		if contains(req.Optional, role) {
			pick(role, true)
		}
	}
	applyDefaults(req, &p)
	return p
}

func applyDefaults(req Requirement, p *Parameters) {
	switch req.Type {
	case Histogram:
		p.Bins = 20
	case Pie, Donut:
		p.Limit = 8
	}
	switch req.Type {
	case Bar, HorizontalBar, StackedBar, GroupedBar, Pie, Donut:
		p.Aggregation = AggSum
		p.SortOrder = SortDesc
	}
}

func overCap(req Requirement, role Role, c profile.ColumnProfile) bool {
	return req.MaxCategories > 0 && c.Type == profile.Categorical &&
		c.UniqueCount > req.MaxCategories && !truncated(req, role)
}

func isColumnRole(r Role) bool {
	return contains(ColumnRoles, r)
}
