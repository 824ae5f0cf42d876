package chart

import (
	"fmt"
	"strconv"
	"strings"
)

// ChartType names a supported visualization kind.
type ChartType string

const (
	Bar           ChartType = "bar"
	HorizontalBar ChartType = "horizontal_bar"
	StackedBar    ChartType = "stacked_bar"
	GroupedBar    ChartType = "grouped_bar"
	Line          ChartType = "line"
	MultiLine     ChartType = "multi_line"
	Area          ChartType = "area"
	StackedArea   ChartType = "stacked_area"
	Pie           ChartType = "pie"
	Donut         ChartType = "donut"
	Scatter       ChartType = "scatter"
	Bubble        ChartType = "bubble"
	Histogram     ChartType = "histogram"
	Box           ChartType = "box"
	Violin        ChartType = "violin"
	Heatmap       ChartType = "heatmap"
	Radar         ChartType = "radar"
	Treemap       ChartType = "treemap"
	Funnel        ChartType = "funnel"
	Gantt         ChartType = "gantt"
)

// Role is a semantic slot in a chart parameter set.
type Role string

// Column roles bind a dataset column.
const (
	RoleX     Role = "x_axis"
	RoleY     Role = "y_axis"
	RoleColor Role = "color_by"
	RoleSize  Role = "size_by"
	RoleStack Role = "stack_by"
	RoleGroup Role = "group_by"
	RoleValue Role = "value_column"
	RoleEnd   Role = "end_column"
)

// Scalar roles carry settings rather than column names.
const (
	RoleAggregation  Role = "aggregation"
	RoleSortOrder    Role = "sort_order"
	RoleLimit        Role = "limit"
	RoleBins         Role = "bins"
	RoleNormalize    Role = "normalize"
	RoleShowOutliers Role = "show_outliers"
)

// ColumnRoles lists every column role in canonical order.
var ColumnRoles = []Role{RoleX, RoleY, RoleColor, RoleSize, RoleStack, RoleGroup, RoleValue, RoleEnd}

// Aggregation functions accepted by the pipeline.
const (
	AggCount = "count"
	AggSum   = "sum"
	AggMean  = "mean"
	AggMin   = "min"
	AggMax   = "max"
)

// Sort orders for grouped output.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
	SortNone = "none"
)

// Parameters binds roles to columns and scalar settings for one chart.
type Parameters struct {
	XAxis        string `json:"x_axis,omitempty" yaml:"x_axis,omitempty"`
	YAxis        string `json:"y_axis,omitempty" yaml:"y_axis,omitempty"`
	ColorBy      string `json:"color_by,omitempty" yaml:"color_by,omitempty"`
	SizeBy       string `json:"size_by,omitempty" yaml:"size_by,omitempty"`
	StackBy      string `json:"stack_by,omitempty" yaml:"stack_by,omitempty"`
	GroupBy      string `json:"group_by,omitempty" yaml:"group_by,omitempty"`
	ValueColumn  string `json:"value_column,omitempty" yaml:"value_column,omitempty"`
	EndColumn    string `json:"end_column,omitempty" yaml:"end_column,omitempty"`
	Aggregation  string `json:"aggregation,omitempty" yaml:"aggregation,omitempty"`
	SortOrder    string `json:"sort_order,omitempty" yaml:"sort_order,omitempty"`
	Limit        int    `json:"limit,omitempty" yaml:"limit,omitempty"`
	Bins         int    `json:"bins,omitempty" yaml:"bins,omitempty"`
	Normalize    bool   `json:"normalize,omitempty" yaml:"normalize,omitempty"`
	ShowOutliers bool   `json:"show_outliers,omitempty" yaml:"show_outliers,omitempty"`
}

// Column returns the column bound to a column role.
func (p Parameters) Column(r Role) string {
	switch r {
	case RoleX:
		return p.XAxis
	case RoleY:
		return p.YAxis
	case RoleColor:
		return p.ColorBy
	case RoleSize:
		return p.SizeBy
	case RoleStack:
		return p.StackBy
	case RoleGroup:
		return p.GroupBy
	case RoleValue:
		return p.ValueColumn
	case RoleEnd:
		return p.EndColumn
	}
	return ""
}

// SetColumn binds col to a column role. Unknown roles are ignored.
func (p *Parameters) SetColumn(r Role, col string) {
	switch r {
	case RoleX:
		p.XAxis = col
	case RoleY:
		p.YAxis = col
	case RoleColor:
		p.ColorBy = col
	case RoleSize:
		p.SizeBy = col
	case RoleStack:
		p.StackBy = col
	case RoleGroup:
		p.GroupBy = col
	case RoleValue:
		p.ValueColumn = col
	case RoleEnd:
		p.EndColumn = col
	}
}

// Binding is one column role and the column bound to it.
type Binding struct {
	Role   Role
	Column string
}

// Bindings lists the bound column roles in canonical order.
func (p Parameters) Bindings() []Binding {
	var out []Binding
	for _, r := range ColumnRoles {
		if c := p.Column(r); c != "" {
			out = append(out, Binding{Role: r, Column: c})
		}
	}
	return out
}

// Set assigns a role from its textual form, as given on a command line.
func (p *Parameters) Set(key, value string) error {
	key = strings.TrimSpace(strings.ToLower(key))
	value = strings.TrimSpace(value)
	r := Role(key)
	for _, cr := range ColumnRoles {
		if cr == r {
			p.SetColumn(r, value)
			return nil
		}
	}
	switch r {
	case RoleAggregation:
		p.Aggregation = strings.ToLower(value)
	case RoleSortOrder:
		p.SortOrder = strings.ToLower(value)
	case RoleLimit, RoleBins:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %q", key, value)
		}
		if r == RoleLimit {
			p.Limit = n
		} else {
			p.Bins = n
		}
	case RoleNormalize, RoleShowOutliers:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid bool for %s: %q", key, value)
		}
		if r == RoleNormalize {
			p.Normalize = b
		} else {
			p.ShowOutliers = b
		}
	default:
		return fmt.Errorf("unknown parameter: %s", key)
	}
	return nil
}
