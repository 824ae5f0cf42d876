package chart

import (
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// Family groups chart types that share one aggregation routine.
type Family string

const (
	FamilyCategorical  Family = "categorical"
	FamilySequential   Family = "sequential"
	FamilyPairwise     Family = "pairwise"
	FamilyDistribution Family = "distribution"
	FamilySummary      Family = "summary"
	FamilyCrossTab     Family = "crosstab"
	FamilyProfile      Family = "profile"
	FamilyTimeline     Family = "timeline"
)

// Complexity tiers drive how much dataset breadth a chart type needs.
type Complexity string

const (
	Basic       Complexity = "basic"
	Advanced    Complexity = "advanced"
	Statistical Complexity = "statistical"
	Specialized Complexity = "specialized"
)

// Range is an inclusive integer interval. A zero Max means unbounded.
type Range struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max,omitempty" yaml:"max,omitempty"`
}

// Contains reports whether n lies inside the range.
func (r Range) Contains(n int) bool {
	return n >= r.Min && (r.Max == 0 || n <= r.Max)
}

// Exceeds reports whether n is above a bounded range.
func (r Range) Exceeds(n int) bool {
	return r.Max > 0 && n > r.Max
}

// Requirement is the static declaration of what a chart type needs.
type Requirement struct {
	Type       ChartType  `json:"type" yaml:"type"`
	Label      string     `json:"label" yaml:"label"`
	Family     Family     `json:"family" yaml:"family"`
	Complexity Complexity `json:"complexity" yaml:"complexity"`
	Required   []Role     `json:"required" yaml:"required"`
	Optional   []Role     `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Accept lists the type tags allowed per column role. A role without an
	// entry accepts any tag.
	Accept        map[Role][]profile.TypeTag `json:"accept" yaml:"accept"`
	MinDataPoints int                        `json:"min_data_points" yaml:"min_data_points"`
	// MaxCategories caps the distinct values of categorical axes; 0 means no cap.
	MaxCategories int   `json:"max_categories,omitempty" yaml:"max_categories,omitempty"`
	Optimal       Range `json:"optimal_rows" yaml:"optimal_rows"`
	LimitRange    Range `json:"limit_range,omitempty" yaml:"limit_range,omitempty"`
	BinsRange     Range `json:"bins_range,omitempty" yaml:"bins_range,omitempty"`
	// DefaultLimit applies when Parameters.Limit is zero.
	DefaultLimit   int  `json:"default_limit,omitempty" yaml:"default_limit,omitempty"`
	AllowNormalize bool `json:"allow_normalize,omitempty" yaml:"allow_normalize,omitempty"`
	// MinNumericColumns is the dataset-wide count of numeric columns needed.
	MinNumericColumns int    `json:"min_numeric_columns,omitempty" yaml:"min_numeric_columns,omitempty"`
	TitleTemplate     string `json:"-" yaml:"-"`
	InsightTemplate   string `json:"-" yaml:"-"`
}

var (
	numeric     = []profile.TypeTag{profile.Numeric}
	categorical = []profile.TypeTag{profile.Categorical}
	datetime    = []profile.TypeTag{profile.Datetime}
	ordered     = []profile.TypeTag{profile.Datetime, profile.Numeric}
)

// registry is the single table of chart requirements, in declaration order.
// Declaration order breaks ranking ties.
var registry = []Requirement{
	{
		Type: Bar, Label: "Bar chart", Family: FamilyCategorical, Complexity: Basic,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleY, RoleColor, RoleAggregation, RoleSortOrder, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric, RoleColor: categorical},
		MinDataPoints: 2, MaxCategories: 50, Optimal: Range{5, 5000},
		LimitRange: Range{1, 100}, DefaultLimit: 10,
		TitleTemplate:   "{y} by {x}",
		InsightTemplate: "Compare {y} across {x} categories to spot the largest and smallest groups.",
	},
	{
		Type: HorizontalBar, Label: "Horizontal bar chart", Family: FamilyCategorical, Complexity: Basic,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleY, RoleColor, RoleAggregation, RoleSortOrder, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric, RoleColor: categorical},
		MinDataPoints: 2, MaxCategories: 100, Optimal: Range{5, 5000},
		LimitRange: Range{1, 100}, DefaultLimit: 10,
		TitleTemplate:   "{y} by {x}",
		InsightTemplate: "Ranks {x} by {y}; long category labels stay readable.",
	},
	{
		Type: StackedBar, Label: "Stacked bar chart", Family: FamilyCategorical, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY, RoleStack},
		Optional:      []Role{RoleAggregation, RoleSortOrder, RoleLimit, RoleNormalize},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric, RoleStack: categorical},
		MinDataPoints: 4, MaxCategories: 30, Optimal: Range{10, 5000},
		LimitRange: Range{1, 50}, DefaultLimit: 10, AllowNormalize: true,
		TitleTemplate:   "{y} by {x} and {stack}",
		InsightTemplate: "Shows how each {stack} contributes to {y} within every {x}.",
	},
	{
		Type: GroupedBar, Label: "Grouped bar chart", Family: FamilyCategorical, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY, RoleGroup},
		Optional:      []Role{RoleAggregation, RoleSortOrder, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric, RoleGroup: categorical},
		MinDataPoints: 4, MaxCategories: 30, Optimal: Range{10, 5000},
		LimitRange: Range{1, 50}, DefaultLimit: 10,
		TitleTemplate:   "{y} by {x} grouped by {group}",
		InsightTemplate: "Compare {y} side by side for each {group} within {x}.",
	},
	{
		Type: Line, Label: "Line chart", Family: FamilySequential, Complexity: Basic,
		Required:      []Role{RoleX, RoleY},
		Optional:      []Role{RoleColor, RoleAggregation},
		Accept:        map[Role][]profile.TypeTag{RoleX: ordered, RoleY: numeric, RoleColor: categorical},
		MinDataPoints: 3, Optimal: Range{5, 10000},
		TitleTemplate:   "{y} over {x}",
		InsightTemplate: "Follow how {y} changes along {x} to reveal trends.",
	},
	{
		Type: MultiLine, Label: "Multi-line chart", Family: FamilySequential, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY, RoleGroup},
		Optional:      []Role{RoleAggregation},
		Accept:        map[Role][]profile.TypeTag{RoleX: ordered, RoleY: numeric, RoleGroup: categorical},
		MinDataPoints: 4, MaxCategories: 12, Optimal: Range{10, 10000},
		TitleTemplate:   "{y} over {x} by {group}",
		InsightTemplate: "Compare the trend of {y} for each {group}.",
	},
	{
		Type: Area, Label: "Area chart", Family: FamilySequential, Complexity: Basic,
		Required:      []Role{RoleX, RoleY},
		Optional:      []Role{RoleAggregation},
		Accept:        map[Role][]profile.TypeTag{RoleX: ordered, RoleY: numeric},
		MinDataPoints: 3, Optimal: Range{5, 10000},
		TitleTemplate:   "{y} over {x}",
		InsightTemplate: "Emphasizes the magnitude of {y} along {x}.",
	},
	{
		Type: StackedArea, Label: "Stacked area chart", Family: FamilySequential, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY, RoleStack},
		Optional:      []Role{RoleAggregation, RoleNormalize},
		Accept:        map[Role][]profile.TypeTag{RoleX: ordered, RoleY: numeric, RoleStack: categorical},
		MinDataPoints: 4, MaxCategories: 12, Optimal: Range{10, 10000}, AllowNormalize: true,
		TitleTemplate:   "{y} over {x} stacked by {stack}",
		InsightTemplate: "Shows how each {stack} contributes to total {y} over {x}.",
	},
	{
		Type: Pie, Label: "Pie chart", Family: FamilyCategorical, Complexity: Basic,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleY, RoleAggregation, RoleSortOrder, RoleLimit, RoleNormalize},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 2, MaxCategories: 8, Optimal: Range{3, 8},
		LimitRange: Range{1, 20}, DefaultLimit: 7, AllowNormalize: true,
		TitleTemplate:   "Share of {y} by {x}",
		InsightTemplate: "Shows each {x} category's share of the total.",
	},
	{
		Type: Donut, Label: "Donut chart", Family: FamilyCategorical, Complexity: Basic,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleY, RoleAggregation, RoleSortOrder, RoleLimit, RoleNormalize},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 2, MaxCategories: 8, Optimal: Range{3, 8},
		LimitRange: Range{1, 20}, DefaultLimit: 7, AllowNormalize: true,
		TitleTemplate:   "Share of {y} by {x}",
		InsightTemplate: "Shows each {x} category's share of the total with room for a headline figure.",
	},
	{
		Type: Scatter, Label: "Scatter plot", Family: FamilyPairwise, Complexity: Basic,
		Required:      []Role{RoleX, RoleY},
		Optional:      []Role{RoleColor},
		Accept:        map[Role][]profile.TypeTag{RoleX: numeric, RoleY: numeric, RoleColor: categorical},
		MinDataPoints: 5, Optimal: Range{10, 10000},
		TitleTemplate:   "{y} vs {x}",
		InsightTemplate: "Reveals the relationship between {x} and {y}, including clusters and outliers.",
	},
	{
		Type: Bubble, Label: "Bubble chart", Family: FamilyPairwise, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY, RoleSize},
		Optional:      []Role{RoleColor},
		Accept:        map[Role][]profile.TypeTag{RoleX: numeric, RoleY: numeric, RoleSize: numeric, RoleColor: categorical},
		MinDataPoints: 5, Optimal: Range{10, 1000}, MinNumericColumns: 3,
		TitleTemplate:   "{y} vs {x} sized by {size}",
		InsightTemplate: "Relates {x} and {y} while encoding {size} as bubble area.",
	},
	{
		Type: Histogram, Label: "Histogram", Family: FamilyDistribution, Complexity: Statistical,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleBins},
		Accept:        map[Role][]profile.TypeTag{RoleX: numeric},
		MinDataPoints: 10, Optimal: Range{30, 100000},
		BinsRange:       Range{1, 200},
		TitleTemplate:   "Distribution of {x}",
		InsightTemplate: "Shows how {x} values are spread, including skew and gaps.",
	},
	{
		Type: Box, Label: "Box plot", Family: FamilySummary, Complexity: Statistical,
		Required:      []Role{RoleY},
		Optional:      []Role{RoleX, RoleShowOutliers},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 5, MaxCategories: 20, Optimal: Range{20, 100000},
		TitleTemplate:   "Distribution of {y}",
		InsightTemplate: "Summarizes the spread of {y} with quartiles and outliers.",
	},
	{
		Type: Violin, Label: "Violin plot", Family: FamilySummary, Complexity: Statistical,
		Required:      []Role{RoleY},
		Optional:      []Role{RoleX, RoleShowOutliers},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 20, MaxCategories: 10, Optimal: Range{50, 100000},
		TitleTemplate:   "Distribution of {y}",
		InsightTemplate: "Shows the full shape of the {y} distribution alongside its quartiles.",
	},
	{
		Type: Heatmap, Label: "Heatmap", Family: FamilyCrossTab, Complexity: Advanced,
		Required:      []Role{RoleX, RoleY},
		Optional:      []Role{RoleValue, RoleAggregation},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: categorical, RoleValue: numeric},
		MinDataPoints: 10, MaxCategories: 30, Optimal: Range{50, 100000},
		TitleTemplate:   "{x} vs {y}",
		InsightTemplate: "Highlights concentrations across {x} and {y} combinations.",
	},
	{
		Type: Radar, Label: "Radar chart", Family: FamilyProfile, Complexity: Specialized,
		Optional:      []Role{RoleGroup, RoleAggregation, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleGroup: categorical},
		MinDataPoints: 3, MaxCategories: 10, Optimal: Range{3, 1000},
		LimitRange: Range{1, 20}, DefaultLimit: 6, MinNumericColumns: 3,
		TitleTemplate:   "Multi-metric profile",
		InsightTemplate: "Compares several numeric measures on a shared set of axes.",
	},
	{
		Type: Treemap, Label: "Treemap", Family: FamilyCategorical, Complexity: Specialized,
		Required:      []Role{RoleX},
		Optional:      []Role{RoleY, RoleAggregation, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 5, MaxCategories: 50, Optimal: Range{5, 5000},
		LimitRange: Range{1, 100}, DefaultLimit: 20,
		TitleTemplate:   "{y} by {x}",
		InsightTemplate: "Shows the relative size of each {x} as nested rectangles.",
	},
	{
		Type: Funnel, Label: "Funnel chart", Family: FamilyCategorical, Complexity: Specialized,
		Required:      []Role{RoleX, RoleY},
		Optional:      []Role{RoleAggregation, RoleLimit},
		Accept:        map[Role][]profile.TypeTag{RoleX: categorical, RoleY: numeric},
		MinDataPoints: 3, MaxCategories: 10, Optimal: Range{3, 10},
		LimitRange: Range{1, 20}, DefaultLimit: 10,
		TitleTemplate:   "{y} by {x} stage",
		InsightTemplate: "Shows how {y} narrows across successive {x} stages.",
	},
	{
		Type: Gantt, Label: "Gantt timeline", Family: FamilyTimeline, Complexity: Specialized,
		Required:      []Role{RoleY, RoleX, RoleEnd},
		Optional:      []Role{RoleColor},
		Accept:        map[Role][]profile.TypeTag{RoleY: categorical, RoleX: datetime, RoleEnd: datetime, RoleColor: categorical},
		MinDataPoints: 1, Optimal: Range{2, 200},
		TitleTemplate:   "{y} timeline",
		InsightTemplate: "Shows when each {y} starts and ends along the calendar.",
	},
}

// Registry returns every requirement in declaration order.
func Registry() []Requirement {
	return append([]Requirement(nil), registry...)
}

// Types returns the supported chart types in declaration order.
func Types() []ChartType {
	out := make([]ChartType, len(registry))
	for i, r := range registry {
		out[i] = r.Type
	}
	return out
}

// Lookup returns the requirement for t.
func Lookup(t ChartType) (Requirement, bool) {
	for _, r := range registry {
		if r.Type == t {
			return r, true
		}
	}
	return Requirement{}, false
}

// Index is the declaration position of t, or -1.
func Index(t ChartType) int {
	for i, r := range registry {
		if r.Type == t {
			return i
		}
	}
	return -1
}

// Accepts reports whether tag may be bound to role.
func (r Requirement) Accepts(role Role, tag profile.TypeTag) bool {
	tags, ok := r.Accept[role]
	if !ok {
		return true
	}
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Knows reports whether role is required or optional for the chart type.
func (r Requirement) Knows(role Role) bool {
	return r.IsRequired(role) || contains(r.Optional, role)
}

// IsRequired reports whether role must be bound.
func (r Requirement) IsRequired(role Role) bool {
	return contains(r.Required, role)
}

func contains(roles []Role, role Role) bool {
	for _, x := range roles {
		if x == role {
			return true
		}
	}
	return false
}
