package chart

import (
	"strings"
	"unicode"
)

// Humanize turns a column name into display text: underscores become spaces
// and each word starts upper-case.
func Humanize(name string) string {
	words := strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

var placeholders = []struct {
	token string
	role  Role
}{
	{"{x}", RoleX},
	{"{y}", RoleY},
	{"{color}", RoleColor},
	{"{size}", RoleSize},
	{"{stack}", RoleStack},
	{"{group}", RoleGroup},
	{"{value}", RoleValue},
	{"{end}", RoleEnd},
}

// Fill substitutes bound column names into a template. An unbound {y} reads
// as "Count" since the pipeline counts rows when no measure is given.
func Fill(tmpl string, p Parameters) string {
	out := tmpl
	for _, ph := range placeholders {
		if !strings.Contains(out, ph.token) {
			continue
		}
		col := p.Column(ph.role)
		text := Humanize(col)
		if col == "" {
			text = "Value"
			if ph.role == RoleY {
				text = "Count"
			}
		}
		out = strings.ReplaceAll(out, ph.token, text)
	}
	return out
}

// Title renders the chart-type title for p.
func (r Requirement) Title(p Parameters) string {
	return Fill(r.TitleTemplate, p)
}

// Insight renders the chart-type insight sentence for p.
func (r Requirement) Insight(p Parameters) string {
	return Fill(r.InsightTemplate, p)
}
