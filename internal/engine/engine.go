// Package engine is the entry point shared by the CLI and the HTTP API: it
// profiles datasets, ranks chart suggestions and builds chart payloads.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kmmelissat/analisis-al-instante/internal/aggregate"
	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/logging"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
	"github.com/kmmelissat/analisis-al-instante/internal/recommend"
)

// ErrNoRows is returned when there is nothing to profile.
var ErrNoRows = errors.New("dataset has no rows")

type Engine struct {
	log *slog.Logger
	// MaxSuggestions applies when a caller passes a non-positive limit.
	MaxSuggestions int
}

// New returns an engine logging to log; a nil logger discards.
func New(log *slog.Logger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{log: log.With(slog.String("component", "engine")), MaxSuggestions: recommend.DefaultMax}
}

// Profile infers the schema and statistics of t.
func (e *Engine) Profile(ctx context.Context, t *dataset.Table) *profile.DatasetProfile {
	start := time.Now()
	p := profile.Build(t)
	e.log.DebugContext(ctx, "profiled dataset",
		slog.String("name", t.Name),
		slog.Int("rows", p.RowCount),
		slog.Int("columns", len(p.Columns)),
		slog.Duration("took", time.Since(start)))
	return p
}

// Recommend ranks chart suggestions. prof may be nil, in which case it is
// built from rows.
func (e *Engine) Recommend(ctx context.Context, prof *profile.DatasetProfile, rows []dataset.Row, limit int) ([]recommend.Suggestion, error) {
	if prof == nil {
		if len(rows) == 0 {
			return nil, ErrNoRows
		}
		prof = profile.FromRows(rows)
	}
	if limit <= 0 {
		limit = e.MaxSuggestions
	}
	out := recommend.Recommend(prof, recommend.Options{Max: limit})
	e.log.DebugContext(ctx, "ranked suggestions",
		slog.String("name", prof.Name),
		slog.Int("suggestions", len(out)))
	return out, nil
}

// Aggregate validates params against a profile of rows and builds the payload.
// Blocking violations come back as *chart.ValidationError or *chart.DataError;
// warnings are attached to the payload metadata.
func (e *Engine) Aggregate(ctx context.Context, rows []dataset.Row, t chart.ChartType, params chart.Parameters) (aggregate.Payload, error) {
	return e.aggregate(ctx, rows, profile.FromRows(rows), t, params)
}

// AggregateTable is Aggregate for a table that already has a profile.
func (e *Engine) AggregateTable(ctx context.Context, tb *dataset.Table, prof *profile.DatasetProfile, t chart.ChartType, params chart.Parameters) (aggregate.Payload, error) {
	if prof == nil {
		prof = profile.Build(tb)
	}
	return e.aggregate(ctx, tb.Rows, prof, t, params)
}

// AutoChart fills params for t from the profile, then aggregates.
func (e *Engine) AutoChart(ctx context.Context, tb *dataset.Table, prof *profile.DatasetProfile, t chart.ChartType) (aggregate.Payload, chart.Parameters, error) {
	if prof == nil {
		prof = profile.Build(tb)
	}
	params := chart.Synthesize(t, prof.Columns)
	pl, err := e.aggregate(ctx, tb.Rows, prof, t, params)
	return pl, params, err
}

func (e *Engine) aggregate(ctx context.Context, rows []dataset.Row, prof *profile.DatasetProfile, t chart.ChartType, params chart.Parameters) (aggregate.Payload, error) {
	vs := chart.Validate(t, params, prof)
	if err := chart.AsError(t, vs); err != nil {
		e.log.InfoContext(ctx, "chart rejected",
			slog.String("chart_type", string(t)),
			slog.Int("violations", len(chart.ViolationsOf(err))))
		return aggregate.Payload{}, err
	}
	pl, err := aggregate.Run(rows, t, params)
	if err != nil {
		return aggregate.Payload{}, err
	}
	var warnings []chart.Violation
	for _, v := range vs {
		if !v.Blocking() {
			warnings = append(warnings, v)
		}
	}
	if len(warnings) > 0 {
		pl.Metadata["warnings"] = warnings
	}
	e.log.DebugContext(ctx, "aggregated chart",
		slog.String("chart_type", string(t)),
		slog.Int("points", len(pl.Data)))
	return pl, nil
}
