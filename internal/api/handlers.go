package api

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/kmmelissat/analisis-al-instante/internal/aggregate"
	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
	"github.com/kmmelissat/analisis-al-instante/internal/recommend"
	"github.com/kmmelissat/analisis-al-instante/internal/store"
)

type createDatasetRequest struct {
	Name    string        `json:"name" validate:"required,max=200"`
	Rows    []dataset.Row `json:"rows" validate:"required,min=1"`
	Columns []string      `json:"columns" validate:"omitempty,dive,required"`
}

type chartRequest struct {
	ChartType  chart.ChartType  `json:"chart_type" validate:"required,max=64"`
	Parameters chart.Parameters `json:"parameters"`
	Auto       bool             `json:"auto"`
}

type datasetSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Rows      int       `json:"rows"`
	Columns   int       `json:"columns"`
	Truncated bool      `json:"truncated,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type datasetResponse struct {
	datasetSummary
	Profile *profile.DatasetProfile `json:"profile"`
}

type recommendationsResponse struct {
	DatasetID   string                 `json:"dataset_id"`
	Suggestions []recommend.Suggestion `json:"suggestions"`
}

type chartResponse struct {
	aggregate.Payload
	Parameters chart.Parameters `json:"parameters"`
}

func summarize(e *store.Entry) datasetSummary {
	return datasetSummary{
		ID:        e.ID,
		Name:      e.Name,
		Rows:      e.Rows,
		Columns:   e.Columns,
		Truncated: e.Table != nil && e.Table.Truncated,
		CreatedAt: e.CreatedAt,
	}
}

// createDataset accepts a multipart upload in field "file" or a JSON body of
// rows.
func (s *Server) createDataset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	var (
		tb  *dataset.Table
		err error
	)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		tb, err = s.readUpload(r)
	} else {
		tb, err = s.readRows(r)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(tb.Rows) == 0 {
		s.writeError(w, r, badRequestf("dataset %q has no rows", tb.Name))
		return
	}

	prof := s.engine.Profile(r.Context(), tb)
	e := s.store.Put(tb, prof)
	s.metrics.datasets.Set(float64(s.store.Len()))
	s.log.InfoContext(r.Context(), "dataset stored",
		slog.String("id", e.ID),
		slog.String("name", e.Name),
		slog.Int("rows", e.Rows))

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, datasetResponse{datasetSummary: summarize(e), Profile: prof})
}

func (s *Server) readUpload(r *http.Request) (*dataset.Table, error) {
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, err
		}
		return nil, badRequestf("parse upload: %v", err)
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		return nil, badRequestf("missing form file %q", "file")
	}
	defer f.Close()

	opt := s.load
	if d := r.FormValue("delimiter"); d != "" {
		opt.Delimiter = []rune(d)[0]
	}
	if sheet := r.FormValue("sheet"); sheet != "" {
		opt.Sheet = sheet
	}
	tb, err := dataset.Load(hdr.Filename, f, opt)
	if err != nil {
		if errors.Is(err, dataset.ErrUnsupported) {
			return nil, err
		}
		return nil, badRequestf("read %s: %v", hdr.Filename, err)
	}
	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		tb.Name = name
	}
	return tb, nil
}

func (s *Server) readRows(r *http.Request) (*dataset.Table, error) {
	var req createDatasetRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, err
		}
		return nil, badRequestf("decode body: %v", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	rows := req.Rows
	if s.load.MaxRows > 0 && len(rows) > s.load.MaxRows {
		rows = rows[:s.load.MaxRows]
	}
	tb := dataset.FromRows(req.Name, rows, req.Columns)
	tb.Truncated = len(rows) < len(req.Rows)
	return tb, nil
}

func (s *Server) listDatasets(w http.ResponseWriter, r *http.Request) {
	entries := s.store.List()
	out := make([]datasetSummary, len(entries))
	for i, e := range entries {
		out[i] = summarize(e)
	}
	render.JSON(w, r, map[string]any{"datasets": out})
}

func (s *Server) getDataset(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, datasetResponse{datasetSummary: summarize(e), Profile: e.Profile})
}

func (s *Server) deleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.datasets.Set(float64(s.store.Len()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recommendations(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		limit, err = strconv.Atoi(q)
		if err != nil || limit < 1 {
			s.writeError(w, r, badRequestf("limit must be a positive integer, got %q", q))
			return
		}
	}
	got, err := s.engine.Recommend(r.Context(), e.Profile, e.Table.Rows, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if got == nil {
		got = []recommend.Suggestion{}
	}
	render.JSON(w, r, recommendationsResponse{DatasetID: e.ID, Suggestions: got})
}

func (s *Server) createChart(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req chartRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		s.writeError(w, r, badRequestf("decode body: %v", err))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, r, err)
		return
	}

	var (
		pl     aggregate.Payload
		params = req.Parameters
	)
	if req.Auto {
		pl, params, err = s.engine.AutoChart(r.Context(), e.Table, e.Profile, req.ChartType)
	} else {
		pl, err = s.engine.AggregateTable(r.Context(), e.Table, e.Profile, req.ChartType, params)
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	s.metrics.charts.WithLabelValues(chartLabel(req.ChartType), outcome).Inc()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, chartResponse{Payload: pl, Parameters: params})
}

func (s *Server) listChartTypes(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{"chart_types": chart.Registry()})
}

// chartLabel keeps metric cardinality bounded to registered types.
func chartLabel(t chart.ChartType) string {
	if _, ok := chart.Lookup(t); ok {
		return string(t)
	}
	return "unknown"
}
