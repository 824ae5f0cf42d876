package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/kmmelissat/analisis-al-instante/internal/chart"
	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/engine"
	"github.com/kmmelissat/analisis-al-instante/internal/store"
)

// errorResponse is the body of every non-2xx reply.
type errorResponse struct {
	Error      string            `json:"error"`
	Kind       string            `json:"kind,omitempty"`
	Violations []chart.Violation `json:"violations,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
}

// badRequest marks client input that could not be decoded.
type badRequest struct{ err error }

func (b badRequest) Error() string { return b.err.Error() }
func (b badRequest) Unwrap() error { return b.err }

func badRequestf(format string, args ...any) error {
	return badRequest{err: fmt.Errorf(format, args...)}
}

// writeError maps err onto a status code and JSON body.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	resp := errorResponse{Error: err.Error(), RequestID: middleware.GetReqID(r.Context())}
	status := http.StatusInternalServerError

	var (
		ve     *chart.ValidationError
		de     *chart.DataError
		fe     validator.ValidationErrors
		br     badRequest
		tooBig *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ve):
		status, resp.Kind, resp.Violations = http.StatusUnprocessableEntity, string(chart.KindValidation), ve.Violations
	case errors.As(err, &de):
		status, resp.Kind, resp.Violations = http.StatusUnprocessableEntity, string(chart.KindData), de.Violations
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &tooBig):
		status = http.StatusRequestEntityTooLarge
	case errors.As(err, &fe):
		status = http.StatusBadRequest
		resp.Error = "invalid request body"
		resp.Fields = make(map[string]string, len(fe))
		for _, f := range fe {
			resp.Fields[f.Field()] = fmt.Sprintf("failed %s", f.Tag())
		}
	case errors.As(err, &br), errors.Is(err, dataset.ErrUnsupported), errors.Is(err, engine.ErrNoRows):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed", slog.String("error", err.Error()))
		resp.Error = "internal error"
	} else {
		s.log.DebugContext(r.Context(), "request rejected", slog.Int("status", status), slog.String("error", err.Error()))
	}
	render.Status(r, status)
	render.JSON(w, r, resp)
}
