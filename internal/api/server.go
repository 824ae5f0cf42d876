// Package api serves the engine over HTTP: dataset upload, profiling,
// recommendations and chart payloads.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/engine"
	"github.com/kmmelissat/analisis-al-instante/internal/logging"
	"github.com/kmmelissat/analisis-al-instante/internal/store"
)

const defaultUploadBytes = 32 << 20

// Options configures a Server. Zero values get defaults.
type Options struct {
	Logger         *slog.Logger
	Engine         *engine.Engine
	Store          *store.Store
	MaxUploadBytes int64
	Load           dataset.LoadOptions
}

type Server struct {
	log       *slog.Logger
	engine    *engine.Engine
	store     *store.Store
	validate  *validator.Validate
	metrics   *metrics
	maxUpload int64
	load      dataset.LoadOptions
}

func New(opt Options) *Server {
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opt.Engine == nil {
		opt.Engine = engine.New(log)
	}
	if opt.Store == nil {
		opt.Store = store.New()
	}
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = defaultUploadBytes
	}
	if opt.Load.MaxRows <= 0 {
		opt.Load = dataset.DefaultLoadOptions()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Server{
		log:       log.With(slog.String("component", "api")),
		engine:    opt.Engine,
		store:     opt.Store,
		validate:  v,
		metrics:   newMetrics(),
		maxUpload: opt.MaxUploadBytes,
		load:      opt.Load,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/charts", s.listChartTypes)
		r.Route("/datasets", func(r chi.Router) {
			r.Post("/", s.createDataset)
			r.Get("/", s.listDatasets)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.getDataset)
				r.Delete("/", s.deleteDataset)
				r.Get("/recommendations", s.recommendations)
				r.Post("/charts", s.createChart)
			})
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.InfoContext(ctx, "listening", slog.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()
	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"status":   "ok",
		"datasets": s.store.Len(),
		"time":     time.Now().UTC().Format(time.RFC3339),
	})
}

// requestLogger logs each request once it completes and records metrics.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		took := time.Since(start)
		s.metrics.observe(r.Method, route, status, took)
		s.log.InfoContext(r.Context(), "request completed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.Int("bytes", ww.BytesWritten()),
			slog.Duration("duration", took))
	})
}
