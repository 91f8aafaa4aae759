package httpadapter

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/crisis-data-service/internal/domain"
	"github.com/couchcryptid/crisis-data-service/internal/view"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DateRanger reports the default filter date bounds. *domain.Store implements it.
type DateRanger interface {
	DateRange() (first, last domain.Date)
}

// Server exposes health, readiness, metrics and the view API.
type Server struct {
	httpServer *http.Server
	views      view.Builder
	dates      DateRanger
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics and the
// /api/v1 routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, views view.Builder, dates DateRanger, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		views:  views,
		dates:  dates,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /api/v1/views/{dataset}", s.handleView)
	mux.HandleFunc("GET /api/v1/filters", s.handleFilters)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseKind(r.PathValue("dataset"))
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	}

	q := r.URL.Query()
	f := domain.Filters{Category: q.Get("category"), Zone: q.Get("zone")}
	if f.DateStart, err = parseDateParam(q.Get("start")); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "start: " + err.Error()})
		return
	}
	if f.DateEnd, err = parseDateParam(q.Get("end")); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorResponse{Error: "end: " + err.Error()})
		return
	}

	bundle, err := s.views.BuildView(kind, f)
	switch {
	case errors.Is(err, domain.ErrUnknownDataset):
		sharedobs.WriteJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		s.logger.Error("build view failed", "dataset", kind, "error", err)
		sharedobs.WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, bundle)
}

// filterOptions describes the choices a client can offer for each filter.
type filterOptions struct {
	Zones      []string                 `json:"zones"`
	Categories map[domain.Kind][]string `json:"categories"`
	DateStart  domain.Date              `json:"date_start"`
	DateEnd    domain.Date              `json:"date_end"`
}

func (s *Server) handleFilters(w http.ResponseWriter, _ *http.Request) {
	opts := filterOptions{
		Zones:      []string{domain.All},
		Categories: make(map[domain.Kind][]string, len(domain.Kinds)),
	}
	for _, z := range domain.Zones {
		opts.Zones = append(opts.Zones, string(z))
	}
	for _, k := range domain.Kinds {
		opts.Categories[k] = append([]string{domain.All}, domain.CategoryOptions(k)...)
	}
	opts.DateStart, opts.DateEnd = s.dates.DateRange()
	sharedobs.WriteJSON(w, http.StatusOK, opts)
}

func parseDateParam(v string) (domain.Date, error) {
	if v == "" {
		return domain.Date{}, nil
	}
	return domain.ParseDate(v)
}
