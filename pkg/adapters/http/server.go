// Package http serves stored provisioning reports and metrics over HTTP.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server answers read-only queries about past runs.
type Server struct {
	Store   ports.ReportStore
	Version string
	Logger  *slog.Logger
}

// Info describes the running server.
type Info struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewHandler creates the status API router.
// When gatherer is nil, /metrics is not mounted.
func NewHandler(server *Server, gatherer prometheus.Gatherer) http.Handler {
	if server.Logger == nil {
		server.Logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", server.ListReports)
		r.Get("/latest", server.GetLatestReport)
		r.Get("/{id}", server.GetReport)
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, Info{Name: "hostprep", Version: s.Version})
}

// ListReports handles GET /reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Store.List(r.Context())
	if err != nil {
		s.Logger.Error("ListReports failed", "err", err)
		http.Error(w, "Failed to list reports", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, ids)
}

// GetLatestReport handles GET /reports/latest.
func (s *Server) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	report, err := ports.Latest(r.Context(), s.Store)
	s.respondReport(w, report, err)
}

// GetReport handles GET /reports/{id}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.Store.Load(r.Context(), chi.URLParam(r, "id"))
	s.respondReport(w, report, err)
}

func (s *Server) respondReport(w http.ResponseWriter, report *domain.Report, err error) {
	if errors.Is(err, domain.ErrReportNotFound) {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.Logger.Error("Loading report failed", "err", err)
		http.Error(w, "Failed to load report", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, report)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Failed to encode response", "err", err)
	}
}
