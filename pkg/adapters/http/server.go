// Package http exposes a running engine over a small JSON API: inspection of
// state, tension and glyphs, plus stepping and node operations for callers
// that drive the engine remotely.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	manifold "github.com/sylvanmoss/manifold"
	"github.com/sylvanmoss/manifold/pkg/domain"
)

// Engine is the surface the server needs from the propagation core.
type Engine interface {
	Step(ctx context.Context, stimulus []float64, dt float64) (domain.StepResult, error)
	Check() (domain.ConvergenceReport, error)
	Collapse(nodeID string, policy domain.CollapsePolicy) (domain.CollapseResult, error)
	ResetNode(nodeID string) error
	Snapshot() domain.Snapshot
	TensionHistory() []domain.TensionRecord
	AuditTrail() []domain.TensionRecord
	Attractors() []domain.Attractor
	Glyphs() []domain.Glyph
}

// Server routes requests onto one engine.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	metrics http.Handler
}

// ServerOption configures the handler.
type ServerOption func(*Server)

// WithLogger sets the request-level logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler mounts a handler (usually promhttp) at /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) { s.metrics = h }
}

// NewHandler builds the HTTP handler for the given engine.
func NewHandler(engine Engine, opts ...ServerOption) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/info", s.info)
	r.Get("/state", s.state)
	r.Get("/tension", s.tension)
	r.Get("/audit", s.audit)
	r.Get("/attractors", s.attractors)
	r.Get("/glyphs", s.glyphs)
	r.Get("/convergence", s.convergence)
	r.Post("/step", s.step)
	r.Post("/nodes/{id}/collapse", s.collapse)
	r.Post("/nodes/{id}/reset", s.reset)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	return r
}

type stepRequest struct {
	Stimulus []float64 `json:"stimulus,omitempty"`
	Dt       float64   `json:"dt,omitempty"`
}

type collapseRequest struct {
	Policy domain.CollapsePolicy `json:"policy,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "manifold-http",
		"version": manifold.Version,
	})
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Snapshot())
}

func (s *Server) tension(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.TensionHistory())
}

func (s *Server) audit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.AuditTrail())
}

func (s *Server) attractors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Attractors())
}

func (s *Server) glyphs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Glyphs())
}

func (s *Server) convergence(w http.ResponseWriter, r *http.Request) {
	rep, err := s.engine.Check()
	if err != nil {
		var herr *domain.InsufficientHistoryError
		if errors.As(err, &herr) {
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
			return
		}
		s.fail(w, "convergence check failed", err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) step(w http.ResponseWriter, r *http.Request) {
	var body stepRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		s.logger.Warn("step: invalid request body", "err", err)
		return
	}

	res, err := s.engine.Step(r.Context(), body.Stimulus, body.Dt)
	if err != nil {
		var derr *domain.DimensionError
		var ierr *domain.InstabilityError
		switch {
		case errors.As(err, &derr):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.As(err, &ierr):
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		default:
			s.fail(w, "step failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) collapse(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")

	var body collapseRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	res, err := s.engine.Collapse(nodeID, body.Policy)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownNode):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrNoBasisStates):
			writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
		default:
			s.fail(w, "collapse failed", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "id")
	if err := s.engine.ResetNode(nodeID); err != nil {
		if errors.Is(err, domain.ErrUnknownNode) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
			return
		}
		s.fail(w, "reset failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"node": nodeID, "phase": string(domain.PhaseDormant)})
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: fmt.Sprintf("%s: %v", msg, err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encode failed", "err", err)
	}
}
