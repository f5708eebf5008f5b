package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"tilerate/core/pricing"
	"tilerate/core/tariff"
	"tilerate/internal/errors"
	"tilerate/internal/logging"
)

// Server is the API server. When the tariff snapshot failed to load the
// server still starts, but every quote endpoint reports engine-unavailable
// so operators can tell a data problem from a deployment problem.
type Server struct {
	router         chi.Router
	version        string
	snap           *tariff.Snapshot
	loadErr        error
	engine         *pricing.Engine
	slabs          *pricing.SlabsEngine
	defaultKgPerM2 float64
}

// NewServer creates the API server around an immutable tariff snapshot.
// loadErr carries the startup configuration failure, if any.
func NewServer(version string, snap *tariff.Snapshot, loadErr error, defaultKgPerM2 float64) *Server {
	s := &Server{
		router:         chi.NewRouter(),
		version:        version,
		snap:           snap,
		loadErr:        loadErr,
		defaultKgPerM2: defaultKgPerM2,
	}
	if snap != nil && loadErr == nil {
		s.engine = pricing.NewEngine(snap)
		s.slabs = pricing.NewSlabsEngine(snap)
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)
	s.router.Use(requestLogger)

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/quote", s.handleQuote)
		r.Post("/quote/slabs", s.handleSlabsQuote)
		r.Get("/tariffs", s.handleTariffs)
	})
}

// handleQuote handles POST /v1/quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.engine.Calculate(req.Resolve(s.defaultKgPerM2))
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleSlabsQuote handles POST /v1/quote/slabs
func (s *Server) handleSlabsQuote(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	var req SlabsQuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "INVALID_JSON", err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.slabs.Calculate(req)
	if err != nil {
		s.writeEngineError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleTariffs handles GET /v1/tariffs: a read-only echo of the loaded
// snapshot for operator inspection.
func (s *Server) handleTariffs(w http.ResponseWriter, r *http.Request) {
	if !s.ready(w) {
		return
	}
	s.writeJSON(w, map[string]interface{}{
		"tariffs": s.snap.Tariffs,
		"catalog": s.snap.Catalog,
	}, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if s.engine == nil {
		status = "degraded"
	}
	s.writeJSON(w, map[string]interface{}{
		"status":  status,
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// ready reports whether the engines are serving; if not it writes the
// engine-unavailable condition.
func (s *Server) ready(w http.ResponseWriter) bool {
	if s.engine == nil || s.slabs == nil {
		message := "tariff data failed to load"
		if s.loadErr != nil {
			message = s.loadErr.Error()
		}
		s.writeError(w, "ENGINE_UNAVAILABLE", message, http.StatusServiceUnavailable)
		return false
	}
	return true
}

// writeEngineError maps engine errors onto the host-layer taxonomy:
// validation problems are the caller's to fix, configuration problems mean
// the service cannot serve, everything else is an opaque internal failure.
func (s *Server) writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.IsType(err, errors.TypeValidation), errors.IsType(err, errors.TypeNotFound):
		s.writeError(w, "VALIDATION_ERROR", err.Error(), http.StatusBadRequest)
	case errors.IsType(err, errors.TypeConfig):
		s.writeError(w, "ENGINE_UNAVAILABLE", err.Error(), http.StatusServiceUnavailable)
	default:
		logging.Error("quote failed", zap.Error(err))
		s.writeError(w, "INTERNAL_ERROR", "internal error", http.StatusInternalServerError)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, code, message string, status int) {
	s.writeJSON(w, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}, status)
}

// requestLogger logs one line per request through the global zap logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}
