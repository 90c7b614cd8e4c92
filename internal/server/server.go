// Package server exposes the scoring engine over HTTP.
//
// The API is intentionally small:
//
//	POST /v1/evaluate  score a candidate graph against a reference graph
//	GET  /healthz      liveness, including the embedding backend
//
// Errors are returned as JSON envelopes with the structured error code, and
// HTTP status codes follow the error-code mapping in pkg/errors.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/flowmetric/flowmetric/pkg/errors"
	"github.com/flowmetric/flowmetric/pkg/eval"
	"github.com/flowmetric/flowmetric/pkg/workflow"
)

// Scorer is the part of the evaluation engine the server needs.
type Scorer interface {
	EvaluateNodes(ctx context.Context, candidate, reference workflow.Graph) (eval.Score, error)
	EvaluateGraph(ctx context.Context, candidate, reference workflow.Graph) (eval.Score, error)
}

// HealthChecker reports backend reachability. Optional: a nil checker means
// /healthz only confirms the process is up.
type HealthChecker interface {
	Health(ctx context.Context) (string, error)
}

// Server wires the scoring engine into an HTTP handler.
type Server struct {
	scorer Scorer
	health HealthChecker
	logger *log.Logger
}

// New creates a Server. A nil logger falls back to log.Default().
func New(scorer Scorer, health HealthChecker, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{scorer: scorer, health: health, logger: logger}
}

// Handler builds the chi router with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/evaluate", s.handleEvaluate)

	return r
}

// evaluateRequest is the POST /v1/evaluate body. Metrics defaults to both
// when empty.
type evaluateRequest struct {
	Candidate workflow.Graph `json:"candidate"`
	Reference workflow.Graph `json:"reference"`
	Metrics   []string       `json:"metrics,omitempty"`
}

// evaluateResponse carries one score per requested metric.
type evaluateResponse struct {
	NodeScore  *eval.Score `json:"node_score,omitempty"`
	GraphScore *eval.Score `json:"graph_score,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	metrics := req.Metrics
	if len(metrics) == 0 {
		metrics = []string{"nodes", "graph"}
	}

	var resp evaluateResponse
	for _, metric := range metrics {
		switch metric {
		case "nodes":
			score, err := s.scorer.EvaluateNodes(r.Context(), req.Candidate, req.Reference)
			if err != nil {
				s.writeError(w, err)
				return
			}
			resp.NodeScore = &score
		case "graph":
			score, err := s.scorer.EvaluateGraph(r.Context(), req.Candidate, req.Reference)
			if err != nil {
				s.writeError(w, err)
				return
			}
			resp.GraphScore = &score
		default:
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "unknown metric %q", metric))
			return
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type healthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if s.health != nil {
		model, err := s.health.Health(r.Context())
		if err != nil {
			s.logger.Warn("embedding backend unhealthy", "error", err)
			s.writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded"})
			return
		}
		resp.Model = model
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, errors.HTTPStatus(err), errorResponse{
		Code:    string(code),
		Message: errors.UserMessage(err),
	})
}

// requestLogger logs one line per request with method, path, status and
// latency.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Millisecond))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
