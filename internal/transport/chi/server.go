// Package chi exposes the HTTP surface of the search service.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/feedsearch/internal/domain"
	healthuc "github.com/kailas-cloud/feedsearch/internal/usecase/health"
)

// Error codes returned in JSON error responses.
const (
	CodeBadRequest           = "bad_request"
	CodeValidationFailed     = "validation_failed"
	CodeUnauthorized         = "unauthorized"
	CodeServerMisconfigured  = "server_misconfigured"
	CodeEmbeddingUnavailable = "embedding_unavailable"
	CodeQueryFailed          = "query_failed"
	CodeInternalError        = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// searchService is the use-case contract consumed by the handlers.
type searchService interface {
	SearchPosts(ctx context.Context, p domain.SearchParams) ([]domain.PostMatch, error)
	SearchComments(ctx context.Context, p domain.SearchParams) ([]domain.CommentMatch, error)
}

// healthService aggregates component health.
type healthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers for the search API.
type Server struct {
	search searchService
	health healthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(search searchService, health healthService, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{search: search, health: health, logger: logger}
}

// RegisterRoutes mounts all handlers on the router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Post("/search/posts", s.SearchPosts)
	r.Post("/search/comments", s.SearchComments)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// searchRequest is the JSON request body for both search endpoints.
// Limit and Threshold are optional; nil keeps the defaults.
type searchRequest struct {
	Query     string   `json:"query"`
	Limit     *int     `json:"limit"`
	Threshold *float64 `json:"threshold"`
}

// postSearchResponse wraps post results.
type postSearchResponse struct {
	Results []domain.PostMatch `json:"results"`
}

// commentSearchResponse wraps comment results.
type commentSearchResponse struct {
	Results []domain.CommentMatch `json:"results"`
}

// SearchPosts handles POST /search/posts.
func (s *Server) SearchPosts(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	results, err := s.search.SearchPosts(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.PostMatch{}
	}

	writeJSON(w, http.StatusOK, postSearchResponse{Results: results})
}

// SearchComments handles POST /search/comments.
func (s *Server) SearchComments(w http.ResponseWriter, r *http.Request) {
	params, ok := s.decodeParams(w, r)
	if !ok {
		return
	}

	results, err := s.search.SearchComments(r.Context(), params)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if results == nil {
		results = []domain.CommentMatch{}
	}

	writeJSON(w, http.StatusOK, commentSearchResponse{Results: results})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// decodeParams parses and validates the search request body.
// Returns ok=false after writing the error response.
func (s *Server) decodeParams(w http.ResponseWriter, r *http.Request) (domain.SearchParams, bool) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return domain.SearchParams{}, false
	}

	params, err := domain.NewSearchParams(req.Query, req.Limit, req.Threshold)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
		return domain.SearchParams{}, false
	}

	return params, true
}

// handleDomainError maps sentinel errors to HTTP responses. Details of
// internal failures stay in the logs, not in the response body.
func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, CodeValidationFailed, err.Error())
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		s.logger.Warn("embedding provider failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, CodeEmbeddingUnavailable, domain.ErrEmbeddingUnavailable.Error())
	case errors.Is(err, domain.ErrQueryFailed):
		s.logger.Error("similarity query failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeQueryFailed, domain.ErrQueryFailed.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}
