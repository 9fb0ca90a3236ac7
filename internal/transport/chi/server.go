package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/fuzzdex/internal/domain"
	"github.com/kailas-cloud/fuzzdex/internal/domain/schema"
	"github.com/kailas-cloud/fuzzdex/internal/domain/search/request"
	"github.com/kailas-cloud/fuzzdex/internal/metrics"
	healthuc "github.com/kailas-cloud/fuzzdex/internal/usecase/health"
)

// ErrorCode identifies an API error class for clients.
type ErrorCode string

// API error codes.
const (
	ErrorCodeBadRequest       ErrorCode = "bad_request"
	ErrorCodeValidationFailed ErrorCode = "validation_failed"
	ErrorCodeTableNotFound    ErrorCode = "table_not_found"
	ErrorCodeUnknownField     ErrorCode = "unknown_field"
	ErrorCodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// SearchRequest is the POST /v1/tables/{table}/search payload. Omitted
// tuning parameters fall back to the server defaults.
type SearchRequest struct {
	Term              string   `json:"term"`
	Fields            []string `json:"fields"`
	MinWordSimilarity *float64 `json:"min_word_similarity,omitempty"`
	MinSimilarity     *float64 `json:"min_similarity,omitempty"`
	Limit             *int     `json:"limit,omitempty"`
	ExactFirst        *bool    `json:"exact_first,omitempty"`
}

// SearchHit is one result row.
type SearchHit struct {
	Key       string            `json:"key"`
	Fields    map[string]string `json:"fields,omitempty"`
	Relevance float64           `json:"relevance"`
}

// SearchResponse is the search result page.
type SearchResponse struct {
	Items []SearchHit `json:"items"`
	Total int         `json:"total"`
	Limit int         `json:"limit"`
}

// TableInfo describes one searchable table.
type TableInfo struct {
	Name    string   `json:"name"`
	Key     string   `json:"key"`
	Columns []string `json:"columns"`
}

// TableListResponse lists the searchable tables.
type TableListResponse struct {
	Items []TableInfo `json:"items"`
}

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Defaults are the server-side fallbacks applied when a search payload
// omits a tuning parameter. Zero values fall back to the request package
// defaults.
type Defaults struct {
	MinWordSimilarity float64
	MinSimilarity     float64
	Limit             int
}

func (d Defaults) withFallbacks() Defaults {
	if d.MinWordSimilarity <= 0 {
		d.MinWordSimilarity = request.DefaultMinWordSimilarity
	}
	if d.MinSimilarity <= 0 {
		d.MinSimilarity = request.DefaultMinSimilarity
	}
	if d.Limit <= 0 {
		d.Limit = request.DefaultLimit
	}
	return d
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the search service over HTTP.
type Server struct {
	search        domain.Searcher
	catalog       schema.Catalog
	health        *healthuc.Service
	defaults      Defaults
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search domain.Searcher,
	catalog schema.Catalog,
	health *healthuc.Service,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	s := &Server{
		search:   search,
		catalog:  catalog,
		health:   health,
		defaults: defaults.withFallbacks(),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		unknownFieldHandler,
		sentinelHandler(domain.ErrTableNotFound, http.StatusNotFound, ErrorCodeTableNotFound),
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
	}
	return s
}

// Routes assembles the API router with the standard middleware stack.
// apiKeys enables bearer authentication; empty disables it.
func (s *Server) Routes(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(BearerAuthMiddleware(apiKeys))
	r.Use(metrics.Middleware())

	r.Post("/v1/tables/{table}/search", s.SearchTable)
	r.Get("/v1/tables", s.ListTables)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	return r
}

// SearchTable handles POST /v1/tables/{table}/search.
func (s *Server) SearchTable(w http.ResponseWriter, r *http.Request) {
	table := chi.URLParam(r, "table")

	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	searchReq, err := s.requestFromDTO(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	set, err := s.search.Search(r.Context(), table, searchReq)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchHit, 0, len(set.Matches()))
	for _, m := range set.Matches() {
		items = append(items, SearchHit{
			Key:       m.Key(),
			Fields:    m.Fields(),
			Relevance: m.Relevance(),
		})
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Items: items,
		Total: set.Total(),
		Limit: searchReq.Limit(),
	})
}

// ListTables handles GET /v1/tables.
func (s *Server) ListTables(w http.ResponseWriter, r *http.Request) {
	tables := s.catalog.Tables()

	items := make([]TableInfo, 0, len(tables))
	for _, t := range tables {
		items = append(items, TableInfo{
			Name:    t.Name(),
			Key:     t.Key(),
			Columns: t.Columns(),
		})
	}

	writeJSON(w, http.StatusOK, TableListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	// Degraded still serves searches, so only a dead store turns the
	// endpoint red.
	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) requestFromDTO(dto SearchRequest) (request.Request, error) {
	// Validate explicitly provided parameters before defaults blur the
	// distinction between "absent" and "zero".
	if dto.Limit != nil {
		if *dto.Limit <= 0 || *dto.Limit > request.MaxLimit {
			return request.Request{}, fmt.Errorf("limit must be between 1 and %d", request.MaxLimit)
		}
	}

	minWord := s.defaults.MinWordSimilarity
	if dto.MinWordSimilarity != nil {
		minWord = *dto.MinWordSimilarity
	}
	minSim := s.defaults.MinSimilarity
	if dto.MinSimilarity != nil {
		minSim = *dto.MinSimilarity
	}
	limit := s.defaults.Limit
	if dto.Limit != nil {
		limit = *dto.Limit
	}

	opts := []request.Option{
		request.WithMinWordSimilarity(minWord),
		request.WithMinSimilarity(minSim),
		request.WithLimit(limit),
	}
	if dto.ExactFirst != nil && *dto.ExactFirst {
		opts = append(opts, request.WithExactFirst())
	}

	r, err := request.New(dto.Term, dto.Fields, opts...)
	if err != nil {
		return request.Request{}, fmt.Errorf("build search request: %w", err)
	}
	return r, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTableNotFound,
		domain.ErrUnknownField,
		domain.ErrInvalidRequest,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unknownFieldHandler reports the offending field back to the client; the
// typed error carries nothing but identifier names.
func unknownFieldHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUnknownField) {
		return false
	}
	var ufe *domain.UnknownFieldError
	if errors.As(err, &ufe) {
		writeError(w, http.StatusBadRequest, ErrorCodeUnknownField, ufe.Error())
		return true
	}
	writeError(w, http.StatusBadRequest, ErrorCodeUnknownField, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
