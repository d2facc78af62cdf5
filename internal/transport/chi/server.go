package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
	healthuc "github.com/morainelabs/dataseek/internal/usecase/health"
	interpretuc "github.com/morainelabs/dataseek/internal/usecase/interpret"
	recorduc "github.com/morainelabs/dataseek/internal/usecase/record"
)

// Searcher executes search requests. Search never fails; degraded searches
// yield an empty envelope.
type Searcher interface {
	Search(ctx context.Context, q query.Query) response.Response
	Facets(ctx context.Context, filters filter.Expression) (response.Facets, error)
}

// RecordService handles record CRUD.
type RecordService interface {
	Create(ctx context.Context, in recorduc.Input) (domrec.Record, error)
	Get(ctx context.Context, id string) (domrec.Record, error)
	Update(ctx context.Context, id string, p domrec.Patch) (domrec.Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) (recorduc.Page, error)
}

// BulkService ingests record batches.
type BulkService interface {
	Insert(ctx context.Context, items []recorduc.Input) []recorduc.BulkResult
}

// OracleService serves the standalone oracle endpoints.
type OracleService interface {
	Suggest(ctx context.Context, query string, n int) []string
	Summarize(ctx context.Context, query string, sample []interpretuc.ResultSample) string
}

// HealthService reports component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server is the HTTP API surface.
type Server struct {
	search  Searcher
	records RecordService
	bulk    BulkService
	oracle  OracleService
	health  HealthService
	logger  *zap.Logger
}

// NewServer creates an HTTP API server. bulk and oracle may be nil; the
// matching endpoints then answer 501.
func NewServer(
	search Searcher, records RecordService, bulk BulkService,
	oracle OracleService, health HealthService, logger *zap.Logger,
) *Server {
	return &Server{
		search:  search,
		records: records,
		bulk:    bulk,
		oracle:  oracle,
		health:  health,
		logger:  logger,
	}
}

// Routes mounts every endpoint on a fresh router. Global middleware is the
// caller's concern.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/search", s.handleSearch)
	r.Get("/search/suggestions", s.handleSuggestions)
	r.Get("/search/facets", s.handleFacets)
	r.Post("/insights", s.handleInsights)

	r.Route("/records", func(r chi.Router) {
		r.Post("/", s.handleCreateRecord)
		r.Get("/", s.handleListRecords)
		r.Post("/bulk", s.handleBulkInsert)
		r.Get("/{id}", s.handleGetRecord)
		r.Patch("/{id}", s.handleUpdateRecord)
		r.Delete("/{id}", s.handleDeleteRecord)
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// handleSearch handles POST /search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	filters, err := filtersFromRequest(req.Filters)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	interpret := true
	if req.Interpret != nil {
		interpret = *req.Interpret
	}

	q, err := query.New(
		req.Query, modeFromRequest(req.SearchType), filters,
		req.Limit, req.Offset, req.MinScore, interpret,
	)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}

	resp := s.search.Search(r.Context(), q)
	writeJSON(w, http.StatusOK, searchResponseFromDomain(&resp))
}

// handleSuggestions handles GET /search/suggestions.
func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	if s.oracle == nil {
		writeError(w, http.StatusNotImplemented, "not_implemented", "suggestions are not configured")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "query parameter q is required")
		return
	}

	n := 5
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid_query", "limit must be a positive integer")
			return
		}
		n = parsed
	}

	writeJSON(w, http.StatusOK, suggestionsResponse{
		Suggestions: s.oracle.Suggest(r.Context(), q, n),
	})
}

// handleFacets handles GET /search/facets. Optional category and status
// query parameters narrow the aggregated window.
func (s *Server) handleFacets(w http.ResponseWriter, r *http.Request) {
	var conds []filter.Condition
	for _, field := range []filter.Field{filter.FieldCategory, filter.FieldStatus} {
		if v := r.URL.Query().Get(string(field)); v != "" {
			c, err := filter.NewMatch(field, filter.OpEq, v)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
				return
			}
			conds = append(conds, c)
		}
	}
	filters, err := filter.NewExpression(conds)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_filter", err.Error())
		return
	}

	facets, err := s.search.Facets(r.Context(), filters)
	if err != nil {
		s.writeDomainError(w, err, "facets")
		return
	}
	writeJSON(w, http.StatusOK, facetsResponse{
		Categories: facets.Categories,
		Tags:       facets.Tags,
		Status:     facets.Status,
	})
}

// handleInsights handles POST /insights.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	if s.oracle == nil {
		writeError(w, http.StatusNotImplemented, "not_implemented", "insights are not configured")
		return
	}

	var req insightsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "invalid_query", "query is required")
		return
	}

	sample := make([]interpretuc.ResultSample, 0, len(req.Results))
	for _, item := range req.Results {
		sample = append(sample, interpretuc.ResultSample{
			Title:    item.Title,
			Category: item.Category,
			Tags:     item.Tags,
			Score:    item.Score,
		})
	}

	writeJSON(w, http.StatusOK, insightsResponse{
		Insights: s.oracle.Summarize(r.Context(), req.Query, sample),
	})
}

// handleCreateRecord handles POST /records.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	rec, err := s.records.Create(r.Context(), recorduc.Input{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Tags:        req.Tags,
		Category:    req.Category,
		Metadata:    req.Metadata,
	})
	if err != nil {
		s.writeDomainError(w, err, "create record")
		return
	}
	writeJSON(w, http.StatusCreated, recordToResponse(&rec))
}

// handleListRecords handles GET /records.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	offset, ok := queryInt(w, r, "offset", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(w, r, "limit", 0)
	if !ok {
		return
	}

	page, err := s.records.List(r.Context(), offset, limit)
	if err != nil {
		s.writeDomainError(w, err, "list records")
		return
	}

	records := make([]recordResponse, 0, len(page.Records))
	for i := range page.Records {
		records = append(records, recordToResponse(&page.Records[i]))
	}
	resp := recordListResponse{
		Records: records,
		Total:   page.Total,
		Offset:  page.Offset,
		Limit:   page.Limit,
	}
	if page.Limit > 0 {
		resp.CurrentPage = page.Offset/page.Limit + 1
		resp.TotalPages = (page.Total + page.Limit - 1) / page.Limit
		resp.HasNext = page.Offset+page.Limit < page.Total
		resp.HasPrev = page.Offset > 0
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleGetRecord handles GET /records/{id}.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.records.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err, "get record")
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// handleUpdateRecord handles PATCH /records/{id}.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}

	p, err := patchFromRequest(&req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	rec, err := s.records.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.writeDomainError(w, err, "update record")
		return
	}
	writeJSON(w, http.StatusOK, recordToResponse(&rec))
}

// handleDeleteRecord handles DELETE /records/{id}.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := s.records.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err, "delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleBulkInsert handles POST /records/bulk.
func (s *Server) handleBulkInsert(w http.ResponseWriter, r *http.Request) {
	if s.bulk == nil {
		writeError(w, http.StatusNotImplemented, "not_implemented", "bulk ingestion is not configured")
		return
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return
	}
	if len(req.Records) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "records must not be empty")
		return
	}

	items := make([]recorduc.Input, 0, len(req.Records))
	for _, rr := range req.Records {
		items = append(items, recorduc.Input{
			Title:       rr.Title,
			Description: rr.Description,
			Content:     rr.Content,
			Tags:        rr.Tags,
			Category:    rr.Category,
			Metadata:    rr.Metadata,
		})
	}

	writeJSON(w, http.StatusOK, bulkResultsToResponse(s.bulk.Insert(r.Context(), items)))
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// writeDomainError maps domain sentinels to HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "record_not_found", "record not found")
	case errors.Is(err, domain.ErrInvalidQuery), errors.Is(err, domain.ErrInvalidFilter):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		writeError(w, http.StatusBadGateway, "embedding_provider_error", "embedding provider error")
	default:
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func queryInt(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", name+" must be an integer")
		return 0, false
	}
	return v, true
}
