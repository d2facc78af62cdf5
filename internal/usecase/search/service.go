package search

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
	"github.com/morainelabs/dataseek/internal/metrics"
)

// Service orchestrates a search request: interpretation, strategy dispatch,
// fusion, min-score filtering, and enrichment. It is stateless per call and
// never returns an error; a failed retrieval yields a valid empty envelope.
type Service struct {
	retriever Retriever
	embed     Embedder
	interp    Interpreter
	cache     ResponseCache
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// New creates a search service. embed, interp and cache may be nil; the
// service degrades accordingly.
func New(
	retriever Retriever, embed Embedder, interp Interpreter,
	cache ResponseCache, cacheTTL time.Duration, logger *zap.Logger,
) *Service {
	return &Service{
		retriever: retriever,
		embed:     embed,
		interp:    interp,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

// Search executes a query end to end. Processing time is wall-clock from
// entry to return regardless of which path served the response.
func (s *Service) Search(ctx context.Context, q query.Query) response.Response {
	start := time.Now()

	key := cacheKey(q)
	if cached, ok := s.lookupCached(ctx, key); ok {
		cached.ProcessingTime = time.Since(start).Seconds()
		return cached
	}

	text := q.Text()
	var interpretation *response.Interpretation
	if s.shouldInterpret(q) {
		in := s.interp.Interpret(ctx, q.Text())
		text = in.ProcessedQuery(q.Text())
		interpretation = &response.Interpretation{
			ProcessedQuery: text,
			Keywords:       in.Keywords,
			Confidence:     in.Confidence,
			Degraded:       in.Degraded,
		}
	}

	cands, total, err := s.retrieve(ctx, q, text)
	if err != nil {
		s.logger.Error("retrieval failed, serving empty response",
			zap.String("query", q.Text()),
			zap.String("mode", string(q.Mode())),
			zap.Error(err),
		)
		metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "empty").Inc()

		resp := response.Empty(q.Text(), q.Mode(), q.Limit(), q.Offset())
		resp.ProcessingTime = time.Since(start).Seconds()
		return resp
	}

	cands = filterMinScore(cands, q.MinScore())

	resp := response.Response{
		Query:          q.Text(),
		SearchType:     q.Mode(),
		Results:        buildResults(cands, q.Text()),
		TotalCount:     total,
		ReturnedCount:  len(cands),
		Offset:         q.Offset(),
		Limit:          q.Limit(),
		Suggestions:    s.buildSuggestions(ctx, q.Text(), cands),
		Facets:         buildFacets(cands),
		Interpretation: interpretation,
	}
	metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "ok").Inc()

	resp.ProcessingTime = time.Since(start).Seconds()
	s.storeCached(ctx, key, resp)
	return resp
}

// shouldInterpret limits oracle consultation to the modes whose ranking can
// use it.
func (s *Service) shouldInterpret(q query.Query) bool {
	if s.interp == nil || !q.Interpret() {
		return false
	}
	return q.Mode() == mode.Semantic || q.Mode() == mode.Hybrid
}

// filterMinScore drops page entries below the threshold. The pre-pagination
// total is deliberately untouched.
func filterMinScore(cands []candidate.Candidate, minScore float64) []candidate.Candidate {
	if minScore <= 0 {
		return cands
	}
	filtered := cands[:0]
	for _, c := range cands {
		if c.Score() >= minScore {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// lookupCached returns a previously assembled response. Any cache failure is
// a miss.
func (s *Service) lookupCached(ctx context.Context, key string) (response.Response, bool) {
	if s.cache == nil {
		return response.Response{}, false
	}

	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
		return response.Response{}, false
	}

	var resp response.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		s.logger.Warn("corrupt cached response, ignoring", zap.Error(err))
		metrics.ResponseCacheTotal.WithLabelValues("miss").Inc()
		return response.Response{}, false
	}

	metrics.ResponseCacheTotal.WithLabelValues("hit").Inc()
	return resp, true
}

// storeCached writes the response back to the advisory cache. Failures are
// logged and swallowed.
func (s *Service) storeCached(ctx context.Context, key string, resp response.Response) {
	if s.cache == nil {
		return
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("response cache encode failed", zap.Error(err))
		return
	}
	if err := s.cache.SetWithTTL(ctx, key, raw, s.cacheTTL); err != nil {
		s.logger.Warn("response cache write failed", zap.Error(err))
	}
}
