package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain/record"
	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/metrics"
)

// retrieve dispatches the query to the requested strategy. Semantic, fuzzy
// and exact searches fall back to keyword search on failure; a keyword
// failure propagates and the orchestrator answers with the empty envelope.
func (s *Service) retrieve(
	ctx context.Context, q query.Query, text string,
) ([]candidate.Candidate, int, error) {
	switch q.Mode() {
	case mode.Keyword:
		return s.timed("keyword", func() ([]candidate.Candidate, int, error) {
			return s.retriever.Keyword(ctx, text, q.Filters(), q.Limit(), q.Offset())
		})
	case mode.Semantic:
		return s.withKeywordFallback(ctx, q, "semantic", func() ([]candidate.Candidate, int, error) {
			return s.semantic(ctx, text, q.Filters(), q.Limit(), q.Offset())
		})
	case mode.Fuzzy:
		return s.withKeywordFallback(ctx, q, "fuzzy", func() ([]candidate.Candidate, int, error) {
			return s.retriever.Fuzzy(ctx, text, q.Filters(), q.Limit(), q.Offset())
		})
	case mode.Exact:
		return s.withKeywordFallback(ctx, q, "exact", func() ([]candidate.Candidate, int, error) {
			return s.retriever.Exact(ctx, text, q.Filters(), q.Limit(), q.Offset())
		})
	case mode.Hybrid:
		return s.hybrid(ctx, text, q.Filters(), q.Limit(), q.Offset())
	default:
		return nil, 0, fmt.Errorf("unsupported search mode: %s", q.Mode())
	}
}

// withKeywordFallback runs a strategy and retries as a keyword search with
// the original query text when it fails.
func (s *Service) withKeywordFallback(
	ctx context.Context, q query.Query, strategy string,
	fn func() ([]candidate.Candidate, int, error),
) ([]candidate.Candidate, int, error) {
	cands, total, err := s.timed(strategy, fn)
	if err == nil {
		return cands, total, nil
	}

	s.logger.Warn("strategy failed, falling back to keyword search",
		zap.String("strategy", strategy),
		zap.Error(err),
	)
	metrics.SearchRequestsTotal.WithLabelValues(string(q.Mode()), "fallback").Inc()

	return s.timed("keyword", func() ([]candidate.Candidate, int, error) {
		return s.retriever.Keyword(ctx, q.Text(), q.Filters(), q.Limit(), q.Offset())
	})
}

// semantic embeds the query and scores a bounded window of records
// in-process: cosine similarity when a record carries an embedding, token-set
// similarity over title and description otherwise. An embedding failure
// downgrades every record to token similarity rather than failing the search.
func (s *Service) semantic(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	var qvec []float32
	if s.embed != nil {
		res, err := s.embed.Embed(ctx, text)
		if err != nil {
			s.logger.Warn("query embedding unavailable, scoring by token similarity",
				zap.Error(err))
		} else {
			qvec = res.Embedding
		}
	}

	window, err := s.retriever.Window(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("semantic window: %w", err)
	}

	scored := make([]candidate.Candidate, 0, len(window))
	for _, c := range window {
		rec := c.Record()
		var score float64
		if len(qvec) > 0 && len(rec.Embedding()) > 0 {
			score = cosineSimilarity(qvec, rec.Embedding())
		} else {
			score = record.TokenSimilarity(text, rec.Title()+" "+rec.Description())
		}
		scored = append(scored, c.WithScore(score))
	}
	sortByScore(scored)

	return paginate(scored, limit, offset), len(scored), nil
}

// hybrid fans out keyword and semantic retrieval concurrently, each over a
// doubled window at offset zero, and fuses the pools. A failed semantic leg
// contributes nothing; a failed keyword leg fails the search.
func (s *Service) hybrid(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	poolLimit := 2 * limit

	var (
		wg               sync.WaitGroup
		keyword, semantic []candidate.Candidate
		kwErr, semErr    error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		keyword, _, kwErr = s.timed("keyword", func() ([]candidate.Candidate, int, error) {
			return s.retriever.Keyword(ctx, text, filters, poolLimit, 0)
		})
	}()
	go func() {
		defer wg.Done()
		semantic, _, semErr = s.timed("semantic", func() ([]candidate.Candidate, int, error) {
			return s.semantic(ctx, text, filters, poolLimit, 0)
		})
	}()
	wg.Wait()

	if kwErr != nil {
		return nil, 0, fmt.Errorf("hybrid keyword leg: %w", kwErr)
	}
	if semErr != nil {
		s.logger.Warn("hybrid semantic leg failed, fusing keyword results only",
			zap.Error(semErr))
		semantic = nil
	}

	fused, total := fuse(keyword, semantic, limit, offset)
	metrics.SearchFusionPoolSize.Observe(float64(total))
	return fused, total, nil
}

// timed wraps a strategy call with a duration observation.
func (s *Service) timed(
	strategy string, fn func() ([]candidate.Candidate, int, error),
) ([]candidate.Candidate, int, error) {
	start := time.Now()
	cands, total, err := fn()
	metrics.SearchStrategyDuration.WithLabelValues(strategy).Observe(time.Since(start).Seconds())
	return cands, total, err
}
