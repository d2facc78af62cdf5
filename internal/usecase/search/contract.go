package search

import (
	"context"
	"time"

	"github.com/morainelabs/dataseek/internal/domain"
	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
)

// Retriever defines the storage contract for search operations. Every method
// already excludes soft-deleted records.
type Retriever interface {
	Keyword(
		ctx context.Context, text string, filters filter.Expression, limit, offset int,
	) ([]candidate.Candidate, int, error)

	Fuzzy(
		ctx context.Context, text string, filters filter.Expression, limit, offset int,
	) ([]candidate.Candidate, int, error)

	Exact(
		ctx context.Context, text string, filters filter.Expression, limit, offset int,
	) ([]candidate.Candidate, int, error)

	// Window fetches a bounded slice of active records, newest first, for
	// in-process similarity scoring.
	Window(ctx context.Context, filters filter.Expression) ([]candidate.Candidate, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Interpreter translates free-text queries through the LLM oracle. Both
// methods are best-effort and never fail.
type Interpreter interface {
	Interpret(ctx context.Context, query string) domain.Interpretation
	Suggest(ctx context.Context, query string, n int) []string
}

// ResponseCache is the advisory cache for assembled responses. Failures are
// logged and swallowed; the search proceeds without the cache.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}
