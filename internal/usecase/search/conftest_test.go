package search

import (
	"context"
	"time"

	"github.com/morainelabs/dataseek/internal/domain"
	"github.com/morainelabs/dataseek/internal/domain/record"
	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"go.uber.org/zap"
)

// --- Mocks ---

type mockRetriever struct {
	keywordFn func(ctx context.Context, text string, filters filter.Expression, limit, offset int) ([]candidate.Candidate, int, error)
	fuzzyFn   func(ctx context.Context, text string, filters filter.Expression, limit, offset int) ([]candidate.Candidate, int, error)
	exactFn   func(ctx context.Context, text string, filters filter.Expression, limit, offset int) ([]candidate.Candidate, int, error)
	windowFn  func(ctx context.Context, filters filter.Expression) ([]candidate.Candidate, error)

	keywordCalls int
	fuzzyCalls   int
	exactCalls   int
	windowCalls  int
}

func (m *mockRetriever) Keyword(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	m.keywordCalls++
	if m.keywordFn == nil {
		return nil, 0, nil
	}
	return m.keywordFn(ctx, text, filters, limit, offset)
}

func (m *mockRetriever) Fuzzy(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	m.fuzzyCalls++
	if m.fuzzyFn == nil {
		return nil, 0, nil
	}
	return m.fuzzyFn(ctx, text, filters, limit, offset)
}

func (m *mockRetriever) Exact(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	m.exactCalls++
	if m.exactFn == nil {
		return nil, 0, nil
	}
	return m.exactFn(ctx, text, filters, limit, offset)
}

func (m *mockRetriever) Window(
	ctx context.Context, filters filter.Expression,
) ([]candidate.Candidate, error) {
	m.windowCalls++
	if m.windowFn == nil {
		return nil, nil
	}
	return m.windowFn(ctx, filters)
}


type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 7}, nil
}

type mockInterpreter struct {
	interpretFn func(ctx context.Context, query string) domain.Interpretation
	suggestFn   func(ctx context.Context, query string, n int) []string
}

func (m *mockInterpreter) Interpret(ctx context.Context, query string) domain.Interpretation {
	if m.interpretFn == nil {
		return domain.Interpretation{Keywords: nil, Confidence: 1}
	}
	return m.interpretFn(ctx, query)
}

func (m *mockInterpreter) Suggest(ctx context.Context, query string, n int) []string {
	if m.suggestFn == nil {
		return nil
	}
	return m.suggestFn(ctx, query, n)
}

type mockCache struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn == nil {
		return nil, context.Canceled
	}
	return m.getFn(ctx, key)
}

func (m *mockCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn == nil {
		return nil
	}
	return m.setFn(ctx, key, value, ttl)
}

// --- Fixtures ---

var testEpoch = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type recSpec struct {
	id        string
	title     string
	desc      string
	tags      []string
	category  string
	embedding []float32
	createdAt time.Time
}

func buildRecord(spec recSpec) record.Record {
	created := spec.createdAt
	if created.IsZero() {
		created = testEpoch
	}
	return record.Reconstruct(
		spec.id, spec.title, spec.desc, nil, spec.tags,
		spec.category, record.StatusActive, nil, spec.embedding,
		nil, "", created, created,
	)
}

func cand(spec recSpec, score float64, src candidate.Source) candidate.Candidate {
	return candidate.New(buildRecord(spec), score, src)
}

func mustQuery(t interface{ Fatalf(string, ...any) }, text string, m mode.Mode, limit, offset int, minScore float64) query.Query {
	q, err := query.New(text, m, filter.Expression{}, limit, offset, minScore, false)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}

func queryWithInterpret(text string, m mode.Mode) (query.Query, error) {
	return query.New(text, m, filter.Expression{}, 10, 0, 0, true)
}

func newTestService(r Retriever, e Embedder, i Interpreter, c ResponseCache) *Service {
	return New(r, e, i, c, time.Minute, zap.NewNop())
}
