package search

import (
	"context"
	"fmt"

	"github.com/morainelabs/dataseek/internal/db"
	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	recrepo "github.com/morainelabs/dataseek/internal/repository/record"
)

// DefaultKeywordScore is assigned when the store returns no relevance score
// for a keyword hit.
const DefaultKeywordScore = 0.5

// WindowSize bounds the corpus slice scored in-process for semantic search.
const WindowSize = 1000

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/search.Retriever.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Keyword performs a scored full-text search over the combined search text.
func (r *Repo) Keyword(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	q := buildKeywordQuery(text, filters)

	sr, err := r.store.Search(ctx, &db.TextQuery{
		IndexName:  recrepo.IndexName,
		Query:      q,
		Offset:     offset,
		Limit:      limit,
		WithScores: true,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("keyword search: %w", err)
	}

	return parseScored(sr, candidate.SourceKeyword), totalOf(sr), nil
}

// Fuzzy matches stopword-filtered query tokens as case-insensitive infixes
// over title, description and search text. Hits carry no relevance score.
func (r *Repo) Fuzzy(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	q, ok := buildFuzzyQuery(text, filters)
	if !ok {
		return nil, 0, nil
	}

	sr, err := r.store.Search(ctx, &db.TextQuery{
		IndexName: recrepo.IndexName,
		Query:     q,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("fuzzy search: %w", err)
	}

	return parseUnscored(sr, candidate.SourceFuzzy), totalOf(sr), nil
}

// Exact matches the whole query as a literal phrase over title, description
// and search text. Hits carry no relevance score.
func (r *Repo) Exact(
	ctx context.Context, text string, filters filter.Expression, limit, offset int,
) ([]candidate.Candidate, int, error) {
	q := buildExactQuery(text, filters)

	sr, err := r.store.Search(ctx, &db.TextQuery{
		IndexName: recrepo.IndexName,
		Query:     q,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("exact search: %w", err)
	}

	return parseUnscored(sr, candidate.SourceExact), totalOf(sr), nil
}

// Window fetches a bounded slice of active records for in-process semantic
// scoring, newest first.
func (r *Repo) Window(
	ctx context.Context, filters filter.Expression,
) ([]candidate.Candidate, error) {
	sr, err := r.store.Search(ctx, &db.TextQuery{
		IndexName: recrepo.IndexName,
		Query:     buildFilterQuery(filters),
		SortBy:    "created_ts",
		SortDesc:  true,
		Limit:     WindowSize,
	})
	if err != nil {
		return nil, fmt.Errorf("window fetch: %w", err)
	}

	return parseUnscored(sr, candidate.SourceSemantic), nil
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

func totalOf(sr *db.SearchResult) int {
	if sr == nil {
		return 0
	}
	return sr.Total
}

func parseScored(sr *db.SearchResult, src candidate.Source) []candidate.Candidate {
	return parseEntries(sr, src, true)
}

func parseUnscored(sr *db.SearchResult, src candidate.Source) []candidate.Candidate {
	return parseEntries(sr, src, false)
}

func parseEntries(sr *db.SearchResult, src candidate.Source, scored bool) []candidate.Candidate {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}

	out := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		doc := entry.Document()
		if doc == nil {
			continue
		}
		parsed, err := recrepo.DecodeDoc(doc)
		if err != nil {
			continue
		}

		score := 0.0
		if scored {
			score = entry.Score
			if score == 0 {
				score = DefaultKeywordScore
			}
		}
		out = append(out, candidate.New(parsed, score, src))
	}
	return out
}
