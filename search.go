package dataseek

import (
	"context"
	"fmt"
	"time"

	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
)

// SearchMode selects the retrieval strategy.
type SearchMode = mode.Mode

// Search modes.
const (
	ModeKeyword  = mode.Keyword
	ModeSemantic = mode.Semantic
	ModeFuzzy    = mode.Fuzzy
	ModeExact    = mode.Exact
	ModeHybrid   = mode.Hybrid
)

// Response is a complete search response envelope.
type Response = response.Response

// SearchResult is one scored hit.
type SearchResult = response.Result

// SearchBuilder is a fluent builder for search queries.
type SearchBuilder struct {
	client *Client

	text     string
	mode     SearchMode
	conds    []filter.Condition
	limit    int
	offset   int
	minScore float64
	interp   bool

	err error
}

// Search starts a search for the given query text. Mode defaults to hybrid.
func (c *Client) Search(text string) *SearchBuilder {
	return &SearchBuilder{
		client: c,
		text:   text,
		mode:   mode.Hybrid,
		interp: true,
	}
}

// Mode sets the retrieval strategy.
func (b *SearchBuilder) Mode(m SearchMode) *SearchBuilder {
	b.mode = m
	return b
}

// Where adds an exact-match filter on a field (category, status).
func (b *SearchBuilder) Where(field, value string) *SearchBuilder {
	return b.cond(filter.NewMatch(filter.Field(field), filter.OpEq, value))
}

// WhereIn adds a set membership filter (tags, category).
func (b *SearchBuilder) WhereIn(field string, values ...string) *SearchBuilder {
	return b.cond(filter.NewSet(filter.Field(field), filter.OpIn, values))
}

// CreatedAfter keeps records created at or after t.
func (b *SearchBuilder) CreatedAfter(t time.Time) *SearchBuilder {
	return b.cond(filter.NewTemporal(filter.FieldCreatedAt, filter.OpGte, t))
}

// CreatedBefore keeps records created at or before t.
func (b *SearchBuilder) CreatedBefore(t time.Time) *SearchBuilder {
	return b.cond(filter.NewTemporal(filter.FieldCreatedAt, filter.OpLte, t))
}

// Limit sets the page size.
func (b *SearchBuilder) Limit(n int) *SearchBuilder {
	b.limit = n
	return b
}

// Offset sets the number of fused results to skip.
func (b *SearchBuilder) Offset(n int) *SearchBuilder {
	b.offset = n
	return b
}

// MinScore drops results scoring below the threshold from the returned page.
func (b *SearchBuilder) MinScore(s float64) *SearchBuilder {
	b.minScore = s
	return b
}

// NoInterpret disables LLM query interpretation for this search.
func (b *SearchBuilder) NoInterpret() *SearchBuilder {
	b.interp = false
	return b
}

// Do executes the search. Invalid builder input surfaces here; a degraded
// backend still returns a valid empty response.
func (b *SearchBuilder) Do(ctx context.Context) (Response, error) {
	if b.err != nil {
		return Response{}, b.err
	}

	filters, err := filter.NewExpression(b.conds)
	if err != nil {
		return Response{}, fmt.Errorf("build filters: %w", err)
	}

	q, err := query.New(b.text, b.mode, filters, b.limit, b.offset, b.minScore, b.interp)
	if err != nil {
		return Response{}, fmt.Errorf("build query: %w", err)
	}

	return b.client.searchSvc.Search(ctx, q), nil
}

func (b *SearchBuilder) cond(c filter.Condition, err error) *SearchBuilder {
	if err != nil && b.err == nil {
		b.err = err
	}
	if err == nil {
		b.conds = append(b.conds, c)
	}
	return b
}
