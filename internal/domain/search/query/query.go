package query

import (
	"fmt"

	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 50
	MaxLimit       = 1000
)

// Query is a validated search request.
type Query struct {
	text      string
	mode      mode.Mode
	filters   filter.Expression
	limit     int
	offset    int
	minScore  float64
	interpret bool
}

// New validates and normalizes search parameters.
// Defaults: mode=hybrid, limit=50, interpretation enabled.
func New(
	text string,
	m mode.Mode,
	filters filter.Expression,
	limit, offset int,
	minScore float64,
	interpret bool,
) (Query, error) {
	if text == "" {
		return Query{}, fmt.Errorf("query is required")
	}
	if len(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Hybrid
	}
	if !m.IsValid() {
		return Query{}, fmt.Errorf("invalid search mode: %q", m)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 || limit > MaxLimit {
		return Query{}, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	if offset < 0 {
		return Query{}, fmt.Errorf("offset must not be negative")
	}
	if minScore < 0 || minScore > 1 {
		return Query{}, fmt.Errorf("min_score must be between 0 and 1")
	}

	return Query{
		text:      text,
		mode:      m,
		filters:   filters,
		limit:     limit,
		offset:    offset,
		minScore:  minScore,
		interpret: interpret,
	}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// Mode returns the retrieval strategy.
func (q Query) Mode() mode.Mode { return q.mode }

// Filters returns the structured filter expression.
func (q Query) Filters() filter.Expression { return q.filters }

// Limit returns the page size.
func (q Query) Limit() int { return q.limit }

// Offset returns the pagination offset.
func (q Query) Offset() int { return q.offset }

// MinScore returns the relevance floor applied to the result page.
func (q Query) MinScore() float64 { return q.minScore }

// Interpret reports whether oracle query interpretation is requested.
func (q Query) Interpret() bool { return q.interpret }
