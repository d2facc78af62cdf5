package response

import (
	"time"

	"github.com/morainelabs/dataseek/internal/domain/search/mode"
)

// Result is a single enriched search hit.
type Result struct {
	ID          string
	Title       string
	Description string
	Content     map[string]any
	Tags        []string
	Category    string
	Score       float64
	Highlights  map[string][]string
	Metadata    map[string]any
	CreatedAt   time.Time
}

// Facets are value counts over the returned result page.
type Facets struct {
	Categories map[string]int
	Tags       map[string]int
	Status     map[string]int
}

// Interpretation describes how the query was understood.
type Interpretation struct {
	ProcessedQuery string
	Keywords       []string
	Confidence     float64
	Degraded       bool
}

// Response is the complete search envelope. A failed search still yields a
// valid Response with zero counts, never an error.
type Response struct {
	Query          string
	SearchType     mode.Mode
	Results        []Result
	TotalCount     int
	ReturnedCount  int
	Offset         int
	Limit          int
	ProcessingTime float64
	Suggestions    []string
	Facets         Facets
	Interpretation *Interpretation
	Insights       string
}

// Empty returns the zero-result envelope for a query that could not be
// served.
func Empty(query string, m mode.Mode, limit, offset int) Response {
	return Response{
		Query:       query,
		SearchType:  m,
		Results:     []Result{},
		Offset:      offset,
		Limit:       limit,
		Suggestions: []string{},
	}
}
