package candidate

import "github.com/morainelabs/dataseek/internal/domain/record"

// Source identifies the retrieval strategy that produced a candidate.
type Source string

// Candidate source constants.
const (
	SourceKeyword  Source = "keyword"
	SourceSemantic Source = "semantic"
	SourceFuzzy    Source = "fuzzy"
	SourceExact    Source = "exact"
)

// Candidate is a scored search hit. Scores only have meaning within a
// single search call and are never persisted on records.
type Candidate struct {
	rec    record.Record
	score  float64
	source Source
}

// New creates a candidate.
func New(rec record.Record, score float64, source Source) Candidate {
	return Candidate{rec: rec, score: score, source: source}
}

// Record returns the underlying record.
func (c Candidate) Record() record.Record { return c.rec }

// Score returns the strategy-assigned relevance score.
func (c Candidate) Score() float64 { return c.score }

// Source returns the producing strategy.
func (c Candidate) Source() Source { return c.source }

// WithScore returns a copy carrying the given score.
func (c Candidate) WithScore(score float64) Candidate {
	out := c
	out.score = score
	return out
}
