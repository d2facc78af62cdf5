package mode

// Mode is the retrieval strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid fuses keyword and semantic retrieval into a single ranking.
	Hybrid   Mode = "hybrid"
	Keyword  Mode = "keyword"
	Semantic Mode = "semantic"
	// Fuzzy matches stopword-filtered query tokens as case-insensitive infixes.
	Fuzzy Mode = "fuzzy"
	// Exact matches the whole query as a literal phrase.
	Exact Mode = "exact"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Keyword || m == Semantic || m == Fuzzy || m == Exact
}
