package db

// TextQuery is the input for an FT.SEARCH full-text query. Query holds the
// complete, already-escaped FT syntax; translation from domain filters
// happens at the repository layer.
type TextQuery struct {
	IndexName  string
	Query      string
	SortBy     string
	SortDesc   bool
	Offset     int
	Limit      int
	WithScores bool
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search. For JSON indexes the
// full document arrives under the "$" field.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}

// Document returns the raw JSON document of a JSON-index hit, or nil.
func (e *SearchEntry) Document() []byte {
	if doc, ok := e.Fields["$"]; ok {
		return []byte(doc)
	}
	return nil
}
