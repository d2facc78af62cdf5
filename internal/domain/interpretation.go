package domain

// Interpretation is the outcome of translating a free-text query through the
// LLM oracle. A degraded interpretation is still valid: the interpreter falls
// back to a local whitespace split when the oracle reply cannot be parsed, so
// callers never need to branch on failure.
type Interpretation struct {
	Keywords   []string
	Entities   []string
	Filters    map[string]any
	Confidence float64

	// Degraded marks a local-fallback interpretation; Reason carries the
	// oracle or parse failure for logs and tests, never for transport.
	Degraded bool
	Reason   string
}

// ProcessedQuery returns the keyword-joined form of the query, or the
// original text when interpretation produced no keywords.
func (i Interpretation) ProcessedQuery(original string) string {
	if len(i.Keywords) == 0 {
		return original
	}
	out := i.Keywords[0]
	for _, kw := range i.Keywords[1:] {
		out += " " + kw
	}
	return out
}
