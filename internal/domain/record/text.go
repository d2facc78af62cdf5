package record

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// MaxKeywords caps the keywords derived from a record's search text.
const MaxKeywords = 10

// minKeywordLength filters noise tokens from keyword extraction.
const minKeywordLength = 3

// stopwords are excluded from keyword extraction and query tokenization.
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "for": {}, "from": {}, "has": {}, "he": {}, "in": {}, "is": {},
	"it": {}, "its": {}, "of": {}, "on": {}, "that": {}, "the": {}, "to": {},
	"was": {}, "were": {}, "will": {}, "with": {}, "this": {}, "these": {},
	"those": {}, "or": {}, "but": {}, "not": {}, "what": {}, "which": {},
	"who": {}, "when": {}, "where": {}, "how": {}, "all": {}, "each": {},
	"more": {}, "most": {}, "other": {}, "some": {}, "such": {},
}

// IsStopword reports whether the lowercase form of w is a stopword.
func IsStopword(w string) bool {
	_, ok := stopwords[strings.ToLower(w)]
	return ok
}

// BuildSearchText flattens title, description and content values into a
// single lowercase string used for keyword and fuzzy matching. Content maps
// are walked in sorted key order so the result is deterministic.
func BuildSearchText(title, description string, content map[string]any) string {
	parts := make([]string, 0, 2+len(content))
	if title != "" {
		parts = append(parts, title)
	}
	if description != "" {
		parts = append(parts, description)
	}
	parts = appendContentText(parts, content)
	return strings.ToLower(strings.Join(parts, " "))
}

func appendContentText(parts []string, m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = appendValueText(parts, m[k])
	}
	return parts
}

func appendValueText(parts []string, v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			parts = append(parts, t)
		}
	case []any:
		for _, e := range t {
			parts = appendValueText(parts, e)
		}
	case map[string]any:
		parts = appendContentText(parts, t)
	case nil:
		// skip
	case bool:
		// booleans carry no searchable text
	default:
		parts = append(parts, fmt.Sprintf("%v", t))
	}
	return parts
}

// Tokenize lowercases text and splits it into alphanumeric runs.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ExtractKeywords returns up to max distinct tokens of the text, in first
// occurrence order, skipping stopwords and tokens shorter than three runes.
func ExtractKeywords(text string, max int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokenize(text) {
		if len(tok) < minKeywordLength {
			continue
		}
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if !isAlphaToken(tok) {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
		if len(out) == max {
			break
		}
	}
	return out
}

func isAlphaToken(tok string) bool {
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// QueryTokens returns the stopword-filtered tokens of a raw query, keeping
// duplicates out but preserving order. Used for fuzzy matching and highlight
// generation.
func QueryTokens(query string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range Tokenize(query) {
		if _, ok := stopwords[tok]; ok {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

// TokenSimilarity computes the Jaccard similarity of the token sets of two
// texts. It backs semantic scoring for records that carry no vector.
func TokenSimilarity(a, b string) float64 {
	sa := tokenSet(a)
	sb := tokenSet(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}
	inter := 0
	for t := range sa {
		if _, ok := sb[t]; ok {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}
