package search

import (
	"fmt"
	"strings"

	"github.com/morainelabs/dataseek/internal/db"
	rec "github.com/morainelabs/dataseek/internal/domain/record"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
)

// liveClause excludes soft-deleted records from every search path.
const liveClause = "-@status:{deleted}"

// textFields are the TEXT index fields matched by fuzzy and exact search.
var textFields = []string{"title", "description", "search_text"}

// buildKeywordQuery matches escaped query terms against the combined search
// text, with filters and the live clause appended.
func buildKeywordQuery(text string, filters filter.Expression) string {
	clause := fmt.Sprintf("@search_text:(%s)", db.EscapeTerm(text))
	return joinClauses(clause, filters)
}

// buildFuzzyQuery builds an infix wildcard disjunction from the stopword
// filtered tokens of the query. Returns false when no tokens survive.
func buildFuzzyQuery(text string, filters filter.Expression) (string, bool) {
	tokens := rec.QueryTokens(text)
	if len(tokens) == 0 {
		return "", false
	}

	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		fields := make([]string, 0, len(textFields))
		for _, f := range textFields {
			fields = append(fields, fmt.Sprintf("@%s:(*%s*)", f, db.EscapeTerm(tok)))
		}
		parts = append(parts, "("+strings.Join(fields, " | ")+")")
	}

	return joinClauses("("+strings.Join(parts, " | ")+")", filters), true
}

// buildExactQuery matches the whole query as a literal phrase.
func buildExactQuery(text string, filters filter.Expression) string {
	phrase := db.EscapeTerm(text)
	fields := make([]string, 0, len(textFields))
	for _, f := range textFields {
		fields = append(fields, fmt.Sprintf("@%s:\"%s\"", f, phrase))
	}
	return joinClauses("("+strings.Join(fields, " | ")+")", filters)
}

// buildFilterQuery matches every live record satisfying the filters.
func buildFilterQuery(filters filter.Expression) string {
	clauses := buildFilterClauses(filters)
	if len(clauses) == 0 {
		return liveClause + " *"
	}
	return strings.Join(clauses, " ") + " " + liveClause
}

func joinClauses(textClause string, filters filter.Expression) string {
	parts := []string{textClause}
	parts = append(parts, buildFilterClauses(filters)...)
	parts = append(parts, liveClause)
	return strings.Join(parts, " ")
}

// buildFilterClauses translates the filter expression into FT syntax. The
// expression arrives pre-validated, so unknown combinations simply produce
// no clause.
func buildFilterClauses(filters filter.Expression) []string {
	if filters.IsEmpty() {
		return nil
	}

	clauses := make([]string, 0, len(filters.Conditions()))
	for _, cond := range filters.Conditions() {
		if c := buildCondition(cond); c != "" {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

func buildCondition(cond filter.Condition) string {
	field := string(cond.Field())

	switch cond.Op() {
	case filter.OpEq, filter.OpContains:
		return fmt.Sprintf("@%s:{%s}", field, db.EscapeTag(cond.Value()))
	case filter.OpNe:
		return fmt.Sprintf("-@%s:{%s}", field, db.EscapeTag(cond.Value()))
	case filter.OpIn:
		return fmt.Sprintf("@%s:{%s}", field, tagAlternatives(cond.Values()))
	case filter.OpNin:
		return fmt.Sprintf("-@%s:{%s}", field, tagAlternatives(cond.Values()))
	case filter.OpGt:
		return fmt.Sprintf("@%s:[(%d +inf]", tsField(field), cond.Timestamp().Unix())
	case filter.OpGte:
		return fmt.Sprintf("@%s:[%d +inf]", tsField(field), cond.Timestamp().Unix())
	case filter.OpLt:
		return fmt.Sprintf("@%s:[-inf (%d]", tsField(field), cond.Timestamp().Unix())
	case filter.OpLte:
		return fmt.Sprintf("@%s:[-inf %d]", tsField(field), cond.Timestamp().Unix())
	}
	return ""
}

func tagAlternatives(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = db.EscapeTag(v)
	}
	return strings.Join(escaped, " | ")
}

// tsField maps the domain timestamp field onto its NUMERIC index alias.
func tsField(field string) string {
	switch field {
	case string(filter.FieldCreatedAt):
		return "created_ts"
	case string(filter.FieldUpdatedAt):
		return "updated_ts"
	}
	return field
}
