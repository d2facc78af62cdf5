package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/morainelabs/dataseek/internal/domain/record"
	"github.com/morainelabs/dataseek/internal/domain/search/candidate"
	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
)

const (
	maxSuggestions       = 5
	maxFacetSuggestions  = 3
	suggestionSampleSize = 10
	suggestionTagsPerHit = 3
)

// buildResults projects candidates into response results, attaching
// highlights for the stopword-filtered keywords of the original query.
func buildResults(cands []candidate.Candidate, originalQuery string) []response.Result {
	keywords := record.QueryTokens(originalQuery)

	results := make([]response.Result, 0, len(cands))
	for _, c := range cands {
		rec := c.Record()
		results = append(results, response.Result{
			ID:          rec.ID(),
			Title:       rec.Title(),
			Description: rec.Description(),
			Content:     rec.Content(),
			Tags:        rec.Tags(),
			Category:    rec.Category(),
			Score:       c.Score(),
			Highlights:  buildHighlights(rec, keywords),
			Metadata:    rec.Metadata(),
			CreatedAt:   rec.CreatedAt(),
		})
	}
	return results
}

// buildHighlights produces per-field highlight variants: one copy of the
// field text per matching query keyword, with that keyword's first
// case-insensitive occurrence wrapped in <mark> tags. Fields without a
// single hit are omitted.
func buildHighlights(rec record.Record, keywords []string) map[string][]string {
	if len(keywords) == 0 {
		return nil
	}

	highlights := make(map[string][]string, 2)
	if vs := highlightField(rec.Title(), keywords); len(vs) > 0 {
		highlights["title"] = vs
	}
	if vs := highlightField(rec.Description(), keywords); len(vs) > 0 {
		highlights["description"] = vs
	}
	if len(highlights) == 0 {
		return nil
	}
	return highlights
}

// highlightField returns one independently-marked variant of text per
// matching keyword, in keyword order. Keywords without a hit produce no
// variant.
func highlightField(text string, keywords []string) []string {
	if text == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var variants []string
	for _, kw := range keywords {
		idx := strings.Index(lower, strings.ToLower(kw))
		if idx < 0 {
			continue
		}
		variants = append(variants,
			text[:idx]+"<mark>"+text[idx:idx+len(kw)]+"</mark>"+text[idx+len(kw):])
	}
	return variants
}

// Facets aggregates category, tag and status counts over a bounded window of
// active records, independent of any query.
func (s *Service) Facets(ctx context.Context, filters filter.Expression) (response.Facets, error) {
	cands, err := s.retriever.Window(ctx, filters)
	if err != nil {
		return response.Facets{}, fmt.Errorf("facets window: %w", err)
	}
	return buildFacets(cands), nil
}

// buildFacets counts categories, tags and statuses over the returned page.
func buildFacets(cands []candidate.Candidate) response.Facets {
	facets := response.Facets{
		Categories: make(map[string]int),
		Tags:       make(map[string]int),
		Status:     make(map[string]int),
	}
	for _, c := range cands {
		rec := c.Record()
		if cat := rec.Category(); cat != "" {
			facets.Categories[cat]++
		}
		for _, tag := range rec.Tags() {
			facets.Tags[tag]++
		}
		facets.Status[string(rec.Status())]++
	}
	return facets
}

// buildSuggestions derives query rewrites from the top results: up to three
// category-qualified and up to three tag-qualified variants. When fewer than
// five emerge, the oracle pads the list best-effort. Capped at five.
func (s *Service) buildSuggestions(
	ctx context.Context, query string, cands []candidate.Candidate,
) []string {
	if len(cands) > suggestionSampleSize {
		cands = cands[:suggestionSampleSize]
	}

	suggestions := make([]string, 0, maxSuggestions)
	seen := make(map[string]struct{})

	categories := 0
	for _, c := range cands {
		if categories == maxFacetSuggestions {
			break
		}
		cat := c.Record().Category()
		if cat == "" {
			continue
		}
		v := fmt.Sprintf("%s in %s", query, cat)
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		suggestions = append(suggestions, v)
		categories++
	}

	tags := 0
	for _, c := range cands {
		if tags == maxFacetSuggestions {
			break
		}
		recTags := c.Record().Tags()
		if len(recTags) > suggestionTagsPerHit {
			recTags = recTags[:suggestionTagsPerHit]
		}
		for _, tag := range recTags {
			if tags == maxFacetSuggestions {
				break
			}
			v := fmt.Sprintf("%s tagged %s", query, tag)
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			suggestions = append(suggestions, v)
			tags++
		}
	}

	if len(suggestions) < maxSuggestions && s.interp != nil {
		for _, v := range s.interp.Suggest(ctx, query, maxSuggestions-len(suggestions)) {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			suggestions = append(suggestions, v)
		}
	}

	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}
	return suggestions
}
