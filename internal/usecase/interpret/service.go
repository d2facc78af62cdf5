package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain"
	"github.com/morainelabs/dataseek/internal/metrics"
)

const interpretSystemPrompt = `You are an expert data analyst. Help users search and understand structured data.
Transform natural language queries into precise search parameters.
Focus on extracting: entities, filters, and search intent.`

const suggestSystemPrompt = `You are a helpful query suggestion assistant. Return only valid JSON arrays.`

const summarizeSystemPrompt = `You are a data insights expert. Analyze search results and provide key patterns,
interesting findings, and actionable observations. Be concise but insightful.`

// fallbackSuggestions is served when the oracle cannot produce suggestions.
var fallbackSuggestions = []string{
	"show all active records",
	"find records created today",
	"search by category",
	"show recent updates",
	"find tagged records",
}

// Service translates free-text queries through the LLM oracle. Every
// operation is best-effort: oracle failures degrade to local output and
// never surface as errors.
type Service struct {
	oracle Oracle
	logger *zap.Logger
}

// New creates an interpretation service.
func New(oracle Oracle, logger *zap.Logger) *Service {
	return &Service{oracle: oracle, logger: logger}
}

// Interpret asks the oracle to turn a query into keywords and filters. On any
// oracle or parse failure it returns a degraded interpretation built from a
// local whitespace split, with confidence 0.5.
func (s *Service) Interpret(ctx context.Context, query string) domain.Interpretation {
	user := fmt.Sprintf(`Analyze this search query and extract structured parameters:
Query: %q

Return ONLY valid JSON with:
{
  "keywords": ["key", "terms"],
  "entities": ["extracted entities"],
  "filters": {},
  "confidence": 0.95
}`, query)

	raw, err := s.oracle.Complete(ctx, interpretSystemPrompt, user)
	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues("interpret", "error").Inc()
		return s.degraded(query, err)
	}
	metrics.OracleRequestsTotal.WithLabelValues("interpret", "ok").Inc()

	reply, err := parseReply(raw)
	if err != nil {
		return s.degraded(query, err)
	}

	return domain.Interpretation{
		Keywords:   reply.Keywords,
		Entities:   reply.Entities,
		Filters:    reply.Filters,
		Confidence: reply.Confidence,
	}
}

// degraded builds the local-fallback interpretation: whitespace-split
// keywords and a fixed 0.5 confidence.
func (s *Service) degraded(query string, cause error) domain.Interpretation {
	metrics.InterpretDegradedTotal.Inc()
	s.logger.Warn("query interpretation degraded",
		zap.String("query", query),
		zap.Error(cause),
	)
	return domain.Interpretation{
		Keywords:   strings.Fields(query),
		Confidence: 0.5,
		Degraded:   true,
		Reason:     cause.Error(),
	}
}

// Suggest asks the oracle for up to n query suggestions related to the given
// query. On failure it serves a static fallback list.
func (s *Service) Suggest(ctx context.Context, query string, n int) []string {
	if n <= 0 {
		n = len(fallbackSuggestions)
	}

	user := fmt.Sprintf(`Suggest %d useful search queries related to this one:

Query: %q

Return ONLY a JSON array of query suggestions:
["query 1", "query 2", "query 3"]`, n, query)

	raw, err := s.oracle.Complete(ctx, suggestSystemPrompt, user)
	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues("suggest", "error").Inc()
		s.logger.Warn("oracle suggestions unavailable", zap.Error(err))
		return capList(fallbackSuggestions, n)
	}
	metrics.OracleRequestsTotal.WithLabelValues("suggest", "ok").Inc()

	list, err := parseStringList(raw)
	if err != nil || len(list) == 0 {
		s.logger.Warn("oracle suggestions unparseable", zap.Error(err))
		return capList(fallbackSuggestions, n)
	}
	return capList(list, n)
}

// ResultSample is the compact result projection fed to Summarize. Keeping it
// small bounds prompt size regardless of the caller's page.
type ResultSample struct {
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
}

// maxSummarySample bounds how many results reach the summarization prompt.
const maxSummarySample = 20

// Summarize asks the oracle for a natural-language reading of a result page.
// On failure it returns a bland but valid local summary.
func (s *Service) Summarize(ctx context.Context, query string, sample []ResultSample) string {
	total := len(sample)
	if len(sample) > maxSummarySample {
		sample = sample[:maxSummarySample]
	}

	encoded, err := json.Marshal(sample)
	if err != nil {
		return localSummary(total)
	}

	user := fmt.Sprintf(`Analyze these search results for the query %q and summarize the key
patterns and findings in two or three sentences of plain text.

Results (%d of %d shown):
%s`, query, len(sample), total, encoded)

	raw, err := s.oracle.Complete(ctx, summarizeSystemPrompt, user)
	if err != nil {
		metrics.OracleRequestsTotal.WithLabelValues("summarize", "error").Inc()
		s.logger.Warn("oracle summary unavailable", zap.Error(err))
		return localSummary(total)
	}
	metrics.OracleRequestsTotal.WithLabelValues("summarize", "ok").Inc()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return localSummary(total)
	}
	return raw
}

func localSummary(total int) string {
	return fmt.Sprintf("Analysis completed on %d records.", total)
}

func capList(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
