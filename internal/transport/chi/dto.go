package chi

import (
	"fmt"
	"time"

	"github.com/morainelabs/dataseek/internal/domain/search/filter"
	"github.com/morainelabs/dataseek/internal/domain/search/mode"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
	recorduc "github.com/morainelabs/dataseek/internal/usecase/record"
)

// --- Requests ---

type searchRequest struct {
	Query      string          `json:"query"`
	SearchType string          `json:"search_type"`
	Filters    []filterRequest `json:"filters"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
	MinScore   float64         `json:"min_score"`
	Interpret  *bool           `json:"interpret"`
}

type filterRequest struct {
	Field    string   `json:"field"`
	Operator string   `json:"operator"`
	Value    string   `json:"value,omitempty"`
	Values   []string `json:"values,omitempty"`
}

type recordRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Content     map[string]any `json:"content"`
	Tags        []string       `json:"tags"`
	Category    string         `json:"category"`
	Metadata    map[string]any `json:"metadata"`
}

type recordPatchRequest struct {
	Title       *string         `json:"title"`
	Description *string         `json:"description"`
	Content     *map[string]any `json:"content"`
	Tags        *[]string       `json:"tags"`
	Category    *string         `json:"category"`
	Status      *string         `json:"status"`
	Metadata    *map[string]any `json:"metadata"`
}

type bulkRequest struct {
	Records []recordRequest `json:"records"`
}

type insightsRequest struct {
	Query   string            `json:"query"`
	Results []insightsSample  `json:"results"`
}

type insightsSample struct {
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Score    float64  `json:"score"`
}

// --- Responses ---

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchResponse struct {
	Query          string              `json:"query"`
	SearchType     string              `json:"search_type"`
	Results        []searchResultItem  `json:"results"`
	TotalCount     int                 `json:"total_count"`
	ReturnedCount  int                 `json:"returned_count"`
	Offset         int                 `json:"offset"`
	Limit          int                 `json:"limit"`
	ProcessingTime float64             `json:"processing_time"`
	Suggestions    []string            `json:"suggestions"`
	Facets         facetsResponse      `json:"facets"`
	Interpretation *interpretResponse  `json:"interpretation,omitempty"`
	Insights       string              `json:"insights,omitempty"`
}

type searchResultItem struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Content     map[string]any    `json:"content,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Category    string            `json:"category,omitempty"`
	Score       float64           `json:"score"`
	Highlights  map[string][]string `json:"highlights,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

type facetsResponse struct {
	Categories map[string]int `json:"categories"`
	Tags       map[string]int `json:"tags"`
	Status     map[string]int `json:"status"`
}

type interpretResponse struct {
	ProcessedQuery string   `json:"processed_query"`
	Keywords       []string `json:"keywords"`
	Confidence     float64  `json:"confidence"`
	Degraded       bool     `json:"degraded"`
}

type recordResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Content     map[string]any `json:"content,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Category    string         `json:"category,omitempty"`
	Status      string         `json:"status"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Keywords    []string       `json:"keywords,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type recordListResponse struct {
	Records     []recordResponse `json:"records"`
	Total       int              `json:"total"`
	Offset      int              `json:"offset"`
	Limit       int              `json:"limit"`
	CurrentPage int              `json:"current_page"`
	TotalPages  int              `json:"total_pages"`
	HasNext     bool             `json:"has_next"`
	HasPrev     bool             `json:"has_prev"`
}

type bulkResponse struct {
	Results []bulkResultItem `json:"results"`
}

type bulkResultItem struct {
	ID     string `json:"id,omitempty"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type suggestionsResponse struct {
	Suggestions []string `json:"suggestions"`
}

type insightsResponse struct {
	Insights string `json:"insights"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// --- Converters ---

// modeFromRequest passes the wire search type through; query.New validates
// it and defaults an empty value to hybrid.
func modeFromRequest(searchType string) mode.Mode {
	return mode.Mode(searchType)
}

// filtersFromRequest folds wire filter conditions into a validated
// expression. Temporal fields expect RFC 3339 values.
func filtersFromRequest(reqs []filterRequest) (filter.Expression, error) {
	if len(reqs) == 0 {
		return filter.Expression{}, nil
	}

	conditions := make([]filter.Condition, 0, len(reqs))
	for _, fr := range reqs {
		cond, err := conditionFromRequest(fr)
		if err != nil {
			return filter.Expression{}, err
		}
		conditions = append(conditions, cond)
	}
	return filter.NewExpression(conditions)
}

func conditionFromRequest(fr filterRequest) (filter.Condition, error) {
	field := filter.Field(fr.Field)
	op := filter.Op(fr.Operator)

	switch op {
	case filter.OpIn, filter.OpNin:
		return filter.NewSet(field, op, fr.Values)
	case filter.OpGt, filter.OpGte, filter.OpLt, filter.OpLte:
		ts, err := time.Parse(time.RFC3339, fr.Value)
		if err != nil {
			return filter.Condition{}, fmt.Errorf("filter %q: value must be RFC 3339: %w", fr.Field, err)
		}
		return filter.NewTemporal(field, op, ts)
	default:
		return filter.NewMatch(field, op, fr.Value)
	}
}

func searchResponseFromDomain(resp *response.Response) searchResponse {
	results := make([]searchResultItem, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, searchResultItem{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			Content:     r.Content,
			Tags:        r.Tags,
			Category:    r.Category,
			Score:       r.Score,
			Highlights:  r.Highlights,
			Metadata:    r.Metadata,
			CreatedAt:   r.CreatedAt,
		})
	}

	out := searchResponse{
		Query:          resp.Query,
		SearchType:     string(resp.SearchType),
		Results:        results,
		TotalCount:     resp.TotalCount,
		ReturnedCount:  resp.ReturnedCount,
		Offset:         resp.Offset,
		Limit:          resp.Limit,
		ProcessingTime: resp.ProcessingTime,
		Suggestions:    resp.Suggestions,
		Facets: facetsResponse{
			Categories: resp.Facets.Categories,
			Tags:       resp.Facets.Tags,
			Status:     resp.Facets.Status,
		},
		Insights: resp.Insights,
	}
	if resp.Interpretation != nil {
		out.Interpretation = &interpretResponse{
			ProcessedQuery: resp.Interpretation.ProcessedQuery,
			Keywords:       resp.Interpretation.Keywords,
			Confidence:     resp.Interpretation.Confidence,
			Degraded:       resp.Interpretation.Degraded,
		}
	}
	return out
}

func recordToResponse(rec *domrec.Record) recordResponse {
	return recordResponse{
		ID:          rec.ID(),
		Title:       rec.Title(),
		Description: rec.Description(),
		Content:     rec.Content(),
		Tags:        rec.Tags(),
		Category:    rec.Category(),
		Status:      string(rec.Status()),
		Metadata:    rec.Metadata(),
		Keywords:    rec.Keywords(),
		CreatedAt:   rec.CreatedAt(),
		UpdatedAt:   rec.UpdatedAt(),
	}
}

func patchFromRequest(req *recordPatchRequest) (domrec.Patch, error) {
	p := domrec.Patch{
		Title:       req.Title,
		Description: req.Description,
		Metadata:    req.Metadata,
	}
	if req.Content != nil {
		p.Content = req.Content
	}
	if req.Tags != nil {
		p.Tags = req.Tags
	}
	if req.Category != nil {
		p.Category = req.Category
	}
	if req.Status != nil {
		st := domrec.Status(*req.Status)
		if !st.IsValid() {
			return domrec.Patch{}, fmt.Errorf("invalid status %q", *req.Status)
		}
		p.Status = &st
	}
	return p, nil
}

func bulkResultsToResponse(results []recorduc.BulkResult) bulkResponse {
	items := make([]bulkResultItem, 0, len(results))
	for _, r := range results {
		item := bulkResultItem{ID: r.ID, Status: "ok"}
		if r.Err != nil {
			item.Status = "error"
			item.Error = r.Err.Error()
		}
		items = append(items, item)
	}
	return bulkResponse{Results: items}
}
