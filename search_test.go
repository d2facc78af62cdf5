package dataseek

import (
	"context"
	"testing"
	"time"

	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
)

type mockSearcher struct {
	last query.Query
	resp response.Response
}

func (m *mockSearcher) Search(_ context.Context, q query.Query) response.Response {
	m.last = q
	return m.resp
}

func TestSearchBuilder_Defaults(t *testing.T) {
	mock := &mockSearcher{resp: response.Response{Query: "golang"}}
	c := &Client{searchSvc: mock}

	resp, err := c.Search("golang").Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Query != "golang" {
		t.Errorf("response query = %q", resp.Query)
	}

	if mock.last.Mode() != ModeHybrid {
		t.Errorf("mode = %s, want hybrid", mock.last.Mode())
	}
	if !mock.last.Interpret() {
		t.Error("interpretation should default on")
	}
	if mock.last.Limit() != query.DefaultLimit {
		t.Errorf("limit = %d, want default", mock.last.Limit())
	}
}

func TestSearchBuilder_FullQuery(t *testing.T) {
	mock := &mockSearcher{}
	c := &Client{searchSvc: mock}

	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := c.Search("golang backend").
		Mode(ModeKeyword).
		Where("category", "tech").
		WhereIn("tags", "go", "redis").
		CreatedAfter(since).
		Limit(25).
		Offset(50).
		MinScore(0.4).
		NoInterpret().
		Do(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q := mock.last
	if q.Mode() != ModeKeyword {
		t.Errorf("mode = %s", q.Mode())
	}
	if q.Limit() != 25 || q.Offset() != 50 {
		t.Errorf("limit/offset = %d/%d", q.Limit(), q.Offset())
	}
	if q.MinScore() != 0.4 {
		t.Errorf("minScore = %g", q.MinScore())
	}
	if q.Interpret() {
		t.Error("interpretation should be off")
	}
	if got := len(q.Filters().Conditions()); got != 3 {
		t.Errorf("conditions = %d, want 3", got)
	}
}

func TestSearchBuilder_InvalidFilterField(t *testing.T) {
	c := &Client{searchSvc: &mockSearcher{}}

	_, err := c.Search("golang").Where("price", "100").Do(context.Background())
	if err == nil {
		t.Fatal("expected error for unknown filter field")
	}
}

func TestSearchBuilder_EmptyQueryText(t *testing.T) {
	c := &Client{searchSvc: &mockSearcher{}}

	_, err := c.Search("").Do(context.Background())
	if err == nil {
		t.Fatal("expected error for empty query text")
	}
}

func TestSearchBuilder_LimitOutOfRange(t *testing.T) {
	c := &Client{searchSvc: &mockSearcher{}}

	_, err := c.Search("golang").Limit(5000).Do(context.Background())
	if err == nil {
		t.Fatal("expected error for out-of-range limit")
	}
}
