package search

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/morainelabs/dataseek/internal/db"
	rec "github.com/morainelabs/dataseek/internal/domain/record"
	recrepo "github.com/morainelabs/dataseek/internal/repository/record"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn       func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	supportsTextFn func(ctx context.Context) bool
}

func (m *mockStore) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SupportsTextSearch(ctx context.Context) bool {
	if m.supportsTextFn != nil {
		return m.supportsTextFn(ctx)
	}
	return true
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

// entryFor builds a db.SearchEntry carrying the given record as a JSON doc.
func entryFor(t *testing.T, title string, score float64) db.SearchEntry {
	t.Helper()
	record, err := rec.New(title, "test description", nil, []string{"test"}, "samples", nil)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}

	// round-trip through the stored doc shape
	stored, err := json.Marshal(map[string]any{
		"id": record.ID(), "title": record.Title(), "description": record.Description(),
		"tags": record.Tags(), "category": record.Category(), "status": string(record.Status()),
		"search_text": record.SearchText(), "keywords": record.Keywords(),
		"created_at": record.CreatedAt(), "updated_at": record.UpdatedAt(),
		"created_ts": record.CreatedAt().Unix(), "updated_ts": record.UpdatedAt().Unix(),
	})
	if err != nil {
		t.Fatalf("marshal doc: %v", err)
	}

	return db.SearchEntry{
		Key:    recrepo.Key(record.ID()),
		Score:  score,
		Fields: map[string]string{"$": string(stored)},
	}
}
