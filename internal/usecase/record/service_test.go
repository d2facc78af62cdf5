package record

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
)

// --- Mocks ---

type mockRepo struct {
	saveFn      func(ctx context.Context, rec *domrec.Record) (bool, error)
	saveMultiFn func(ctx context.Context, recs []domrec.Record) error
	getFn       func(ctx context.Context, id string) (domrec.Record, error)
	listFn      func(ctx context.Context, offset, limit int) ([]domrec.Record, int, error)

	saved      []domrec.Record
	savedMulti [][]domrec.Record
}

func (m *mockRepo) Save(ctx context.Context, rec *domrec.Record) (bool, error) {
	m.saved = append(m.saved, *rec)
	if m.saveFn == nil {
		return true, nil
	}
	return m.saveFn(ctx, rec)
}

func (m *mockRepo) SaveMulti(ctx context.Context, recs []domrec.Record) error {
	m.savedMulti = append(m.savedMulti, recs)
	if m.saveMultiFn == nil {
		return nil
	}
	return m.saveMultiFn(ctx, recs)
}

func (m *mockRepo) Get(ctx context.Context, id string) (domrec.Record, error) {
	if m.getFn == nil {
		return domrec.Record{}, domain.ErrRecordNotFound
	}
	return m.getFn(ctx, id)
}

func (m *mockRepo) List(ctx context.Context, offset, limit int) ([]domrec.Record, int, error) {
	if m.listFn == nil {
		return nil, 0, nil
	}
	return m.listFn(ctx, offset, limit)
}

func (m *mockRepo) Count(_ context.Context) (int, error) { return 0, nil }

type mockEmbedder struct {
	vec   []float32
	err   error
	calls atomic.Int32
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls.Add(1)
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

type mockCache struct {
	keys     []string
	scanErr  error
	patterns []string
	deleted  []string
}

func (m *mockCache) Scan(_ context.Context, pattern string) ([]string, error) {
	m.patterns = append(m.patterns, pattern)
	return m.keys, m.scanErr
}

func (m *mockCache) Del(_ context.Context, key string) error {
	m.deleted = append(m.deleted, key)
	return nil
}

func newTestService(repo *mockRepo, embed Embedder) *Service {
	return New(repo, embed, zap.NewNop())
}

func mustRecord(t *testing.T, title string) domrec.Record {
	t.Helper()
	rec, err := domrec.New(title, "desc", nil, nil, "tech", nil)
	if err != nil {
		t.Fatalf("domrec.New: %v", err)
	}
	return rec
}

// --- Tests ---

func TestCreate_StoresVectorizedRecord(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := newTestService(repo, embed)

	rec, err := svc.Create(context.Background(), Input{
		Title: "Python Engineer", Description: "Backend role", Category: "tech",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID() == "" {
		t.Error("record has no id")
	}
	if len(rec.Embedding()) != 2 {
		t.Errorf("embedding = %v, want vectorized", rec.Embedding())
	}
	if len(repo.saved) != 1 {
		t.Fatalf("saved %d records, want 1", len(repo.saved))
	}
}

func TestCreate_EmbeddingFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := newTestService(repo, embed)

	rec, err := svc.Create(context.Background(), Input{Title: "t"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(rec.Embedding()) != 0 {
		t.Errorf("embedding = %v, want none", rec.Embedding())
	}
	if len(repo.saved) != 1 {
		t.Fatal("record must still be stored")
	}
}

func TestCreate_InvalidInput(t *testing.T) {
	svc := newTestService(&mockRepo{}, nil)

	if _, err := svc.Create(context.Background(), Input{}); err == nil {
		t.Fatal("expected validation error for empty title")
	}
}

func TestGet_DeletedRecordReadsAsMissing(t *testing.T) {
	deleted := mustRecord(t, "gone").MarkDeleted()
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domrec.Record, error) {
		return deleted, nil
	}}
	svc := newTestService(repo, nil)

	_, err := svc.Get(context.Background(), deleted.ID())
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Get() error = %v, want ErrRecordNotFound", err)
	}
}

func TestUpdate_TextPatchRevectorizes(t *testing.T) {
	existing := mustRecord(t, "old title")
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domrec.Record, error) {
		return existing, nil
	}}
	embed := &mockEmbedder{vec: []float32{1}}
	svc := newTestService(repo, embed)

	title := "new title"
	rec, err := svc.Update(context.Background(), existing.ID(), domrec.Patch{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if rec.Title() != "new title" {
		t.Errorf("title = %q", rec.Title())
	}
	if embed.calls.Load() != 1 {
		t.Errorf("embed calls = %d, want 1", embed.calls.Load())
	}
	if len(rec.Embedding()) != 1 {
		t.Error("patched record not re-vectorized")
	}
}

func TestUpdate_MetadataPatchSkipsEmbedding(t *testing.T) {
	existing := mustRecord(t, "title")
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domrec.Record, error) {
		return existing, nil
	}}
	embed := &mockEmbedder{vec: []float32{1}}
	svc := newTestService(repo, embed)

	meta := map[string]any{"source": "import"}
	if _, err := svc.Update(context.Background(), existing.ID(), domrec.Patch{Metadata: &meta}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if embed.calls.Load() != 0 {
		t.Errorf("embed calls = %d, want 0", embed.calls.Load())
	}
}

func TestDelete_SoftDeletes(t *testing.T) {
	existing := mustRecord(t, "title")
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domrec.Record, error) {
		return existing, nil
	}}
	svc := newTestService(repo, nil)

	if err := svc.Delete(context.Background(), existing.ID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatal("soft delete must write the record back")
	}
	if !repo.saved[0].IsDeleted() {
		t.Error("record not marked deleted")
	}
}

func TestDelete_MissingRecord(t *testing.T) {
	svc := newTestService(&mockRepo{}, nil)

	err := svc.Delete(context.Background(), "nope")
	if !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("Delete() error = %v, want ErrRecordNotFound", err)
	}
}

func TestWrites_PurgeSearchCache(t *testing.T) {
	existing := mustRecord(t, "title")
	repo := &mockRepo{getFn: func(_ context.Context, _ string) (domrec.Record, error) {
		return existing, nil
	}}
	cache := &mockCache{keys: []string{
		domain.SearchCacheKeyPrefix + "a",
		domain.SearchCacheKeyPrefix + "b",
	}}
	svc := newTestService(repo, nil).WithSearchCache(cache)

	if _, err := svc.Create(context.Background(), Input{Title: "t"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Update(context.Background(), existing.ID(), domrec.Patch{}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if err := svc.Delete(context.Background(), existing.ID()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if len(cache.patterns) != 3 {
		t.Fatalf("scanned %d times, want once per write", len(cache.patterns))
	}
	if cache.patterns[0] != domain.SearchCacheKeyPrefix+"*" {
		t.Errorf("scan pattern = %q", cache.patterns[0])
	}
	if len(cache.deleted) != 6 {
		t.Errorf("deleted %d keys, want every cached key per write", len(cache.deleted))
	}
}

func TestCreate_CacheScanFailureIsNotFatal(t *testing.T) {
	repo := &mockRepo{}
	cache := &mockCache{scanErr: errors.New("conn reset")}
	svc := newTestService(repo, nil).WithSearchCache(cache)

	if _, err := svc.Create(context.Background(), Input{Title: "t"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(repo.saved) != 1 {
		t.Fatal("write must stand when invalidation fails")
	}
	if len(cache.deleted) != 0 {
		t.Errorf("deleted = %v, want none after scan failure", cache.deleted)
	}
}

func TestList_ClampsPagination(t *testing.T) {
	var gotOffset, gotLimit int
	repo := &mockRepo{listFn: func(_ context.Context, offset, limit int) ([]domrec.Record, int, error) {
		gotOffset, gotLimit = offset, limit
		return nil, 7, nil
	}}
	svc := newTestService(repo, nil)

	page, err := svc.List(context.Background(), -3, 500)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if gotOffset != 0 {
		t.Errorf("offset = %d, want clamped to 0", gotOffset)
	}
	if gotLimit != 100 {
		t.Errorf("limit = %d, want max page size 100", gotLimit)
	}
	if page.Total != 7 {
		t.Errorf("total = %d, want 7", page.Total)
	}
}

func TestList_DefaultLimit(t *testing.T) {
	var gotLimit int
	repo := &mockRepo{listFn: func(_ context.Context, _, limit int) ([]domrec.Record, int, error) {
		gotLimit = limit
		return nil, 0, nil
	}}
	svc := newTestService(repo, nil)

	if _, err := svc.List(context.Background(), 0, 0); err != nil {
		t.Fatal(err)
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want default 20", gotLimit)
	}
}

// --- Bulk ---

func newTestBulk(t *testing.T, repo *mockRepo, embed Embedder) *BulkService {
	t.Helper()
	svc, err := NewBulk(repo, embed, 4, zap.NewNop())
	if err != nil {
		t.Fatalf("NewBulk: %v", err)
	}
	t.Cleanup(svc.Release)
	return svc
}

func TestBulkInsert_AllValid(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{1}}
	svc := newTestBulk(t, repo, embed)

	results := svc.Insert(context.Background(), []Input{
		{Title: "a"}, {Title: "b"}, {Title: "c"},
	})

	for i, r := range results {
		if r.Err != nil {
			t.Errorf("item %d: %v", i, r.Err)
		}
		if r.ID == "" {
			t.Errorf("item %d has no id", i)
		}
	}
	if len(repo.savedMulti) != 1 || len(repo.savedMulti[0]) != 3 {
		t.Fatalf("expected one pipelined write of 3 records, got %v", repo.savedMulti)
	}
	for _, rec := range repo.savedMulti[0] {
		if len(rec.Embedding()) == 0 {
			t.Errorf("record %s stored without embedding", rec.ID())
		}
	}
}

func TestBulkInsert_PerItemValidation(t *testing.T) {
	repo := &mockRepo{}
	svc := newTestBulk(t, repo, nil)

	results := svc.Insert(context.Background(), []Input{
		{Title: "ok"}, {Title: ""},
	})

	if results[0].Err != nil {
		t.Errorf("valid item failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("invalid item must carry its error")
	}
	if len(repo.savedMulti) != 1 || len(repo.savedMulti[0]) != 1 {
		t.Fatalf("only the valid record must be written, got %v", repo.savedMulti)
	}
}

func TestBulkInsert_SizeLimit(t *testing.T) {
	svc := newTestBulk(t, &mockRepo{}, nil)

	items := make([]Input, MaxBulkSize+1)
	for i := range items {
		items[i] = Input{Title: "t"}
	}

	results := svc.Insert(context.Background(), items)
	for i, r := range results {
		if !errors.Is(r.Err, domain.ErrInvalidQuery) {
			t.Fatalf("item %d error = %v, want size limit error", i, r.Err)
		}
	}
}

func TestBulkInsert_EmbeddingFailuresAreBestEffort(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := newTestBulk(t, repo, embed)

	results := svc.Insert(context.Background(), []Input{{Title: "a"}})

	if results[0].Err != nil {
		t.Fatalf("embedding failure must not fail the item: %v", results[0].Err)
	}
	if len(repo.savedMulti[0][0].Embedding()) != 0 {
		t.Error("record should be stored without an embedding")
	}
}

func TestBulkInsert_SaveFailureMarksAllItems(t *testing.T) {
	repo := &mockRepo{saveMultiFn: func(_ context.Context, _ []domrec.Record) error {
		return errors.New("pipeline failed")
	}}
	svc := newTestBulk(t, repo, nil)

	results := svc.Insert(context.Background(), []Input{{Title: "a"}, {Title: "b"}})
	for i, r := range results {
		if r.Err == nil {
			t.Errorf("item %d should carry the write error", i)
		}
	}
}
