package record

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
)

// Service handles record CRUD with best-effort vectorization: an embedding
// failure leaves the record searchable by text and is never fatal to the
// write.
type Service struct {
	repo            Repository
	embed           Embedder
	cache           SearchCache
	logger          *zap.Logger
	defaultPageSize int
	maxPageSize     int
}

// New creates a record service. embed may be nil; records are then stored
// without vectors and semantic search scores them by token similarity.
func New(repo Repository, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		repo:            repo,
		embed:           embed,
		logger:          logger,
		defaultPageSize: 20,
		maxPageSize:     100,
	}
}

// WithSearchCache enables best-effort purging of cached search responses
// after every successful write.
func (s *Service) WithSearchCache(cache SearchCache) *Service {
	s.cache = cache
	return s
}

// WithPagination configures page size limits.
func (s *Service) WithPagination(defaultPageSize, maxPageSize int) *Service {
	if defaultPageSize > 0 {
		s.defaultPageSize = defaultPageSize
	}
	if maxPageSize > 0 {
		s.maxPageSize = maxPageSize
	}
	return s
}

// Input carries the caller-supplied fields of a new record.
type Input struct {
	Title       string
	Description string
	Content     map[string]any
	Tags        []string
	Category    string
	Metadata    map[string]any
}

// Create stores a new record, deriving its search text and keywords and
// vectorizing it best-effort.
func (s *Service) Create(ctx context.Context, in Input) (domrec.Record, error) {
	rec, err := domrec.New(in.Title, in.Description, in.Content, in.Tags, in.Category, in.Metadata)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("new record: %w", err)
	}

	rec = s.vectorize(ctx, rec)

	if _, err := s.repo.Save(ctx, &rec); err != nil {
		return domrec.Record{}, fmt.Errorf("save record: %w", err)
	}
	purgeSearchCache(ctx, s.cache, s.logger)
	return rec, nil
}

// Get retrieves a record by ID. Soft-deleted records read as missing.
func (s *Service) Get(ctx context.Context, id string) (domrec.Record, error) {
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("get record: %w", err)
	}
	if rec.IsDeleted() {
		return domrec.Record{}, domain.ErrRecordNotFound
	}
	return rec, nil
}

// Update applies a partial patch. A patch touching the text fields re-derives
// search text and keywords and re-vectorizes best-effort.
func (s *Service) Update(ctx context.Context, id string, p domrec.Patch) (domrec.Record, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return domrec.Record{}, err
	}

	updated, err := rec.Apply(p)
	if err != nil {
		return domrec.Record{}, fmt.Errorf("apply patch: %w", err)
	}

	if p.TouchesText() {
		updated = s.vectorize(ctx, updated)
	}

	if _, err := s.repo.Save(ctx, &updated); err != nil {
		return domrec.Record{}, fmt.Errorf("save record: %w", err)
	}
	purgeSearchCache(ctx, s.cache, s.logger)
	return updated, nil
}

// Delete soft-deletes a record; every search and read path excludes it from
// then on. Deleting a missing or already-deleted record reports not found.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	deleted := rec.MarkDeleted()
	if _, err := s.repo.Save(ctx, &deleted); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	purgeSearchCache(ctx, s.cache, s.logger)
	return nil
}

// Page is a paginated record listing.
type Page struct {
	Records []domrec.Record
	Total   int
	Offset  int
	Limit   int
}

// List returns active records newest first.
func (s *Service) List(ctx context.Context, offset, limit int) (Page, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = s.defaultPageSize
	}
	if limit > s.maxPageSize {
		limit = s.maxPageSize
	}

	recs, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return Page{}, fmt.Errorf("list records: %w", err)
	}
	return Page{Records: recs, Total: total, Offset: offset, Limit: limit}, nil
}

// purgeSearchCache drops every cached search response so a fresh write is
// visible immediately. Invalidation is advisory: failures are logged and the
// write stands.
func purgeSearchCache(ctx context.Context, cache SearchCache, logger *zap.Logger) {
	if cache == nil {
		return
	}

	keys, err := cache.Scan(ctx, domain.SearchCacheKeyPrefix+"*")
	if err != nil {
		logger.Warn("search cache scan failed, skipping invalidation", zap.Error(err))
		return
	}
	for _, key := range keys {
		if err := cache.Del(ctx, key); err != nil {
			logger.Warn("search cache purge failed",
				zap.String("key", key),
				zap.Error(err),
			)
		}
	}
}

// vectorize embeds the record's search text. Failures are logged and the
// record keeps going without a vector.
func (s *Service) vectorize(ctx context.Context, rec domrec.Record) domrec.Record {
	if s.embed == nil {
		return rec
	}

	res, err := s.embed.Embed(ctx, rec.SearchText())
	if err != nil {
		s.logger.Warn("record vectorization failed, storing without embedding",
			zap.String("record_id", rec.ID()),
			zap.Error(err),
		)
		return rec
	}
	return rec.WithEmbedding(res.Embedding)
}
