package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/domain"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
)

// MaxBulkSize is the maximum number of items per bulk request.
const MaxBulkSize = 100

// BulkResult reports the outcome of one bulk item. Err is nil on success.
type BulkResult struct {
	ID  string
	Err error
}

// BulkService ingests record batches, embedding items concurrently through a
// shared worker pool and persisting the batch in one pipelined write.
type BulkService struct {
	repo    Repository
	embed   Embedder
	cache   SearchCache
	pool    *ants.Pool
	logger  *zap.Logger
	maxSize int
}

// NewBulk creates a bulk ingestion service with a worker pool of the given
// size (minimum 1).
func NewBulk(repo Repository, embed Embedder, poolSize int, logger *zap.Logger) (*BulkService, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	return &BulkService{
		repo:    repo,
		embed:   embed,
		pool:    pool,
		logger:  logger,
		maxSize: MaxBulkSize,
	}, nil
}

// WithSearchCache enables best-effort purging of cached search responses
// after a successful batch write.
func (s *BulkService) WithSearchCache(cache SearchCache) *BulkService {
	s.cache = cache
	return s
}

// Release frees the worker pool. The service must not be used afterwards.
func (s *BulkService) Release() {
	s.pool.Release()
}

// Insert validates and stores a batch of records with per-item outcomes.
// Embedding runs concurrently and is best-effort per item; valid records are
// persisted in a single pipelined write.
func (s *BulkService) Insert(ctx context.Context, items []Input) []BulkResult {
	results := make([]BulkResult, len(items))

	if len(items) > s.maxSize {
		for i := range items {
			results[i] = BulkResult{Err: fmt.Errorf("bulk size exceeds %d: %w", s.maxSize, domain.ErrInvalidQuery)}
		}
		return results
	}

	recs := make([]domrec.Record, len(items))
	valid := make([]bool, len(items))
	for i, in := range items {
		rec, err := domrec.New(in.Title, in.Description, in.Content, in.Tags, in.Category, in.Metadata)
		if err != nil {
			results[i] = BulkResult{Err: fmt.Errorf("new record: %w", err)}
			continue
		}
		recs[i] = rec
		valid[i] = true
	}

	s.vectorizeAll(ctx, recs, valid)

	batch := make([]domrec.Record, 0, len(recs))
	batchIdx := make([]int, 0, len(recs))
	for i := range recs {
		if !valid[i] {
			continue
		}
		batch = append(batch, recs[i])
		batchIdx = append(batchIdx, i)
	}
	if len(batch) == 0 {
		return results
	}

	if err := s.repo.SaveMulti(ctx, batch); err != nil {
		for _, i := range batchIdx {
			results[i] = BulkResult{ID: recs[i].ID(), Err: fmt.Errorf("bulk save: %w", err)}
		}
		return results
	}

	purgeSearchCache(ctx, s.cache, s.logger)

	for _, i := range batchIdx {
		results[i] = BulkResult{ID: recs[i].ID()}
	}
	return results
}

// vectorizeAll embeds every valid record through the worker pool. Embedding
// failures are logged per item and the record is stored without a vector.
func (s *BulkService) vectorizeAll(ctx context.Context, recs []domrec.Record, valid []bool) {
	if s.embed == nil {
		return
	}

	var wg sync.WaitGroup
	for i := range recs {
		if !valid[i] {
			continue
		}
		i := i
		wg.Add(1)
		task := func() {
			defer wg.Done()
			res, err := s.embed.Embed(ctx, recs[i].SearchText())
			if err != nil {
				s.logger.Warn("bulk vectorization failed, storing without embedding",
					zap.String("record_id", recs[i].ID()),
					zap.Error(err),
				)
				return
			}
			recs[i] = recs[i].WithEmbedding(res.Embedding)
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool released or overloaded; run inline rather than drop the item.
			task()
		}
	}
	wg.Wait()
}
