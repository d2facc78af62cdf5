package record

import (
	"context"

	"github.com/morainelabs/dataseek/internal/domain"
	domrec "github.com/morainelabs/dataseek/internal/domain/record"
)

// Repository defines the storage contract for record operations.
type Repository interface {
	Save(ctx context.Context, rec *domrec.Record) (bool, error)
	SaveMulti(ctx context.Context, recs []domrec.Record) error
	Get(ctx context.Context, id string) (domrec.Record, error)
	List(ctx context.Context, offset, limit int) ([]domrec.Record, int, error)
	Count(ctx context.Context) (int, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// SearchCache is the keyspace holding cached search responses. Writes purge
// it so stale pages never survive a record change.
type SearchCache interface {
	Scan(ctx context.Context, pattern string) ([]string, error)
	Del(ctx context.Context, key string) error
}
