package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/morainelabs/dataseek/internal/db"
	"github.com/morainelabs/dataseek/internal/domain"
	rec "github.com/morainelabs/dataseek/internal/domain/record"
)

// store is the consumer interface for record persistence (ISP).
type store interface {
	JSONSet(ctx context.Context, key, path string, data []byte) error
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// Repo implements usecase/record.Repository.
type Repo struct {
	store store
}

// New creates a record repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save creates or updates a record document. Returns true if created.
func (r *Repo) Save(ctx context.Context, record *rec.Record) (bool, error) {
	key := Key(record.ID())
	data, err := json.Marshal(buildDoc(record))
	if err != nil {
		return false, fmt.Errorf("marshal record: %w", err)
	}

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	if err := r.store.JSONSet(ctx, key, "$", data); err != nil {
		return false, fmt.Errorf("json.set %s: %w", key, err)
	}

	return !exists, nil
}

// SaveMulti stores a batch of records in a single pipelined round-trip.
func (r *Repo) SaveMulti(ctx context.Context, records []rec.Record) error {
	if len(records) == 0 {
		return nil
	}

	items := make([]db.JSONSetItem, len(records))
	for i := range records {
		data, err := json.Marshal(buildDoc(&records[i]))
		if err != nil {
			return fmt.Errorf("marshal record %s: %w", records[i].ID(), err)
		}
		items[i] = db.JSONSetItem{Key: Key(records[i].ID()), Path: "$", Data: data}
	}

	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return fmt.Errorf("json.set multi: %w", err)
	}
	return nil
}

// Get returns a record by id. Soft-deleted records are returned; callers
// needing live records check Status themselves.
func (r *Repo) Get(ctx context.Context, id string) (rec.Record, error) {
	key := Key(id)
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return rec.Record{}, domain.ErrRecordNotFound
		}
		return rec.Record{}, fmt.Errorf("json.get %s: %w", key, err)
	}
	return DecodeDoc(raw)
}

// List returns active records ordered by creation time descending.
func (r *Repo) List(ctx context.Context, offset, limit int) ([]rec.Record, int, error) {
	result, err := r.store.Search(ctx, &db.TextQuery{
		IndexName: IndexName,
		Query:     liveQuery,
		SortBy:    "created_ts",
		SortDesc:  true,
		Offset:    offset,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	if result == nil || result.Total == 0 {
		return nil, 0, nil
	}

	records := make([]rec.Record, 0, len(result.Entries))
	for _, entry := range result.Entries {
		doc := entry.Document()
		if doc == nil {
			continue
		}
		parsed, err := DecodeDoc(doc)
		if err != nil {
			continue
		}
		records = append(records, parsed)
	}
	return records, result.Total, nil
}

// Count returns the number of active records.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName, liveQuery)
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// liveQuery matches every non-deleted record.
const liveQuery = "-@status:{deleted}"

// Key returns the storage key of a record id.
func Key(id string) string {
	return KeyPrefix + id
}

// IDFromKey strips the key prefix back off.
func IDFromKey(key string) string {
	return strings.TrimPrefix(key, KeyPrefix)
}
