package record

import (
	"context"
	"errors"
	"fmt"

	"github.com/morainelabs/dataseek/internal/db"
	"github.com/morainelabs/dataseek/internal/domain"
)

// IndexName is the FT index over record documents.
var IndexName = domain.KeyPrefix + "records:idx"

// KeyPrefix is the key namespace of record documents.
var KeyPrefix = domain.KeyPrefix + "record:"

// buildIndex defines the FT schema over record JSON documents: TEXT over the
// searchable fields, TAG over the discrete ones, NUMERIC over the unix
// timestamps.
func buildIndex() *db.IndexDefinition {
	return db.NewIndex(IndexName).
		OnJSON().
		Prefix(KeyPrefix).
		Text("$.title", "title").
		Text("$.description", "description").
		Text("$.search_text", "search_text").
		Tag("$.category", "category").
		Tag("$.status", "status").
		TagWithOpts("$.tags[*]", "tags", ",", false).
		SortableNumeric("$.created_ts", "created_ts").
		Numeric("$.updated_ts", "updated_ts").
		MustBuild()
}

// EnsureIndex creates the record index when absent. Safe to call on every
// startup.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	err := r.store.CreateIndex(ctx, buildIndex())
	if err != nil && !errors.Is(err, db.ErrIndexExists) {
		return fmt.Errorf("create record index: %w", err)
	}
	return nil
}
