// Package dataseek provides an embedded Go client for the dataseek hybrid
// search engine backed by Redis with search modules.
//
//	client, _ := dataseek.New(
//	    dataseek.WithRedis("localhost:6379", ""),
//	)
//	defer client.Close()
//
//	id, _ := client.CreateRecord(ctx, dataseek.RecordInput{Title: "Go engineer"})
//	resp, _ := client.Search("golang backend").Mode(dataseek.ModeHybrid).Limit(10).Do(ctx)
package dataseek

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/morainelabs/dataseek/internal/db"
	dbRedis "github.com/morainelabs/dataseek/internal/db/redis"
	"github.com/morainelabs/dataseek/internal/domain"
	"github.com/morainelabs/dataseek/internal/domain/search/query"
	"github.com/morainelabs/dataseek/internal/domain/search/response"
	recordrepo "github.com/morainelabs/dataseek/internal/repository/record"
	searchrepo "github.com/morainelabs/dataseek/internal/repository/search"
	interpretuc "github.com/morainelabs/dataseek/internal/usecase/interpret"
	recorduc "github.com/morainelabs/dataseek/internal/usecase/record"
	searchuc "github.com/morainelabs/dataseek/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultResponseCacheTTL = 5 * time.Minute
	defaultBulkPoolSize     = 8
)

// EmbeddingResult carries the embedding vector and token usage.
type EmbeddingResult = domain.EmbeddingResult

// Embedder is the text vectorization provider contract.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// Oracle is the chat completion provider contract.
type Oracle interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// searcher is the search entry point, narrowed for tests.
type searcher interface {
	Search(ctx context.Context, q query.Query) response.Response
}

// Client is the dataseek SDK entry point.
type Client struct {
	store     db.Store
	searchSvc searcher
	recordSvc *recorduc.Service
	bulkSvc   *recorduc.BulkService
	interp    *interpretuc.Service
}

// New creates a dataseek Client and connects to the database.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		responseCacheTTL: defaultResponseCacheTTL,
		bulkPoolSize:     defaultBulkPoolSize,
	}
	for _, o := range opts {
		o(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if len(cfg.addrs) == 0 {
		return nil, errors.New("dataseek: no database address, use WithRedis")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}

	ctx := context.Background()
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}

	c, err := wireClient(store, cfg)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func wireClient(store db.Store, cfg *clientConfig) (*Client, error) {
	recRepo := recordrepo.New(store)
	if err := recRepo.EnsureIndex(context.Background()); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}
	searchRepo := searchrepo.New(store)

	var embedder domain.Embedder
	if cfg.embedder != nil {
		embedder = &embedderAdapter{inner: cfg.embedder}
	}

	var interp *interpretuc.Service
	if cfg.oracle != nil {
		interp = interpretuc.New(cfg.oracle, cfg.logger)
	}

	var cache searchuc.ResponseCache
	if cfg.responseCacheTTL > 0 {
		cache = store
	}

	var searchInterp searchuc.Interpreter
	if interp != nil {
		searchInterp = interp
	}

	searchSvc := searchuc.New(
		searchRepo, embedder, searchInterp, cache, cfg.responseCacheTTL, cfg.logger,
	)
	recordSvc := recorduc.New(recRepo, embedder, cfg.logger).
		WithPagination(cfg.defaultPageSize, cfg.maxPageSize).
		WithSearchCache(store)
	bulkSvc, err := recorduc.NewBulk(recRepo, embedder, cfg.bulkPoolSize, cfg.logger)
	if err != nil {
		return nil, fmt.Errorf("create bulk service: %w", err)
	}
	bulkSvc = bulkSvc.WithSearchCache(store)

	return &Client{
		store:     store,
		searchSvc: searchSvc,
		recordSvc: recordSvc,
		bulkSvc:   bulkSvc,
		interp:    interp,
	}, nil
}

// Close releases the bulk worker pool and the database connection.
func (c *Client) Close() {
	if c.bulkSvc != nil {
		c.bulkSvc.Release()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	return c.store.Ping(ctx)
}

// SuggestQueries returns up to n query suggestions for the given input.
// Returns nil when no oracle is configured.
func (c *Client) SuggestQueries(ctx context.Context, q string, n int) []string {
	if c.interp == nil {
		return nil
	}
	return c.interp.Suggest(ctx, q, n)
}

// embedderAdapter bridges the public Embedder to the internal contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return res, nil
}
