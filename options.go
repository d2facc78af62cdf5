package dataseek

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	readinessTimeout time.Duration

	embedder Embedder
	oracle   Oracle

	responseCacheTTL time.Duration
	bulkPoolSize     int
	defaultPageSize  int
	maxPageSize      int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithEmbedder sets the text embedding provider. Without one, semantic
// search falls back to token-overlap scoring.
func WithEmbedder(e Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithOracle sets the chat completion provider used for query
// interpretation, suggestions and insights. Optional.
func WithOracle(o Oracle) Option {
	return func(c *clientConfig) {
		c.oracle = o
	}
}

// WithReadinessTimeout sets how long New waits for the database.
// Defaults to 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.readinessTimeout = d
	}
}

// WithResponseCacheTTL sets the TTL of the advisory search response cache.
// Zero disables caching. Defaults to 5 minutes.
func WithResponseCacheTTL(d time.Duration) Option {
	return func(c *clientConfig) {
		c.responseCacheTTL = d
	}
}

// WithBulkPoolSize sets the embedding worker pool size for bulk ingestion.
// Defaults to 8.
func WithBulkPoolSize(n int) Option {
	return func(c *clientConfig) {
		c.bulkPoolSize = n
	}
}

// WithPagination sets default and maximum page sizes for record listing.
// Defaults: 20 and 100.
func WithPagination(defaultSize, maxSize int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	}
}

// WithLogger sets the logger. Defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = l
	}
}
