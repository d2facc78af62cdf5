package domain

import "errors"

var (
	// ErrRecordNotFound signals a missing record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAlreadyExists signals a duplicate record identifier.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidQuery signals malformed search parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidFilter signals an unsupported filter field or operator.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrRetrievalFailed signals that the keyword strategy, the fallback of
	// last resort, could not reach the store.
	ErrRetrievalFailed = errors.New("retrieval failed")
	// ErrOracleUnavailable signals an LLM oracle failure. It never escapes the
	// interpreter layer; callers receive degraded output instead.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)

// KeyPrefix namespaces every key this service writes to the store.
const KeyPrefix = "dataseek:"

// SearchCacheKeyPrefix namespaces cached search responses. Record writes
// purge this keyspace so cached pages never outlive the data they show.
const SearchCacheKeyPrefix = KeyPrefix + "search_cache:"
