package domain

import "context"

// CacheKey is the composite key of one cached provider payload.
type CacheKey struct {
	Provider string
	ID       string
	DataType string
}

// FillFunc produces a payload for a cache key on miss, typically by hitting
// the network.
type FillFunc func(ctx context.Context) ([]byte, error)

// CacheRepo is a TTL-bounded byte store for raw provider payloads. It never
// parses its payloads.
type CacheRepo interface {
	// Get returns the payload for key, or ErrCacheMiss when no entry exists
	// or the entry is older than the TTL. Stale data is never returned.
	Get(ctx context.Context, key CacheKey) ([]byte, error)

	// Set upserts the payload for key, replacing any prior entry and its
	// timestamp.
	Set(ctx context.Context, key CacheKey, data []byte) error

	// Fetch wraps one get-then-maybe-fill-then-set sequence. A fill error
	// propagates unchanged and causes no cache write.
	Fetch(ctx context.Context, key CacheKey, fill FillFunc) ([]byte, error)
}
