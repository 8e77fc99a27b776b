// Package cachemanager provides a generic in-memory cache used for
// resolved-path caching in the registry.
package cachemanager

import (
	"context"
	"time"
)

// NoExpiration marks an entry that never expires on its own; it lives until
// the cache owner is discarded or the entry is deleted explicitly.
const NoExpiration time.Duration = -1

type CacheManager[K ~string, V any] interface {
	Get(ctx context.Context, key K) (V, bool)
	GetWithRefresh(ctx context.Context, key K, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key K, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...K) error
	Flush(ctx context.Context) error
}
