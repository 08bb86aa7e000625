// Package cache defines the port interface for caching rendered documents.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RenderKey builds the cache key for a rendered document. The fingerprint
// makes stale entries unreachable after a recompile, so no invalidation is needed.
func RenderKey(id, format, fingerprint string) string {
	return id + ":" + format + ":" + fingerprint
}
