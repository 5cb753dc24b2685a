// Package cache implements the tiered result cache: a size-bounded in-process
// tier backed by an optional shared Redis tier. Both tiers store serialized
// bytes; expiry is lazy and eviction is LRU. Backend unreliability never
// reaches callers - the cache is a best-effort accelerator, not a dependency.
package cache

import (
	"context"
	"time"
)

// Store defines the byte-level contract implemented by each cache tier.
// Only programmer errors (empty key, nil value, negative TTL) are returned;
// backend failures are absorbed inside the tier and reported as misses.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
