package cache

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"contentagent.app/errors"
)

// TieredCache composes the local and shared tiers behind one get/set/delete/
// clear surface and owns key namespacing. Values are serialized as JSON: it
// round-trips the text and nested structures this tool caches, and a corrupt
// or adversarial payload read back from the shared store is inert data, never
// executable.
type TieredCache struct {
	local      Store
	shared     Store // nil when no shared tier is configured
	namespace  string
	defaultTTL time.Duration
}

// NewTieredCache builds a cache over the given tiers. shared may be nil, in
// which case the cache behaves identically with only the local tier.
// defaultTTL is used when promoting shared-tier hits into the local tier.
func NewTieredCache(local Store, shared Store, namespace string, defaultTTL time.Duration) (*TieredCache, error) {
	if local == nil {
		return nil, errors.NewConfigurationError("local cache tier cannot be nil", nil)
	}
	if namespace == "" {
		return nil, errors.NewConfigurationError("cache namespace cannot be empty", nil)
	}
	if defaultTTL <= 0 {
		return nil, errors.NewConfigurationError("cache default TTL must be positive", nil)
	}

	return &TieredCache{
		local:      local,
		shared:     shared,
		namespace:  namespace,
		defaultTTL: defaultTTL,
	}, nil
}

// DefaultTTL returns the TTL applied when the caller has no specific one.
func (c *TieredCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

// Get looks key up in the local tier, then the shared tier. A shared-tier hit
// is promoted into the local tier so later lookups skip the network. On a hit
// the stored value is unmarshaled into dest and true is returned.
func (c *TieredCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if key == "" {
		return false, errors.NewValidationError("cache key cannot be empty")
	}
	if dest == nil {
		return false, errors.NewValidationError("cache destination cannot be nil")
	}

	nsKey := c.namespacedKey(key)

	if data, found := c.local.Get(ctx, nsKey); found {
		if err := json.Unmarshal(data, dest); err != nil {
			slog.Warn("corrupt local cache entry, treating as miss", "key", key, "error", err)
		} else {
			return true, nil
		}
	}

	if c.shared == nil {
		return false, nil
	}

	data, found := c.shared.Get(ctx, nsKey)
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("corrupt shared cache entry, treating as miss", "key", key, "error", err)
		return false, nil
	}

	// Write-through on read: populate the local tier with the shared hit.
	if err := c.local.Set(ctx, nsKey, data, c.defaultTTL); err != nil {
		slog.Warn("failed to promote shared cache hit", "key", key, "error", err)
	}

	return true, nil
}

// Set serializes value and writes it to the local tier and, when configured,
// the shared tier. A shared-tier failure never undoes the local write.
func (c *TieredCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if ttl < 0 {
		return errors.NewValidationError("cache TTL cannot be negative")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.NewSerializationError("failed to serialize cache value", err)
	}

	nsKey := c.namespacedKey(key)

	if err := c.local.Set(ctx, nsKey, data, ttl); err != nil {
		return err
	}

	if c.shared != nil {
		if err := c.shared.Set(ctx, nsKey, data, ttl); err != nil {
			slog.Warn("shared cache set failed", "key", key, "error", err)
		}
	}

	return nil
}

// Delete removes key from both tiers; a shared-tier failure does not block
// the local-side effect.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	nsKey := c.namespacedKey(key)

	if err := c.local.Delete(ctx, nsKey); err != nil {
		return err
	}
	if c.shared != nil {
		if err := c.shared.Delete(ctx, nsKey); err != nil {
			slog.Warn("shared cache delete failed", "key", key, "error", err)
		}
	}
	return nil
}

// Clear empties both tiers independently.
func (c *TieredCache) Clear(ctx context.Context) error {
	if err := c.local.Clear(ctx); err != nil {
		return err
	}
	if c.shared != nil {
		if err := c.shared.Clear(ctx); err != nil {
			slog.Warn("shared cache clear failed", "error", err)
		}
	}
	return nil
}

// Close releases tier resources that hold connections, such as the Redis
// client behind the shared tier.
func (c *TieredCache) Close() error {
	var firstErr error
	for _, tier := range []Store{c.local, c.shared} {
		closer, ok := tier.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c *TieredCache) namespacedKey(key string) string {
	return c.namespace + key
}
