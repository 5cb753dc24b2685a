package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"contentagent.app/errors"
)

// RedisStore is the shared cache tier. Expiration is delegated to Redis'
// native TTL; every network failure is logged and converted to a miss or
// no-op so that the surrounding cache stays best-effort.
type RedisStore struct {
	client    *redis.Client
	namespace string
	opTimeout time.Duration
}

// RedisStoreConfig holds connection settings for the shared tier.
type RedisStoreConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	// Namespace scopes Clear to this cache's keys. The remote store may be
	// shared with unrelated data, so Clear never flushes the whole database.
	Namespace string
}

// NewRedisStore connects to Redis and verifies the connection. A failed ping
// is returned as an error so the caller can degrade to local-only caching.
func NewRedisStore(config *RedisStoreConfig) (*RedisStore, error) {
	if config == nil {
		return nil, errors.NewConfigurationError("redis config cannot be nil", nil)
	}
	if config.Namespace == "" {
		return nil, errors.NewConfigurationError("redis cache namespace cannot be empty", nil)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	opTimeout := config.ReadTimeout
	if opTimeout <= 0 {
		opTimeout = 3 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.NewExternalAPIError("failed to connect to Redis", err)
	}

	slog.Info("redis cache connected", "addr", config.Addr, "namespace", config.Namespace)

	return &RedisStore{
		client:    client,
		namespace: config.Namespace,
		opTimeout: opTimeout,
	}, nil
}

// Get performs a network read. Any error other than a plain miss is logged
// and reported as a miss; it never propagates to the caller.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	val, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("redis get failed", "key", key, "error", err)
		}
		return nil, false
	}

	return val, true
}

// Set writes value with Redis' native expiring write. A zero TTL means
// already expired, so nothing is written (Redis would otherwise persist the
// key forever). Write failures are logged, not returned.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}
	if value == nil {
		return errors.NewValidationError("cache value cannot be nil")
	}
	if ttl < 0 {
		return errors.NewValidationError("cache TTL cannot be negative")
	}
	if ttl == 0 {
		return nil
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("redis set failed", "key", key, "error", err)
	}
	return nil
}

// Delete removes the key; failures are logged, not returned.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.NewValidationError("cache key cannot be empty")
	}

	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("redis delete failed", "key", key, "error", err)
	}
	return nil
}

// Clear removes every key under this cache's namespace. It deliberately
// scans instead of flushing: the Redis database may hold unrelated data.
func (s *RedisStore) Clear(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.namespace+"*", 0).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Warn("redis clear scan failed", "namespace", s.namespace, "error", err)
		return nil
	}

	if len(keys) > 0 {
		if err := s.client.Del(ctx, keys...).Err(); err != nil {
			slog.Warn("redis clear delete failed", "namespace", s.namespace, "error", err)
		}
	}
	return nil
}

// Ping checks whether the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.NewExternalAPIError("redis ping failed", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil {
		return errors.NewExternalAPIError("failed to close redis connection", err)
	}
	return nil
}

// opContext bounds a single Redis operation so a hung connection degrades to
// a miss instead of blocking the caller.
func (s *RedisStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}
