package cache

import (
	"context"
	"io"
	"log/slog"
	"time"

	"contentagent.app/metrics"
)

// InstrumentedStore decorates a tier with hit/miss counters and operation
// latency histograms, labeled by tier name.
type InstrumentedStore struct {
	store   Store
	metrics *metrics.CacheMetrics
}

func NewInstrumentedStore(store Store, tier string) *InstrumentedStore {
	return &InstrumentedStore{
		store:   store,
		metrics: metrics.NewCacheMetrics(tier),
	}
}

func (c *InstrumentedStore) measureLatency(operation string, fn func()) {
	start := time.Now()
	fn()
	latency := time.Since(start).Seconds()
	c.metrics.RecordLatency(operation, latency)
}

func (c *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool) {
	var data []byte
	var found bool

	c.measureLatency("get", func() {
		data, found = c.store.Get(ctx, key)
	})

	if found {
		c.metrics.RecordHit()
		slog.Debug("cache hit", "key", key)
	} else {
		c.metrics.RecordMiss()
		slog.Debug("cache miss", "key", key)
	}

	return data, found
}

func (c *InstrumentedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var err error
	c.measureLatency("set", func() {
		err = c.store.Set(ctx, key, value, ttl)
	})
	return err
}

func (c *InstrumentedStore) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, key)
}

func (c *InstrumentedStore) Clear(ctx context.Context) error {
	return c.store.Clear(ctx)
}

// Close forwards to the wrapped store when it holds closable resources
func (c *InstrumentedStore) Close() error {
	if closer, ok := c.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

func (c *InstrumentedStore) GetMetrics() *metrics.CacheMetrics {
	return c.metrics
}
