package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type CacheMetricsCollector struct {
	Hits     *prometheus.CounterVec
	Misses   *prometheus.CounterVec
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
	HitRatio *prometheus.GaugeVec
}

var (
	globalCollector *CacheMetricsCollector
	collectorOnce   sync.Once
)

func getCollector() *CacheMetricsCollector {
	collectorOnce.Do(func() {
		globalCollector = &CacheMetricsCollector{
			Hits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_cache_hits_total",
					Help: "The total number of cache hits",
				},
				[]string{"tier"},
			),
			Misses: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_cache_misses_total",
					Help: "The total number of cache misses",
				},
				[]string{"tier"},
			),
			Requests: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "content_cache_requests_total",
					Help: "The total number of cache requests",
				},
				[]string{"tier"},
			),
			Latency: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "content_cache_duration_seconds",
					Help:    "Cache operation duration in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"tier", "operation"},
			),
			HitRatio: promauto.NewGaugeVec(
				prometheus.GaugeOpts{
					Name: "content_cache_hit_ratio",
					Help: "Cache hit ratio (hits/total requests)",
				},
				[]string{"tier"},
			),
		}
	})
	return globalCollector
}

type CacheMetrics struct {
	tier      string
	hits      int64
	misses    int64
	total     int64
	collector *CacheMetricsCollector
	mu        sync.RWMutex
}

func NewCacheMetrics(tier string) *CacheMetrics {
	return &CacheMetrics{
		tier:      tier,
		collector: getCollector(),
	}
}

func (m *CacheMetrics) RecordHit() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	m.total++
	m.collector.Hits.WithLabelValues(m.tier).Inc()
	m.collector.Requests.WithLabelValues(m.tier).Inc()
	m.updateHitRatio()
}

func (m *CacheMetrics) RecordMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.misses++
	m.total++
	m.collector.Misses.WithLabelValues(m.tier).Inc()
	m.collector.Requests.WithLabelValues(m.tier).Inc()
	m.updateHitRatio()
}

func (m *CacheMetrics) RecordLatency(operation string, duration float64) {
	m.collector.Latency.WithLabelValues(m.tier, operation).Observe(duration)
}

// updateHitRatio updates the Prometheus hit ratio gauge.
// Must be called while holding the mutex.
func (m *CacheMetrics) updateHitRatio() {
	if m.total > 0 {
		ratio := float64(m.hits) / float64(m.total)
		m.collector.HitRatio.WithLabelValues(m.tier).Set(ratio)
	}
}

func (m *CacheMetrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hitRatio float64
	if m.total > 0 {
		hitRatio = float64(m.hits) / float64(m.total)
	}

	return map[string]interface{}{
		"tier":      m.tier,
		"hits":      m.hits,
		"misses":    m.misses,
		"total":     m.total,
		"hit_ratio": hitRatio,
	}
}
