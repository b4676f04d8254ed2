package tileserver

import (
	"sync/atomic"
	"time"

	"github.com/tdoa-platform/core/internal/tilecache"
)

// StatsSnapshot is the JSON body served from GET /stats.
type StatsSnapshot struct {
	TotalTiles       int64   `json:"total_tiles"`
	CachedTiles      int64   `json:"cached_tiles"`
	TotalSizeBytes   int64   `json:"total_size_bytes"`
	RequestsServed   int64   `json:"requests_served"`
	AverageLatencyMs float64 `json:"average_latency_ms"`
	CacheHits        int64   `json:"cache_hits"`
	CacheMisses      int64   `json:"cache_misses"`
}

// statsTracker accumulates the running counters behind StatsSnapshot.
type statsTracker struct {
	requestsServed int64
	cacheHits      int64
	cacheMisses    int64
	latencySumUs   int64
}

func (t *statsTracker) recordRequest(hit bool, latency time.Duration) {
	atomic.AddInt64(&t.requestsServed, 1)
	atomic.AddInt64(&t.latencySumUs, latency.Microseconds())
	if hit {
		atomic.AddInt64(&t.cacheHits, 1)
	} else {
		atomic.AddInt64(&t.cacheMisses, 1)
	}
}

func (t *statsTracker) snapshot(store *tilecache.Store) (StatsSnapshot, error) {
	totalTiles, totalBytes, err := store.DiskStats()
	if err != nil {
		return StatsSnapshot{}, err
	}

	served := atomic.LoadInt64(&t.requestsServed)
	var avgMs float64
	if served > 0 {
		avgMs = float64(atomic.LoadInt64(&t.latencySumUs)) / float64(served) / 1000.0
	}

	return StatsSnapshot{
		TotalTiles:       totalTiles,
		CachedTiles:      totalTiles,
		TotalSizeBytes:   totalBytes,
		RequestsServed:   served,
		AverageLatencyMs: avgMs,
		CacheHits:        atomic.LoadInt64(&t.cacheHits),
		CacheMisses:      atomic.LoadInt64(&t.cacheMisses),
	}, nil
}
