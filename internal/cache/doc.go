// Package cache provides the in-memory data structures the platform's
// streaming, query, and tile subsystems build on: a deduplicating
// Bloom+LRU filter, a plain LRU with TTL, a min-heap priority queue, an
// LFU cache, a sliding-window counter, and a Fenwick tree for prefix and
// range sums over integer-indexed buckets.
//
// None of these are reached directly by callers outside this package;
// each is wrapped by the subsystem that needs its particular access
// pattern:
//
//   - BloomLRU (bloom.go): tile-download job dedup
//     (internal/tiledownloader.Downloader)
//   - LRUCache (lru.go): tile last-served index
//     (internal/tilecache.Index), optionally persisted through
//     internal/tilecache.OpenPersistentIndex
//   - MinHeap (heap.go): the tile downloader's priority/normal job queues
//     (internal/tiledownloader.Queue)
//   - LFUCacheGeneric (lfu.go): the report template registry
//     (internal/report.Registry)
//   - SlidingWindowStore (sliding_window.go): the tile server's rolling
//     one-minute per-client rate limiter
//     (internal/tileserver.RateLimiter)
//   - FenwickTree (fenwick.go): per-bin count accumulation over frequency
//     bins (internal/query.FrequencyDensity)
package cache
