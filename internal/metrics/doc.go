/*
Package metrics provides Prometheus metrics collection and export for
observability across the platform's streaming, storage, and tile
subsystems.

Metrics cover database query performance, streaming throughput and buffer
pool pressure, tile cache hit/miss rate, tile HTTP request latency, tile
downloader queue depth and circuit breaker state, and report generation
timing. Exposed at /metrics via promhttp.Handler, registered on the
router in internal/tileserver.
*/
package metrics
