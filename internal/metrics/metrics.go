// Package metrics provides Prometheus instrumentation for the platform's
// streaming, storage, and tile subsystems.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tdoa_duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdoa_duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	DBSchemaVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_duckdb_schema_version",
			Help: "Currently applied schema version from the metadata table",
		},
	)

	// Streaming Metrics

	StreamBuffersProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_stream_buffers_produced_total",
			Help: "Total number of IQ buffers produced by the acquisition loop",
		},
	)

	StreamBuffersDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_stream_buffers_dropped_total",
			Help: "Total number of IQ buffers dropped due to consumer backpressure",
		},
	)

	StreamBytesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_stream_bytes_processed_total",
			Help: "Total bytes of IQ sample data delivered to the consumer callback",
		},
	)

	StreamByteRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_stream_byte_rate_bytes_per_second",
			Help: "Most recently computed streaming throughput in bytes per second",
		},
	)

	StreamBufferPoolInUse = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_stream_buffer_pool_in_use",
			Help: "Number of buffers currently checked out of the buffer pool",
		},
	)

	// Tile Cache Metrics

	TileCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_tile_cache_hits_total",
			Help: "Total number of tile cache hits",
		},
	)

	TileCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_tile_cache_misses_total",
			Help: "Total number of tile cache misses",
		},
	)

	TileCacheBytesOnDisk = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_tile_cache_bytes_on_disk",
			Help: "Approximate total size of the on-disk tile cache in bytes",
		},
	)

	TileCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_tile_cache_evictions_total",
			Help: "Total number of tiles evicted by the age-based sweep",
		},
	)

	// Tile Server Metrics

	TileServerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdoa_tileserver_requests_total",
			Help: "Total tile HTTP requests by status",
		},
		[]string{"status"},
	)

	TileServerRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_tileserver_rate_limited_total",
			Help: "Total tile requests rejected by the rolling-minute rate limiter",
		},
	)

	TileServerRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tdoa_tileserver_request_duration_seconds",
			Help:    "Duration of tile HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Tile Downloader Metrics

	DownloaderQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_downloader_queue_depth",
			Help: "Current number of tile fetch requests queued",
		},
	)

	DownloaderFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tdoa_downloader_fetched_total",
			Help: "Total tiles successfully fetched from the upstream origin",
		},
	)

	DownloaderFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdoa_downloader_failed_total",
			Help: "Total tile fetch failures by reason",
		},
		[]string{"reason"},
	)

	DownloaderCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_downloader_circuit_state",
			Help: "Circuit breaker state for the tile origin (0=closed, 1=half-open, 2=open)",
		},
	)

	// Report Metrics

	ReportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tdoa_reports_generated_total",
			Help: "Total reports generated by format",
		},
		[]string{"format"},
	)

	ReportGenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tdoa_report_generation_duration_seconds",
			Help:    "Duration of report generation in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	ReportsDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "tdoa_reports_due",
			Help: "Number of scheduled reports currently due",
		},
	)
)

// RecordDBQuery records a database query's duration and, if it failed, an
// error observation. Long error messages are truncated to keep label
// cardinality bounded.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table, truncateErrorType(err)).Inc()
	}
}

// RecordTileRequest records a completed tile HTTP request.
func RecordTileRequest(statusCode int, duration time.Duration) {
	TileServerRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	TileServerRequestDuration.Observe(duration.Seconds())
}

// RecordTileFetch records the outcome of a single downloader fetch attempt.
func RecordTileFetch(err error) {
	if err != nil {
		DownloaderFailed.WithLabelValues(truncateErrorType(err)).Inc()
		return
	}
	DownloaderFetched.Inc()
}

// RecordReportGenerated records a completed report generation.
func RecordReportGenerated(format string, duration time.Duration) {
	ReportsGenerated.WithLabelValues(format).Inc()
	ReportGenerationDuration.Observe(duration.Seconds())
}

func truncateErrorType(err error) string {
	msg := err.Error()
	const maxLen = 50
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}
