package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Scan metrics
var (
	ScanSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_sessions_total",
			Help: "Total number of scan sessions by terminal state",
		},
		[]string{"state"}, // "completed", "cancelled", "failed"
	)

	ScanRejectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_rejected_total",
			Help: "Total number of scan requests rejected because a session was active",
		},
	)

	ScanRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scan_running",
			Help: "Whether a scan session is currently active (1 = active, 0 = idle)",
		},
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_scan_duration_seconds",
			Help:    "Scan session duration in seconds by terminal state",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"state"},
	)

	ScanFilesMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_files_matched_total",
			Help: "Total number of files matched by scan sessions",
		},
	)

	ScanDirectoriesListed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_directories_listed_total",
			Help: "Total number of directories listed by scan sessions",
		},
	)

	ScanDirectoriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_directories_skipped_total",
			Help: "Total number of directories skipped because listing failed",
		},
	)

	ScanBatchesEmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_batches_emitted_total",
			Help: "Total number of progress batches emitted",
		},
	)
)

// Preview metrics
var (
	PreviewRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_requests_total",
			Help: "Total number of preview requests by outcome",
		},
		[]string{"status"}, // "success", "error_not_found", "error_decode", "error_encode", "cancelled"
	)

	PreviewCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_cache_hits_total",
			Help: "Total number of preview cache hits",
		},
	)

	PreviewCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_cache_misses_total",
			Help: "Total number of preview cache misses",
		},
	)

	PreviewCacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_cache_evictions_total",
			Help: "Total number of preview cache entries evicted to satisfy capacity",
		},
	)

	PreviewCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_preview_cache_size_bytes",
			Help: "Approximate decoded size of all cached previews in bytes",
		},
	)

	PreviewCacheCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_preview_cache_count",
			Help: "Number of previews in the cache",
		},
	)

	PreviewCacheClears = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_cache_clears_total",
			Help: "Total number of cache clears by trigger",
		},
		[]string{"trigger"}, // "caller", "memory_pressure"
	)

	PreviewPhaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_preview_phase_duration_seconds",
			Help:    "Duration of preview pipeline phases in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"phase"}, // "probe", "decode", "encode"
	)

	PreviewDecodeByFormat = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_preview_decode_format_total",
			Help: "Total number of decoded previews by detected source format",
		},
		[]string{"format"},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_attempts_total",
			Help: "Total number of retried filesystem operations",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after a retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_filesystem_stale_errors_total",
			Help: "Total number of ESTALE errors observed",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_filesystem_retry_duration_seconds",
			Help:    "Total duration of filesystem operations including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)
)

// Memory metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the configured memory limit",
		},
	)

	MemoryPressureEvents = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_memory_pressure_events_total",
			Help: "Total number of times memory usage crossed the critical watermark",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
