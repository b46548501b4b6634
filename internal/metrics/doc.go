// Package metrics provides Prometheus instrumentation for the media-catalog service.
//
// All metrics are registered with the default registry through promauto and
// are prefixed with "media_catalog_".
//
// # Metric Categories
//
// ## HTTP Metrics
//
//   - HTTPRequestsTotal: Counter of requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of requests being processed
//
// ## Scan Metrics
//
//   - ScanSessionsTotal: Counter of finished sessions by terminal state
//   - ScanRejectedTotal: Counter of starts rejected while a session was active
//   - ScanRunning: Gauge, 1 while a session is active
//   - ScanDuration: Histogram of session duration by terminal state
//   - ScanFilesMatched, ScanDirectoriesListed, ScanDirectoriesSkipped
//   - ScanBatchesEmitted: Counter of progress batches delivered
//
// ## Preview Metrics
//
//   - PreviewRequestsTotal: Counter by outcome
//   - PreviewCacheHits / PreviewCacheMisses / PreviewCacheEvictions
//   - PreviewCacheSize: Gauge of decoded bytes held
//   - PreviewCacheCount: Gauge of cached entries
//   - PreviewCacheClears: Counter by trigger (caller, memory_pressure)
//   - PreviewPhaseDuration: Histogram by phase (probe, decode, encode)
//   - PreviewDecodeByFormat: Counter by sniffed source format
//
// ## Filesystem Metrics
//
// Recorded through [NewFilesystemObserver], installed with
// filesystem.SetObserver at startup.
//
// ## Memory Metrics
//
//   - MemoryUsageRatio: Heap allocation as a fraction of the limit
//   - MemoryPressureEvents: Crossings of the critical watermark
//
// # Collector
//
// [Collector] periodically copies gauges from a [StatsProvider]:
//
//	collector := metrics.NewCollector(provider, 30*time.Second)
//	collector.Start()
//	defer collector.Stop()
//
// # Prometheus Queries
//
// Preview cache hit rate:
//
//	rate(media_catalog_preview_cache_hits_total[5m]) /
//	(rate(media_catalog_preview_cache_hits_total[5m]) + rate(media_catalog_preview_cache_misses_total[5m]))
//
// P95 decode time:
//
//	histogram_quantile(0.95, sum(rate(media_catalog_preview_phase_duration_seconds_bucket{phase="decode"}[5m])) by (le))
//
// Scans rejected because one was already running:
//
//	increase(media_catalog_scan_rejected_total[1h])
package metrics
