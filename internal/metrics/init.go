package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, state := range []string{"completed", "cancelled", "failed"} {
		ScanSessionsTotal.WithLabelValues(state)
		ScanDuration.WithLabelValues(state)
	}

	for _, status := range []string{"success", "error_not_found", "error_decode", "error_encode", "cancelled"} {
		PreviewRequestsTotal.WithLabelValues(status)
	}

	for _, phase := range []string{"probe", "decode", "encode"} {
		PreviewPhaseDuration.WithLabelValues(phase)
	}

	for _, trigger := range []string{"caller", "memory_pressure"} {
		PreviewCacheClears.WithLabelValues(trigger)
	}

	for _, format := range []string{"jpeg", "png", "gif", "webp", "bmp", "tiff", "unknown"} {
		PreviewDecodeByFormat.WithLabelValues(format)
	}

	volumes := []string{"media", "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"stat", "lstat", "open", "readdir"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
