package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"media-catalog/internal/filesystem"
)

// filesystemObserver records filesystem.Observer callbacks into the
// Filesystem* collectors.
type filesystemObserver struct {
	retryCounters map[filesystem.RetryEvent]*prometheus.CounterVec
}

// NewFilesystemObserver creates the observer to pass to filesystem.SetObserver.
func NewFilesystemObserver() filesystem.Observer {
	return &filesystemObserver{
		retryCounters: map[filesystem.RetryEvent]*prometheus.CounterVec{
			filesystem.RetryStale:     FilesystemStaleErrors,
			filesystem.RetryAttempt:   FilesystemRetryAttempts,
			filesystem.RetrySucceeded: FilesystemRetrySuccess,
			filesystem.RetryExhausted: FilesystemRetryFailures,
		},
	}
}

func (o *filesystemObserver) ObserveOperation(op filesystem.Operation) {
	seconds := op.Duration.Seconds()
	FilesystemOperationDuration.WithLabelValues(op.Volume, op.Name).Observe(seconds)
	if op.Err != nil {
		FilesystemOperationErrors.WithLabelValues(op.Volume, op.Name).Inc()
	}
	if op.Retries > 0 {
		FilesystemRetryDuration.WithLabelValues(op.Name, op.Volume).Observe(seconds)
	}
}

func (o *filesystemObserver) ObserveRetry(event filesystem.RetryEvent, name, volume string) {
	if counter, ok := o.retryCounters[event]; ok {
		counter.WithLabelValues(name, volume).Inc()
	}
}
