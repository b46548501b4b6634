package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"HTTPRequestsTotal", HTTPRequestsTotal},
		{"HTTPRequestDuration", HTTPRequestDuration},
		{"HTTPRequestsInFlight", HTTPRequestsInFlight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestScanMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"ScanSessionsTotal", ScanSessionsTotal},
		{"ScanRejectedTotal", ScanRejectedTotal},
		{"ScanRunning", ScanRunning},
		{"ScanDuration", ScanDuration},
		{"ScanFilesMatched", ScanFilesMatched},
		{"ScanDirectoriesListed", ScanDirectoriesListed},
		{"ScanDirectoriesSkipped", ScanDirectoriesSkipped},
		{"ScanBatchesEmitted", ScanBatchesEmitted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestPreviewMetricsExist(t *testing.T) {
	tests := []struct {
		name   string
		metric interface{}
	}{
		{"PreviewRequestsTotal", PreviewRequestsTotal},
		{"PreviewCacheHits", PreviewCacheHits},
		{"PreviewCacheMisses", PreviewCacheMisses},
		{"PreviewCacheEvictions", PreviewCacheEvictions},
		{"PreviewCacheSize", PreviewCacheSize},
		{"PreviewCacheCount", PreviewCacheCount},
		{"PreviewCacheClears", PreviewCacheClears},
		{"PreviewPhaseDuration", PreviewPhaseDuration},
		{"PreviewDecodeByFormat", PreviewDecodeByFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s metric is nil", tt.name)
			}
		})
	}
}

func TestScanMetricOperations(t *testing.T) {
	before := testutil.ToFloat64(ScanSessionsTotal.WithLabelValues("completed"))
	ScanSessionsTotal.WithLabelValues("completed").Inc()
	if got := testutil.ToFloat64(ScanSessionsTotal.WithLabelValues("completed")) - before; got != 1 {
		t.Errorf("ScanSessionsTotal{completed} increased by %v, want 1", got)
	}

	ScanRunning.Set(1)
	if got := testutil.ToFloat64(ScanRunning); got != 1 {
		t.Errorf("ScanRunning = %v, want 1", got)
	}
	ScanRunning.Set(0)

	ScanDuration.WithLabelValues("cancelled").Observe(0.25)
	ScanFilesMatched.Add(10)
	ScanDirectoriesListed.Add(3)
	ScanDirectoriesSkipped.Inc()
	ScanBatchesEmitted.Inc()
	ScanRejectedTotal.Inc()
}

func TestPreviewMetricOperations(t *testing.T) {
	hits := testutil.ToFloat64(PreviewCacheHits)
	PreviewCacheHits.Inc()
	if got := testutil.ToFloat64(PreviewCacheHits) - hits; got != 1 {
		t.Errorf("PreviewCacheHits increased by %v, want 1", got)
	}

	PreviewCacheSize.Set(2560000)
	if got := testutil.ToFloat64(PreviewCacheSize); got != 2560000 {
		t.Errorf("PreviewCacheSize = %v, want 2560000", got)
	}

	PreviewRequestsTotal.WithLabelValues("success").Inc()
	PreviewCacheMisses.Inc()
	PreviewCacheEvictions.Inc()
	PreviewCacheCount.Set(2)
	PreviewCacheClears.WithLabelValues("caller").Inc()
	PreviewPhaseDuration.WithLabelValues("decode").Observe(0.05)
	PreviewDecodeByFormat.WithLabelValues("png").Inc()
}

func TestMemoryMetricOperations(t *testing.T) {
	MemoryUsageRatio.Set(0.42)
	if got := testutil.ToFloat64(MemoryUsageRatio); got != 0.42 {
		t.Errorf("MemoryUsageRatio = %v, want 0.42", got)
	}

	before := testutil.ToFloat64(MemoryPressureEvents)
	MemoryPressureEvents.Inc()
	if got := testutil.ToFloat64(MemoryPressureEvents) - before; got != 1 {
		t.Errorf("MemoryPressureEvents increased by %v, want 1", got)
	}
}

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.0.0", "abc123", "go1.25")

	if got := testutil.ToFloat64(AppInfo.WithLabelValues("1.0.0", "abc123", "go1.25")); got != 1 {
		t.Errorf("AppInfo = %v, want 1", got)
	}
}

func TestMetricsConcurrentAccess(_ *testing.T) {
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				HTTPRequestsTotal.WithLabelValues("GET", "/api/preview", "200").Inc()
				HTTPRequestDuration.WithLabelValues("GET", "/api/preview").Observe(0.01)
				PreviewCacheHits.Inc()
				ScanFilesMatched.Inc()
			}
		}()
	}

	wg.Wait()
}

func BenchmarkHTTPMetricsIncrement(b *testing.B) {
	b.Run("Counter increment", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			HTTPRequestsTotal.WithLabelValues("GET", "/api/files", "200").Inc()
		}
	})

	b.Run("Histogram observe", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			HTTPRequestDuration.WithLabelValues("GET", "/api/files").Observe(0.1)
		}
	})
}
