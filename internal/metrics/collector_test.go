package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"media-catalog/internal/filesystem"
)

type mockStatsProvider struct {
	mu    sync.Mutex
	stats Stats
	calls int
}

func (m *mockStatsProvider) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.stats
}

func (m *mockStatsProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func TestNewCollector(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, 5*time.Second)

	if collector == nil {
		t.Fatal("NewCollector returned nil")
	}
	if collector.interval != 5*time.Second {
		t.Errorf("interval = %v, want 5s", collector.interval)
	}
	if collector.stopChan == nil {
		t.Error("stopChan should be initialized")
	}
}

func TestCollectUpdatesGauges(t *testing.T) {
	provider := &mockStatsProvider{stats: Stats{
		PreviewCacheBytes:    4096,
		PreviewCacheCapacity: 20 << 20,
		PreviewCacheEntries:  3,
		ScanActive:           true,
	}}
	collector := NewCollector(provider, time.Minute)

	collector.collect()

	if got := testutil.ToFloat64(PreviewCacheSize); got != 4096 {
		t.Errorf("PreviewCacheSize = %v, want 4096", got)
	}
	if got := testutil.ToFloat64(PreviewCacheCount); got != 3 {
		t.Errorf("PreviewCacheCount = %v, want 3", got)
	}
	if got := testutil.ToFloat64(ScanRunning); got != 1 {
		t.Errorf("ScanRunning = %v, want 1", got)
	}

	provider.mu.Lock()
	provider.stats.ScanActive = false
	provider.mu.Unlock()
	collector.collect()

	if got := testutil.ToFloat64(ScanRunning); got != 0 {
		t.Errorf("ScanRunning = %v, want 0", got)
	}
}

func TestCollectWithNilProvider(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("collect() with nil provider panicked: %v", r)
		}
	}()

	NewCollector(nil, time.Minute).collect()
}

func TestCollectorStartStop(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, 10*time.Millisecond)

	collector.Start()
	time.Sleep(50 * time.Millisecond)
	collector.Stop()

	if provider.callCount() < 2 {
		t.Errorf("expected at least 2 collections, got %d", provider.callCount())
	}
}

func TestCollectorImmediateCollection(t *testing.T) {
	provider := &mockStatsProvider{}
	collector := NewCollector(provider, time.Hour)

	collector.Start()
	defer collector.Stop()

	deadline := time.Now().Add(time.Second)
	for provider.callCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if provider.callCount() == 0 {
		t.Error("collector should collect immediately on start")
	}
}

func TestFilesystemObserverImplementsInterface(_ *testing.T) {
	var _ filesystem.Observer = NewFilesystemObserver()
}

func TestObserveOperation(t *testing.T) {
	observer := NewFilesystemObserver()

	errorsBefore := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("media", "readdir"))
	retriedBefore := testutil.CollectAndCount(FilesystemRetryDuration)

	observer.ObserveOperation(filesystem.Operation{Name: "readdir", Volume: "media", Duration: 10 * time.Millisecond})
	observer.ObserveOperation(filesystem.Operation{Name: "readdir", Volume: "media", Duration: 20 * time.Millisecond, Err: errors.New("boom")})

	if got := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("media", "readdir")) - errorsBefore; got != 1 {
		t.Errorf("error counter increased by %v, want 1", got)
	}
	if got := testutil.CollectAndCount(FilesystemRetryDuration); got != retriedBefore {
		t.Errorf("operations without retries must not record retry duration")
	}

	observer.ObserveOperation(filesystem.Operation{Name: "open", Volume: "retried", Duration: time.Second, Retries: 2})
	if got := testutil.CollectAndCount(FilesystemRetryDuration); got != retriedBefore+1 {
		t.Errorf("retry duration series = %d, want %d", got, retriedBefore+1)
	}
}

func TestObserveRetryCounters(t *testing.T) {
	observer := NewFilesystemObserver()

	tests := []struct {
		event   filesystem.RetryEvent
		counter *prometheus.CounterVec
	}{
		{filesystem.RetryAttempt, FilesystemRetryAttempts},
		{filesystem.RetrySucceeded, FilesystemRetrySuccess},
		{filesystem.RetryExhausted, FilesystemRetryFailures},
		{filesystem.RetryStale, FilesystemStaleErrors},
	}

	for _, tt := range tests {
		t.Run(tt.event.String(), func(t *testing.T) {
			before := testutil.ToFloat64(tt.counter.WithLabelValues("stat", "media"))
			observer.ObserveRetry(tt.event, "stat", "media")
			if got := testutil.ToFloat64(tt.counter.WithLabelValues("stat", "media")) - before; got != 1 {
				t.Errorf("counter increased by %v, want 1", got)
			}
		})
	}

	// Unknown events are ignored
	observer.ObserveRetry(filesystem.RetryEvent(99), "stat", "media")
}

func TestObserverConcurrentAccess(_ *testing.T) {
	observer := NewFilesystemObserver()
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				observer.ObserveOperation(filesystem.Operation{Name: "stat", Volume: "media", Duration: time.Millisecond})
				observer.ObserveRetry(filesystem.RetryAttempt, "stat", "media")
				observer.ObserveRetry(filesystem.RetryStale, "stat", "media")
			}
		}()
	}

	wg.Wait()
}

func TestInitializeMetricsIdempotent(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Errorf("InitializeMetrics() panicked: %v", r)
		}
	}()

	InitializeMetrics()
	InitializeMetrics()
}

func TestInitializeMetricsPrePopulatesLabels(t *testing.T) {
	InitializeMetrics()

	tests := []struct {
		name string
		vec  prometheus.Collector
		want int
	}{
		{"ScanSessionsTotal", ScanSessionsTotal, 3},
		{"PreviewRequestsTotal", PreviewRequestsTotal, 4},
		{"PreviewCacheClears", PreviewCacheClears, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.CollectAndCount(tt.vec); got < tt.want {
				t.Errorf("%s has %d series, want at least %d", tt.name, got, tt.want)
			}
		})
	}
}
