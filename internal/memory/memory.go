package memory

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Config holds memory management configuration
type Config struct {
	// MemoryLimitBytes is the soft memory limit (0 = use GOMEMLIMIT or no limit)
	MemoryLimitBytes int64

	// HighWaterMark is the fraction of limit below which pressure is considered relieved (0.0-1.0)
	HighWaterMark float64

	// CriticalWaterMark is the fraction of limit at which critical handlers run (0.0-1.0)
	CriticalWaterMark float64

	// CheckInterval is how often to check memory usage
	CheckInterval time.Duration
}

// DefaultConfig returns sensible defaults for memory management
func DefaultConfig() Config {
	return Config{
		MemoryLimitBytes:  0, // Use GOMEMLIMIT if set
		HighWaterMark:     0.7,
		CriticalWaterMark: 0.85,
		CheckInterval:     5 * time.Second,
	}
}

// Monitor tracks heap usage against a limit and notifies registered handlers
// when usage crosses the critical watermark. Handlers run once per crossing;
// usage must fall below the high watermark before they can run again.
type Monitor struct {
	config     Config
	limit      int64
	stopChan   chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
	current    uint64
	isCritical bool
	handlers   []func()
	readAlloc  func() uint64
}

// NewMonitor creates a new memory monitor
func NewMonitor(config Config) *Monitor {
	limit := config.MemoryLimitBytes

	if limit == 0 {
		if goMemLimit := debug.SetMemoryLimit(-1); goMemLimit > 0 && goMemLimit < 1<<62 {
			limit = goMemLimit
			logging.Info("Memory monitor using GOMEMLIMIT: %s", humanize.IBytes(uint64(limit)))
		}
	}

	if limit == 0 {
		logging.Warn("Memory monitor: no memory limit configured, pressure handling disabled")
	}

	return &Monitor{
		config:    config,
		limit:     limit,
		stopChan:  make(chan struct{}),
		readAlloc: heapAlloc,
	}
}

func heapAlloc() uint64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return stats.Alloc
}

// OnCritical registers fn to be called when usage crosses the critical watermark.
func (m *Monitor) OnCritical(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, fn)
}

// Start begins monitoring memory usage
func (m *Monitor) Start() {
	if m.limit == 0 {
		return
	}

	go m.monitorLoop()
}

// Stop stops the memory monitor. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopChan) })
}

func (m *Monitor) monitorLoop() {
	ticker := time.NewTicker(m.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkMemory()
		case <-m.stopChan:
			return
		}
	}
}

func (m *Monitor) checkMemory() {
	alloc := m.readAlloc()

	m.mu.Lock()
	m.current = alloc
	var fire []func()

	if m.limit > 0 {
		usage := float64(alloc) / float64(m.limit)
		metrics.MemoryUsageRatio.Set(usage)

		if usage >= m.config.CriticalWaterMark {
			if !m.isCritical {
				logging.Warn("Memory critical (%.1f%% of limit), releasing caches", usage*100)
				m.isCritical = true
				metrics.MemoryPressureEvents.Inc()
				fire = append(fire, m.handlers...)
			}
		} else if usage < m.config.HighWaterMark && m.isCritical {
			logging.Info("Memory recovered (%.1f%% of limit)", usage*100)
			m.isCritical = false
		}
	}
	m.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	if len(fire) > 0 {
		go runtime.GC()
	}
}

// IsCritical reports whether usage last crossed the critical watermark and
// has not yet dropped below the high watermark.
func (m *Monitor) IsCritical() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.isCritical
}

// GetUsage returns current memory usage as a fraction of the limit (0.0-1.0)
// Returns 0 if no limit is configured
func (m *Monitor) GetUsage() float64 {
	if m.limit == 0 {
		return 0
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return float64(m.current) / float64(m.limit)
}

// GetStats returns current memory statistics
func (m *Monitor) GetStats() (current, limit int64, usage float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var currentInt64 int64
	if m.current > math.MaxInt64 {
		currentInt64 = math.MaxInt64
	} else {
		currentInt64 = int64(m.current)
	}

	var usageRatio float64
	if m.limit > 0 {
		usageRatio = float64(m.current) / float64(m.limit)
	}

	return currentInt64, m.limit, usageRatio
}
