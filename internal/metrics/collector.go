package metrics

import (
	"time"

	"github.com/dustin/go-humanize"

	"media-catalog/internal/logging"
)

// StatsProvider interface for collecting stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current statistics
type Stats struct {
	PreviewCacheBytes    int64
	PreviewCacheCapacity int64
	PreviewCacheEntries  int
	ScanActive           bool
}

// Collector periodically collects and updates gauge metrics
type Collector struct {
	statsProvider StatsProvider
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider == nil {
		return
	}

	stats := c.statsProvider.GetStats()

	PreviewCacheSize.Set(float64(stats.PreviewCacheBytes))
	PreviewCacheCount.Set(float64(stats.PreviewCacheEntries))
	if stats.ScanActive {
		ScanRunning.Set(1)
	} else {
		ScanRunning.Set(0)
	}

	logging.Debug("Metrics collected: previews=%d (%s of %s), scanning=%v",
		stats.PreviewCacheEntries,
		humanize.IBytes(uint64(max(stats.PreviewCacheBytes, 0))),
		humanize.IBytes(uint64(max(stats.PreviewCacheCapacity, 0))),
		stats.ScanActive)
}
