package thumbnail

import (
	"context"
	"fmt"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/workers"
)

// DefaultCapacityBytes is the default decoded-bitmap budget.
const DefaultCapacityBytes = 20 * 1024 * 1024

// bytesPerPixel is the RGBA accounting cost of a cached bitmap.
const bytesPerPixel = 4

// CacheConfig controls the decoded-preview cache.
type CacheConfig struct {
	// CapacityBytes bounds the sum of cached bitmap sizes
	CapacityBytes int64

	// MaxConcurrentDecodes bounds decodes across all keys (0 = workers.PreviewDecode.Size())
	MaxConcurrentDecodes int
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		CapacityBytes:        DefaultCapacityBytes,
		MaxConcurrentDecodes: workers.PreviewDecode.Size(),
	}
}

// CacheStats is a snapshot of cache state.
type CacheStats struct {
	Entries       int   `json:"entries"`
	UsedBytes     int64 `json:"usedBytes"`
	CapacityBytes int64 `json:"capacityBytes"`
	Hits          int64 `json:"hits"`
	Misses        int64 `json:"misses"`
	Evictions     int64 `json:"evictions"`
}

type entry struct {
	img     image.Image
	size    int64
	target  Dimensions
	srcSize int64
	srcMod  time.Time
}

func (e *entry) fresh(target Dimensions, srcSize int64, srcMod time.Time) bool {
	return e.target == target && e.srcSize == srcSize && e.srcMod.Equal(srcMod)
}

// Cache holds decoded preview bitmaps keyed by source path, bounded by the
// total bitmap size and evicted least recently used first. Every Get encodes
// the bitmap afresh, so hits and misses return identical bytes.
type Cache struct {
	pipeline *Pipeline
	capacity int64

	mu   sync.Mutex
	lru  *simplelru.LRU[string, *entry]
	used int64

	flights singleflight.Group
	decodes *semaphore.Weighted

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewCache creates a Cache that fills misses through pipeline.
func NewCache(pipeline *Pipeline, config CacheConfig) (*Cache, error) {
	if config.CapacityBytes <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", config.CapacityBytes)
	}
	if config.MaxConcurrentDecodes <= 0 {
		config.MaxConcurrentDecodes = workers.PreviewDecode.Size()
	}

	c := &Cache{
		pipeline: pipeline,
		capacity: config.CapacityBytes,
		decodes:  semaphore.NewWeighted(int64(config.MaxConcurrentDecodes)),
	}

	// Entry count is unbounded; capacity is enforced in bytes.
	lru, err := simplelru.NewLRU[string, *entry](math.MaxInt32, func(_ string, e *entry) {
		c.used -= e.size
	})
	if err != nil {
		return nil, err
	}
	c.lru = lru

	logging.Info("Preview cache: capacity %s, %d concurrent decodes",
		humanize.IBytes(uint64(config.CapacityBytes)), config.MaxConcurrentDecodes)
	return c, nil
}

// Get returns JPEG bytes for the preview of path bounded by width x height.
// A cached bitmap is used when its source file is unchanged and it was
// produced for the same box; otherwise the source is decoded and the entry
// replaced. Failures never modify the cache.
func (c *Cache) Get(ctx context.Context, path string, width, height int) ([]byte, error) {
	data, err := c.get(ctx, path, Dimensions{Width: width, Height: height})
	metrics.PreviewRequestsTotal.WithLabelValues(statusLabel(err)).Inc()
	return data, err
}

func (c *Cache) get(ctx context.Context, path string, target Dimensions) ([]byte, error) {
	img, err := c.bitmap(ctx, path, target)
	if err != nil {
		return nil, err
	}
	return c.pipeline.Encode(path, img)
}

// bitmap returns the cached or freshly decoded bitmap for path.
func (c *Cache) bitmap(ctx context.Context, path string, target Dimensions) (image.Image, error) {
	if target.Width <= 0 || target.Height <= 0 {
		return nil, previewErr("get", path, ErrInvalidTarget, nil)
	}

	info, err := c.pipeline.Stat(path)
	if err != nil {
		return nil, err
	}
	srcSize, srcMod := info.Size(), info.ModTime()

	if img, ok := c.lookup(path, target, srcSize, srcMod); ok {
		c.hits.Add(1)
		metrics.PreviewCacheHits.Inc()
		return img, nil
	}

	c.misses.Add(1)
	metrics.PreviewCacheMisses.Inc()

	// The flight outlives any one caller; each caller stops waiting when its
	// own ctx ends.
	key := fmt.Sprintf("%s|%dx%d", path, target.Width, target.Height)
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(key, func() (interface{}, error) {
		// A flight that finished between lookup and DoChan has already filled the entry
		if img, ok := c.lookup(path, target, srcSize, srcMod); ok {
			return img, nil
		}

		if err := c.decodes.Acquire(flightCtx, 1); err != nil {
			return nil, previewErr("decode", path, ErrCancelled, err)
		}
		defer c.decodes.Release(1)

		img, err := c.pipeline.Decode(path, target)
		if err != nil {
			return nil, err
		}

		c.insert(path, &entry{
			img:     img,
			size:    bitmapSize(img),
			target:  target,
			srcSize: srcSize,
			srcMod:  srcMod,
		})
		return img, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(image.Image), nil
	case <-ctx.Done():
		return nil, previewErr("get", path, ErrCancelled, ctx.Err())
	}
}

func (c *Cache) lookup(path string, target Dimensions, srcSize int64, srcMod time.Time) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.lru.Get(path)
	if !ok || !e.fresh(target, srcSize, srcMod) {
		return nil, false
	}
	return e.img, true
}

func (c *Cache) insert(path string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Remove first so the replaced entry's size is released through onEvict
	c.lru.Remove(path)
	c.lru.Add(path, e)
	c.used += e.size

	for c.used > c.capacity && c.lru.Len() > 0 {
		evicted, _, _ := c.lru.RemoveOldest()
		c.evictions.Add(1)
		metrics.PreviewCacheEvictions.Inc()
		logging.Debug("Preview cache evicted %s", evicted)
	}

	metrics.PreviewCacheSize.Set(float64(c.used))
	metrics.PreviewCacheCount.Set(float64(c.lru.Len()))
}

// Contains reports whether path has a cached bitmap, without touching recency.
func (c *Cache) Contains(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Contains(path)
}

// Clear drops every cached bitmap. Bitmaps already handed to in-flight
// requests stay valid.
func (c *Cache) Clear() {
	c.ClearFor("caller")
}

// ClearFor drops every cached bitmap and records trigger in metrics.
func (c *Cache) ClearFor(trigger string) {
	c.mu.Lock()
	n, freed := c.lru.Len(), c.used
	c.lru.Purge()
	c.used = 0
	c.mu.Unlock()

	metrics.PreviewCacheClears.WithLabelValues(trigger).Inc()
	metrics.PreviewCacheSize.Set(0)
	metrics.PreviewCacheCount.Set(0)
	logging.Info("Preview cache cleared (%s): %d entries, %s", trigger, n, humanize.IBytes(uint64(freed)))
}

// Stats returns a snapshot of the cache.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Entries:       c.lru.Len(),
		UsedBytes:     c.used,
		CapacityBytes: c.capacity,
		Hits:          c.hits.Load(),
		Misses:        c.misses.Load(),
		Evictions:     c.evictions.Load(),
	}
}

// Warm fills the cache for paths using a bounded pool. Per-path failures are
// logged and counted, not returned; only ctx cancellation is an error.
func (c *Cache) Warm(ctx context.Context, paths []string, width, height int) (warmed int, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers.PreviewWarm.Size())

	var ok atomic.Int64
	for _, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if _, err := c.bitmap(gctx, path, Dimensions{Width: width, Height: height}); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logging.Debug("Warm %s: %v", path, err)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}

	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return int(ok.Load()), err
}

func bitmapSize(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * bytesPerPixel
}
