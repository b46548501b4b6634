package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-catalog/internal/metrics"
)

// Fixtures are 10x10, so each cached bitmap accounts for 400 bytes.
const tenByTen = 10 * 10 * bytesPerPixel

func TestNewCacheRejectsZeroCapacity(t *testing.T) {
	_, err := NewCache(newTestPipeline(NewImagingCodec(testRetry())), CacheConfig{})
	assert.Error(t, err)
}

func TestCacheHitReturnsIdenticalBytes(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	path := fixture(t, t.TempDir(), "a.png", 64, 48)
	ctx := context.Background()

	first, err := c.Get(ctx, path, 800, 800)
	require.NoError(t, err)
	second, err := c.Get(ctx, path, 800, 800)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), codec.decodes.Load())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(64*48*bytesPerPixel), stats.UsedBytes)
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	dir := t.TempDir()
	a := fixture(t, dir, "a.png", 10, 10)
	b := fixture(t, dir, "b.png", 10, 10)
	cc := fixture(t, dir, "c.png", 10, 10)
	ctx := context.Background()

	t.Run("Oldest goes first", func(t *testing.T) {
		c, _ := newTestCache(t, 2*tenByTen)
		for _, p := range []string{a, b, cc} {
			_, err := c.Get(ctx, p, 100, 100)
			require.NoError(t, err)
		}
		assert.False(t, c.Contains(a))
		assert.True(t, c.Contains(b))
		assert.True(t, c.Contains(cc))
	})

	t.Run("Access refreshes recency", func(t *testing.T) {
		c, _ := newTestCache(t, 2*tenByTen)
		for _, p := range []string{a, b, a, cc} {
			_, err := c.Get(ctx, p, 100, 100)
			require.NoError(t, err)
		}
		assert.True(t, c.Contains(a))
		assert.False(t, c.Contains(b))
		assert.True(t, c.Contains(cc))
		assert.Equal(t, int64(1), c.Stats().Evictions)
	})
}

func TestCacheNeverExceedsCapacity(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i, side := range []int{5, 12, 20, 8, 16, 30, 3} {
		paths = append(paths, fixture(t, dir, string(rune('a'+i))+".png", side, side))
	}

	const capacity = 2000
	c, _ := newTestCache(t, capacity)
	ctx := context.Background()

	for round := 0; round < 3; round++ {
		for i := range paths {
			p := paths[(i*3+round)%len(paths)]
			_, err := c.Get(ctx, p, 100, 100)
			require.NoError(t, err)
			assert.LessOrEqual(t, c.Stats().UsedBytes, int64(capacity))
		}
	}
}

func TestCacheOversizedEntryNotRetained(t *testing.T) {
	c, _ := newTestCache(t, tenByTen/2)
	path := fixture(t, t.TempDir(), "a.png", 10, 10)

	data, err := c.Get(context.Background(), path, 100, 100)
	require.NoError(t, err)
	assert.NotEmpty(t, data)

	stats := c.Stats()
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, int64(0), stats.UsedBytes)
	assert.Equal(t, int64(1), stats.Evictions)
}

func TestCacheFailuresLeaveCacheUntouched(t *testing.T) {
	dir := t.TempDir()
	good := fixture(t, dir, "good.png", 10, 10)
	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))

	c, _ := newTestCache(t, DefaultCapacityBytes)
	ctx := context.Background()

	_, err := c.Get(ctx, good, 100, 100)
	require.NoError(t, err)
	before := c.Stats()

	_, err = c.Get(ctx, filepath.Join(dir, "missing.png"), 100, 100)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Get(ctx, bad, 100, 100)
	assert.ErrorIs(t, err, ErrDecode)

	_, err = c.Get(ctx, good, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidTarget)

	after := c.Stats()
	assert.Equal(t, before.Entries, after.Entries)
	assert.Equal(t, before.UsedBytes, after.UsedBytes)
	assert.True(t, c.Contains(good))
	assert.False(t, c.Contains(bad))
}

func TestCacheReplacesStaleEntry(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	path := fixture(t, t.TempDir(), "a.png", 10, 10)
	ctx := context.Background()

	first, err := c.Get(ctx, path, 100, 100)
	require.NoError(t, err)

	writePNG(t, path, 20, 20, false)
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := c.Get(ctx, path, 100, 100)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, int32(2), codec.decodes.Load())
	w, h := decodedSize(t, second)
	assert.Equal(t, 20, w)
	assert.Equal(t, 20, h)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(20*20*bytesPerPixel), stats.UsedBytes)
}

func TestCacheDifferentTargetReplacesEntry(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	path := fixture(t, t.TempDir(), "a.png", 400, 400)
	ctx := context.Background()

	small, err := c.Get(ctx, path, 100, 100)
	require.NoError(t, err)
	large, err := c.Get(ctx, path, 200, 200)
	require.NoError(t, err)

	w, _ := decodedSize(t, small)
	assert.Equal(t, 100, w)
	w, _ = decodedSize(t, large)
	assert.Equal(t, 200, w)

	assert.Equal(t, int32(2), codec.decodes.Load())
	assert.Equal(t, 1, c.Stats().Entries)
	assert.Equal(t, int64(200*200*bytesPerPixel), c.Stats().UsedBytes)
}

func TestCacheConcurrentMissesDecodeOnce(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	codec.gate = make(chan struct{})
	path := fixture(t, t.TempDir(), "a.png", 32, 32)

	const callers = 16
	results := make([][]byte, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.Get(context.Background(), path, 100, 100)
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(codec.gate)
	wg.Wait()

	assert.Equal(t, int32(1), codec.decodes.Load())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
}

func TestCacheCancelledCallerDoesNotFailSharedDecode(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	codec.gate = make(chan struct{})
	dir := t.TempDir()

	// Occupy every decode slot so the shared flight queues on the semaphore.
	var busy sync.WaitGroup
	for i := 0; i < 4; i++ {
		path := fixture(t, dir, fmt.Sprintf("busy%d.png", i), 10, 10)
		busy.Add(1)
		go func() {
			defer busy.Done()
			_, _ = c.Get(context.Background(), path, 100, 100)
		}()
	}
	require.Eventually(t, func() bool { return codec.decodes.Load() == 4 }, time.Second, 5*time.Millisecond)

	path := fixture(t, dir, "shared.png", 10, 10)
	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, path, 100, 100)
		errA <- err
	}()
	time.Sleep(20 * time.Millisecond)

	type outcome struct {
		data []byte
		err  error
	}
	resB := make(chan outcome, 1)
	go func() {
		data, err := c.Get(context.Background(), path, 100, 100)
		resB <- outcome{data, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	select {
	case err := <-errA:
		var perr *PreviewError
		require.ErrorAs(t, err, &perr)
		assert.ErrorIs(t, err, ErrCancelled)
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled caller did not return")
	}

	select {
	case res := <-resB:
		t.Fatalf("uncancelled caller returned early: %v", res.err)
	default:
	}

	close(codec.gate)
	busy.Wait()

	res := <-resB
	require.NoError(t, res.err)
	assert.NotEmpty(t, res.data)
	assert.True(t, c.Contains(path))
	assert.Equal(t, int32(5), codec.decodes.Load())
}

func TestCacheGetWithCancelledContext(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	codec.gate = make(chan struct{})
	path := fixture(t, t.TempDir(), "a.png", 10, 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Get(ctx, path, 100, 100)

	assert.True(t, errors.Is(err, ErrCancelled))
	close(codec.gate)
}

func TestCacheClear(t *testing.T) {
	c, codec := newTestCache(t, DefaultCapacityBytes)
	path := fixture(t, t.TempDir(), "a.png", 10, 10)
	ctx := context.Background()

	_, err := c.Get(ctx, path, 100, 100)
	require.NoError(t, err)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Entries)
	assert.Equal(t, int64(0), c.Stats().UsedBytes)

	// Clearing an empty cache is fine
	c.Clear()

	_, err = c.Get(ctx, path, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, int32(2), codec.decodes.Load())
}

func TestCacheClearForRecordsTrigger(t *testing.T) {
	c, _ := newTestCache(t, DefaultCapacityBytes)
	counter := metrics.PreviewCacheClears.WithLabelValues("memory_pressure")
	before := testutil.ToFloat64(counter)

	c.ClearFor("memory_pressure")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestCacheWarm(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		fixture(t, dir, "a.png", 10, 10),
		fixture(t, dir, "b.png", 10, 10),
		filepath.Join(dir, "missing.png"),
	}

	c, _ := newTestCache(t, DefaultCapacityBytes)
	warmed, err := c.Warm(context.Background(), paths, 100, 100)
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)
	assert.True(t, c.Contains(paths[0]))
	assert.True(t, c.Contains(paths[1]))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.Warm(ctx, paths, 100, 100)
	assert.ErrorIs(t, err, context.Canceled)
}
