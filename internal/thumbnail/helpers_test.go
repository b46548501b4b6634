package thumbnail

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"media-catalog/internal/filesystem"
)

// writePNG writes a width x height gradient PNG. With transparent set every
// pixel has zero alpha.
func writePNG(t *testing.T, path string, width, height int, transparent bool) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			}
			if transparent {
				c = color.NRGBA{}
			}
			img.SetNRGBA(x, y, c)
		}
	}

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func testRetry() filesystem.RetryConfig {
	return filesystem.RetryConfig{MaxRetries: 0}
}

func newTestPipeline(codec Codec) *Pipeline {
	return NewPipeline(codec, PipelineConfig{Quality: DefaultQuality, Retry: testRetry()})
}

func newTestCache(t *testing.T, capacity int64) (*Cache, *countingCodec) {
	t.Helper()
	codec := &countingCodec{Codec: NewImagingCodec(testRetry())}
	c, err := NewCache(newTestPipeline(codec), CacheConfig{CapacityBytes: capacity, MaxConcurrentDecodes: 4})
	require.NoError(t, err)
	return c, codec
}

// countingCodec counts decodes and optionally blocks them until gate closes.
type countingCodec struct {
	Codec
	decodes atomic.Int32
	gate    chan struct{}
}

func (c *countingCodec) DecodeDownsampled(path string, factor int) (image.Image, error) {
	c.decodes.Add(1)
	if c.gate != nil {
		<-c.gate
	}
	return c.Codec.DecodeDownsampled(path, factor)
}

func fixture(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	writePNG(t, path, width, height, false)
	return path
}
