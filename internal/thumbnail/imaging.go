package thumbnail

import (
	"fmt"
	"image"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
)

// MaxSourcePixels is the largest source the pure-Go codec will decode. The
// standard decoders cannot shrink during decode, so a source is fully
// materialized before downsampling; 100MP is ~400MB in RGBA.
const MaxSourcePixels = 100_000_000

// ImagingCodec decodes with the standard library decoders and resamples
// with disintegration/imaging.
type ImagingCodec struct {
	retry filesystem.RetryConfig
}

// NewImagingCodec creates an ImagingCodec.
func NewImagingCodec(retry filesystem.RetryConfig) *ImagingCodec {
	return &ImagingCodec{retry: retry}
}

// Probe implements Codec.
func (c *ImagingCodec) Probe(path string) (Dimensions, error) {
	file, err := filesystem.OpenWithRetry(path, c.retry)
	if err != nil {
		return Dimensions{}, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Width: config.Width, Height: config.Height}, nil
}

// DecodeDownsampled implements Codec.
func (c *ImagingCodec) DecodeDownsampled(path string, factor int) (image.Image, error) {
	dims, err := c.Probe(path)
	if err != nil {
		return nil, err
	}
	if dims.Pixels() > MaxSourcePixels {
		return nil, fmt.Errorf("%dx%d exceeds %d pixels", dims.Width, dims.Height, MaxSourcePixels)
	}

	file, err := filesystem.OpenWithRetry(path, c.retry)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return nil, err
	}

	if factor <= 1 {
		return img, nil
	}

	b := img.Bounds()
	w, h := max(1, b.Dx()/factor), max(1, b.Dy()/factor)
	logging.Debug("Downsampling %s by %d: %dx%d -> %dx%d", path, factor, b.Dx(), b.Dy(), w, h)
	return imaging.Resize(img, w, h, imaging.Box), nil
}

// Encode implements Codec.
func (c *ImagingCodec) Encode(img image.Image, quality int) ([]byte, error) {
	return encodeJPEG(img, quality)
}
