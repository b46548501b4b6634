package thumbnail

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

const (
	// DefaultTargetSize is the default preview box side in pixels.
	DefaultTargetSize = 800

	// DefaultQuality is the default JPEG quality.
	DefaultQuality = 90
)

// PipelineConfig controls preview production.
type PipelineConfig struct {
	Quality int
	Retry   filesystem.RetryConfig
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Quality: DefaultQuality,
		Retry:   filesystem.DefaultRetryConfig(),
	}
}

// Pipeline turns a source image path into a bounded, downsampled bitmap and
// encodes bitmaps to JPEG. It holds no state between calls.
type Pipeline struct {
	codec   Codec
	quality int
	retry   filesystem.RetryConfig
}

// NewPipeline creates a Pipeline over codec.
func NewPipeline(codec Codec, config PipelineConfig) *Pipeline {
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = DefaultQuality
	}
	return &Pipeline{codec: codec, quality: config.Quality, retry: config.Retry}
}

// Quality returns the JPEG quality used by Encode.
func (p *Pipeline) Quality() int { return p.quality }

// Stat returns the source's file info, or a PreviewError wrapping
// ErrNotFound when path is missing or not a regular file.
func (p *Pipeline) Stat(path string) (os.FileInfo, error) {
	info, err := filesystem.StatWithRetry(path, p.retry)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, previewErr("stat", path, ErrNotFound, nil)
		}
		return nil, previewErr("stat", path, ErrNotFound, err)
	}
	if !info.Mode().IsRegular() {
		return nil, previewErr("stat", path, ErrNotFound, errors.New("not a regular file"))
	}
	return info, nil
}

// Decode produces the bitmap for path bounded by target. The source is
// probed, decoded at the integer downsample factor, and fitted into target
// if the factor alone did not bring it inside the box.
func (p *Pipeline) Decode(path string, target Dimensions) (image.Image, error) {
	if target.Width <= 0 || target.Height <= 0 {
		return nil, previewErr("decode", path, ErrInvalidTarget, nil)
	}

	format, err := p.sniff(path)
	if err != nil {
		return nil, err
	}
	metrics.PreviewDecodeByFormat.WithLabelValues(format).Inc()

	start := time.Now()
	src, err := p.codec.Probe(path)
	metrics.PreviewPhaseDuration.WithLabelValues("probe").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, p.decodeErr("probe", path, err)
	}
	if src.Width <= 0 || src.Height <= 0 {
		return nil, previewErr("probe", path, ErrDecode, fmt.Errorf("invalid dimensions %dx%d", src.Width, src.Height))
	}

	factor := DownsampleFactor(src, target)

	start = time.Now()
	img, err := p.codec.DecodeDownsampled(path, factor)
	if err != nil {
		metrics.PreviewPhaseDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())
		return nil, p.decodeErr("decode", path, err)
	}

	b := img.Bounds()
	if b.Dx() > target.Width || b.Dy() > target.Height {
		img = imaging.Fit(img, target.Width, target.Height, imaging.Lanczos)
	}
	metrics.PreviewPhaseDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())

	logging.Debug("Decoded %s (%s): %dx%d factor %d -> %dx%d",
		path, format, src.Width, src.Height, factor, img.Bounds().Dx(), img.Bounds().Dy())
	return img, nil
}

// Encode compresses img as JPEG at the pipeline quality.
func (p *Pipeline) Encode(path string, img image.Image) ([]byte, error) {
	start := time.Now()
	data, err := p.codec.Encode(img, p.quality)
	metrics.PreviewPhaseDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, previewErr("encode", path, ErrEncode, err)
	}
	return data, nil
}

// Produce runs the whole pipeline without caching.
func (p *Pipeline) Produce(path string, target Dimensions) ([]byte, error) {
	if _, err := p.Stat(path); err != nil {
		return nil, err
	}
	img, err := p.Decode(path, target)
	if err != nil {
		return nil, err
	}
	return p.Encode(path, img)
}

// sniff rejects sources whose content is not an image and returns the
// format label for metrics.
func (p *Pipeline) sniff(path string) (string, error) {
	file, err := filesystem.OpenWithRetry(path, p.retry)
	if err != nil {
		return "", p.decodeErr("open", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", previewErr("sniff", path, ErrDecode, err)
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		metrics.PreviewDecodeByFormat.WithLabelValues("unknown").Inc()
		return "", previewErr("sniff", path, ErrDecode, fmt.Errorf("content is %s", mtype.String()))
	}
	return strings.TrimPrefix(mtype.String(), "image/"), nil
}

func (p *Pipeline) decodeErr(op, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return previewErr(op, path, ErrNotFound, err)
	}
	return previewErr(op, path, ErrDecode, err)
}
