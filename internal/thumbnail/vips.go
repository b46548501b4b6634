package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/disintegration/imaging"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/logging"
)

// ErrVipsUnavailable is returned by VipsCodec when libvips has not been started.
var ErrVipsUnavailable = errors.New("libvips not available")

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
	vipsAvailable   bool
)

// vipsLogBridge maps the application log level onto libvips' own level and
// returns a handler that forwards libvips messages to the logging package.
func vipsLogBridge(level logging.LogLevel) (vips.LogLevel, func(string, vips.LogLevel, string)) {
	switch level {
	case logging.LevelDebug:
		return vips.LogLevelInfo, func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			default:
				logging.Debug("[%s] %s", domain, msg)
			}
		}
	case logging.LevelInfo:
		return vips.LogLevelWarning, func(domain string, level vips.LogLevel, msg string) {
			switch level {
			case vips.LogLevelError, vips.LogLevelCritical:
				logging.Error("[%s] %s", domain, msg)
			case vips.LogLevelWarning:
				logging.Warn("[%s] %s", domain, msg)
			}
		}
	case logging.LevelWarn:
		return vips.LogLevelError, func(domain string, level vips.LogLevel, msg string) {
			if level >= vips.LogLevelError {
				logging.Error("[%s] %s", domain, msg)
			}
		}
	default:
		return vips.LogLevelCritical, func(domain string, level vips.LogLevel, msg string) {
			if level >= vips.LogLevelCritical {
				logging.Error("[%s] %s", domain, msg)
			}
		}
	}
}

// InitVips starts libvips. Call once at startup, before any VipsCodec use.
// govips cannot restart libvips after ShutdownVips in the same process.
func InitVips() error {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return nil
	}

	// Logging must be configured before Startup
	vipsLogLevel, logHandler := vipsLogBridge(logging.GetLevel())
	vips.LoggingSettings(logHandler, vipsLogLevel)

	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
		ReportLeaks:      false,
		CacheTrace:       false,
		CollectStats:     false,
	})

	vipsInitialized = true
	vipsAvailable = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
	return nil
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		vipsAvailable = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether libvips is initialized.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsAvailable
}

// VipsCodec decodes through libvips, which shrinks during decode instead of
// materializing the full-resolution source.
type VipsCodec struct{}

// NewVipsCodec creates a VipsCodec. InitVips must have succeeded.
func NewVipsCodec() *VipsCodec { return &VipsCodec{} }

// Probe implements Codec.
func (c *VipsCodec) Probe(path string) (Dimensions, error) {
	if !IsVipsAvailable() {
		return Dimensions{}, ErrVipsUnavailable
	}

	ref, err := vips.LoadImageFromFile(path, vips.NewImportParams())
	if err != nil {
		return Dimensions{}, fmt.Errorf("vips failed to load header: %w", err)
	}
	defer ref.Close()

	return Dimensions{Width: ref.Width(), Height: ref.Height()}, nil
}

// DecodeDownsampled implements Codec.
func (c *VipsCodec) DecodeDownsampled(path string, factor int) (image.Image, error) {
	dims, err := c.Probe(path)
	if err != nil {
		return nil, err
	}
	factor = max(1, factor)
	w, h := max(1, dims.Width/factor), max(1, dims.Height/factor)

	logging.Debug("Loading %s with vips: %dx%d, shrinking by %d to %dx%d",
		filepath.Base(path), dims.Width, dims.Height, factor, w, h)

	ref, err := vips.LoadThumbnailFromFile(path, w, h, vips.InterestingNone, vips.SizeDown, vips.NewImportParams())
	if err != nil {
		return nil, fmt.Errorf("vips thumbnail failed: %w", err)
	}
	defer ref.Close()

	// PNG keeps the alpha channel for the shared flattening step
	params := vips.NewPngExportParams()
	params.Compression = 1
	imgBytes, _, err := ref.ExportPng(params)
	if err != nil {
		return nil, fmt.Errorf("vips export failed: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to decode vips output: %w", err)
	}
	return img, nil
}

// Encode implements Codec.
func (c *VipsCodec) Encode(img image.Image, quality int) ([]byte, error) {
	return encodeJPEG(img, quality)
}

// NewCodec returns a VipsCodec when useVips is set and libvips starts,
// otherwise an ImagingCodec.
func NewCodec(useVips bool, retry filesystem.RetryConfig) Codec {
	if useVips {
		if err := InitVips(); err != nil {
			logging.Warn("libvips unavailable, falling back to pure-Go decoding: %v", err)
		} else {
			return NewVipsCodec()
		}
	}
	return NewImagingCodec(retry)
}
