package thumbnail

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodedSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	return cfg.Width, cfg.Height
}

func TestPipelineProduceBounded(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(NewImagingCodec(testRetry()))

	tests := []struct {
		name          string
		width, height int
		target        Dimensions
		wantW, wantH  int
	}{
		{"Not upscaled", 50, 40, Dimensions{800, 800}, 50, 40},
		{"Factor then fit", 400, 300, Dimensions{100, 100}, 100, 75},
		{"Exact factor", 400, 400, Dimensions{200, 200}, 200, 200},
		{"Tall source", 120, 600, Dimensions{100, 100}, 20, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := fixture(t, dir, tt.name+".png", tt.width, tt.height)

			data, err := p.Produce(path, tt.target)
			require.NoError(t, err)

			w, h := decodedSize(t, data)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
			assert.LessOrEqual(t, w, tt.target.Width)
			assert.LessOrEqual(t, h, tt.target.Height)
		})
	}
}

func TestPipelineErrors(t *testing.T) {
	dir := t.TempDir()
	p := newTestPipeline(NewImagingCodec(testRetry()))

	text := filepath.Join(dir, "notes.jpg")
	require.NoError(t, os.WriteFile(text, []byte("definitely not an image\n"), 0o644))

	corrupt := filepath.Join(dir, "corrupt.png")
	require.NoError(t, os.WriteFile(corrupt, append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xff}, 64)...), 0o644))

	valid := fixture(t, dir, "ok.png", 10, 10)

	tests := []struct {
		name   string
		path   string
		target Dimensions
		want   error
	}{
		{"Missing file", filepath.Join(dir, "missing.png"), Dimensions{800, 800}, ErrNotFound},
		{"Directory", dir, Dimensions{800, 800}, ErrNotFound},
		{"Not an image", text, Dimensions{800, 800}, ErrDecode},
		{"Corrupt image", corrupt, Dimensions{800, 800}, ErrDecode},
		{"Zero target", valid, Dimensions{0, 800}, ErrInvalidTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Produce(tt.path, tt.target)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *PreviewError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.path, pe.Path)
		})
	}
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "success", statusLabel(nil))
	assert.Equal(t, "error_not_found", statusLabel(previewErr("stat", "x", ErrNotFound, nil)))
	assert.Equal(t, "error_decode", statusLabel(previewErr("decode", "x", ErrDecode, errors.New("bad"))))
	assert.Equal(t, "error_encode", statusLabel(previewErr("encode", "x", ErrEncode, nil)))
	assert.Equal(t, "cancelled", statusLabel(previewErr("get", "x", ErrCancelled, context.Canceled)))
}

func TestNewPipelineQualityDefault(t *testing.T) {
	p := NewPipeline(NewImagingCodec(testRetry()), PipelineConfig{Quality: 0})
	assert.Equal(t, DefaultQuality, p.Quality())

	p = NewPipeline(NewImagingCodec(testRetry()), PipelineConfig{Quality: 75})
	assert.Equal(t, 75, p.Quality())
}
