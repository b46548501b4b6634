package thumbnail

import (
	"bytes"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Dimensions is a width and height in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// Pixels returns Width*Height.
func (d Dimensions) Pixels() int64 { return int64(d.Width) * int64(d.Height) }

// Codec is the image capability the pipeline depends on.
type Codec interface {
	// Probe reads the pixel dimensions of path without decoding pixel data.
	Probe(path string) (Dimensions, error)
	// DecodeDownsampled decodes path reduced by an integer factor >= 1.
	DecodeDownsampled(path string, factor int) (image.Image, error)
	// Encode compresses img to JPEG at quality (1-100).
	Encode(img image.Image, quality int) ([]byte, error)
}

// DownsampleFactor returns max(1, floor(min(src.W/target.W, src.H/target.H))).
func DownsampleFactor(src, target Dimensions) int {
	if target.Width <= 0 || target.Height <= 0 {
		return 1
	}
	factor := min(src.Width/target.Width, src.Height/target.Height)
	return max(1, factor)
}

// encodeJPEG flattens img onto white and encodes it as JPEG. Output is a
// pure function of img and quality.
func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	b := img.Bounds()
	flat := imaging.Overlay(imaging.New(b.Dx(), b.Dy(), color.White), img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
