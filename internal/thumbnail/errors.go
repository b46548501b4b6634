package thumbnail

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the source path does not exist or is not a regular file.
	ErrNotFound = errors.New("source not found")

	// ErrDecode means the source could not be decoded as an image.
	ErrDecode = errors.New("decode failed")

	// ErrEncode means the decoded preview could not be encoded.
	ErrEncode = errors.New("encode failed")

	// ErrInvalidTarget means the requested preview box has a non-positive side.
	ErrInvalidTarget = errors.New("invalid target dimensions")

	// ErrCancelled means the caller's context ended before the preview was ready.
	ErrCancelled = errors.New("preview cancelled")
)

// PreviewError is returned for every failed preview request.
type PreviewError struct {
	Op   string
	Path string
	Err  error
}

func (e *PreviewError) Error() string {
	return fmt.Sprintf("preview %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PreviewError) Unwrap() error { return e.Err }

func previewErr(op, path string, kind error, cause error) error {
	if cause == nil {
		return &PreviewError{Op: op, Path: path, Err: kind}
	}
	return &PreviewError{Op: op, Path: path, Err: fmt.Errorf("%w: %v", kind, cause)}
}

// statusLabel maps err onto the PreviewRequestsTotal status label.
func statusLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, ErrNotFound):
		return "error_not_found"
	case errors.Is(err, ErrEncode):
		return "error_encode"
	case errors.Is(err, ErrCancelled):
		return "cancelled"
	default:
		return "error_decode"
	}
}
