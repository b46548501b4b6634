package handlers

import (
	"errors"
	"path/filepath"
	"strings"
)

var errOutsideRoot = errors.New("path is outside the media root")

// resolvePath maps a request path onto the filesystem. Relative paths are
// taken from the media root; absolute paths must already lie inside it.
func (h *Handlers) resolvePath(p string) (string, error) {
	var full string
	if filepath.IsAbs(p) {
		full = filepath.Clean(p)
	} else {
		full = filepath.Join(h.mediaRoot, p)
	}

	if !isSubPath(h.mediaRoot, full) {
		return "", errOutsideRoot
	}
	return full, nil
}

func isSubPath(parent, child string) bool {
	parent, child = filepath.Clean(parent), filepath.Clean(child)
	if child == parent {
		return true
	}
	if parent == string(filepath.Separator) {
		return strings.HasPrefix(child, parent)
	}
	return strings.HasPrefix(child, parent+string(filepath.Separator))
}
