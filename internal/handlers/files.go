package handlers

import (
	"net/http"
	"time"

	"media-catalog/internal/listing"
	"media-catalog/internal/logging"
)

// ListFiles returns the entries of the directory at ?path (default: the
// media root), directories first
func (h *Handlers) ListFiles(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dir := h.mediaRoot
	if p := r.URL.Query().Get("path"); p != "" {
		resolved, err := h.resolvePath(p)
		if err != nil {
			writeError(w, err)
			return
		}
		dir = resolved
	}

	records, err := listing.ListDirectory(h.lister, h.classifier, dir)
	if err != nil {
		writeError(w, err)
		return
	}

	logging.Debug("ListFiles %s: %d entries in %v", dir, len(records), time.Since(start))

	writeJSON(w, http.StatusOK, records)
}

// ListRoots returns the top-level directories of the media root
func (h *Handlers) ListRoots(w http.ResponseWriter, _ *http.Request) {
	dirs, err := listing.Directories(h.lister, h.mediaRoot)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dirs)
}
