package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"media-catalog/internal/logging"
)

// GetPreview returns a JPEG preview of the image at ?path, bounded by
// ?width and ?height (defaults from configuration)
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	p := query.Get("path")
	if p == "" {
		writeJSONError(w, http.StatusBadRequest, "path is required")
		return
	}

	fullPath, err := h.resolvePath(p)
	if err != nil {
		writeError(w, err)
		return
	}

	width, err := dimensionParam(query.Get("width"), h.previewSize.Width)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := dimensionParam(query.Get("height"), h.previewSize.Height)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.previews.Get(r.Context(), fullPath, width, height)
	if err != nil {
		logging.Debug("Preview %s failed: %v", fullPath, err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=60")
	if _, err := w.Write(data); err != nil {
		logging.Debug("Preview %s: client write failed: %v", fullPath, err)
	}
}

func dimensionParam(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid dimension %q", v)
	}
	return n, nil
}

// GetPreviewCacheStats returns the preview cache counters
func (h *Handlers) GetPreviewCacheStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, h.previews.Stats())
}

// ClearPreviewCache drops every cached preview
func (h *Handlers) ClearPreviewCache(w http.ResponseWriter, _ *http.Request) {
	h.previews.Clear()
	w.WriteHeader(http.StatusNoContent)
}
