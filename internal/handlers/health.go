package handlers

import (
	"errors"
	"net/http"
	"runtime"
	"time"

	"media-catalog/internal/startup"
	"media-catalog/internal/thumbnail"
)

const (
	statusHealthy  = "healthy"
	statusDegraded = "degraded"
)

// HealthResponse contains the health check response
type HealthResponse struct {
	Status     string `json:"status"`
	Ready      bool   `json:"ready"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	MediaRoot  string `json:"mediaRoot"`
	RootError  string `json:"rootError,omitempty"`
	Scanning   bool   `json:"scanning"`
	ActiveScan string `json:"activeScan,omitempty"`

	PreviewCache thumbnail.CacheStats `json:"previewCache"`

	// System info
	GoVersion    string `json:"goVersion"`
	NumCPU       int    `json:"numCpu"`
	NumGoroutine int    `json:"numGoroutine"`
}

var errRootNotDirectory = errors.New("media root is not a directory")

// rootReady reports whether the media root can be listed.
func (h *Handlers) rootReady() error {
	info, err := h.lister.Stat(h.mediaRoot)
	if err != nil {
		return err
	}
	if !info.IsDir {
		return errRootNotDirectory
	}
	return nil
}

// HealthCheck returns the health status of the service
func (h *Handlers) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	response := HealthResponse{
		Status:       statusHealthy,
		Ready:        true,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		MediaRoot:    h.mediaRoot,
		Scanning:     h.scans.IsRunning(),
		PreviewCache: h.previews.Stats(),
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	if active := h.scans.Active(); active != nil {
		response.ActiveScan = active.ID()
	}

	if err := h.rootReady(); err != nil {
		response.Status = statusDegraded
		response.Ready = false
		response.RootError = err.Error()
	}

	status := http.StatusOK
	if !response.Ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, response)
}

// LivenessCheck is a simple liveness probe (always returns 200 if server is running)
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	// For HEAD requests, only send headers (no body)
	if r.Method == http.MethodHead {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessCheck returns 200 only when the media root is available
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, _ *http.Request) {
	if err := h.rootReady(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// GetVersion returns the application version and build information
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	writeJSON(w, http.StatusOK, startup.GetBuildInfo())
}
