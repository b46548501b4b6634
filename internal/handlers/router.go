package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"media-catalog/internal/middleware"
)

// Router builds the API router with request logging and metrics middleware
func (h *Handlers) Router(logConfig middleware.LoggingConfig) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Logger(logConfig))
	r.Use(middleware.Metrics(middleware.DefaultMetricsConfig()))

	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead).Name("liveness")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet).Name("readiness")
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet).Name("health")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet).Name("version")

	api.HandleFunc("/scans", h.StartScan).Methods(http.MethodPost).Name("startScan")
	api.HandleFunc("/scans/{id}", h.GetScan).Methods(http.MethodGet).Name("getScan")
	api.HandleFunc("/scans/{id}", h.CancelScan).Methods(http.MethodDelete).Name("cancelScan")
	api.HandleFunc("/scans/{id}/events", h.ScanEvents).Methods(http.MethodGet).Name("scanEvents")

	api.HandleFunc("/preview", h.GetPreview).Methods(http.MethodGet).Name("preview")
	api.HandleFunc("/preview/cache", h.GetPreviewCacheStats).Methods(http.MethodGet).Name("previewCacheStats")
	api.HandleFunc("/preview/cache", h.ClearPreviewCache).Methods(http.MethodDelete).Name("clearPreviewCache")

	api.HandleFunc("/files", h.ListFiles).Methods(http.MethodGet).Name("listFiles")
	api.HandleFunc("/roots", h.ListRoots).Methods(http.MethodGet).Name("listRoots")

	return r
}

// MetricsRouter serves Prometheus metrics and a liveness probe for the
// separate metrics listener.
func (h *Handlers) MetricsRouter() *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/health", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	return r
}
