// Command media-catalog scans media directories for files by extension and
// serves bounded JPEG previews of images.
//
// # Commands
//
//	media-catalog serve             run the HTTP API and metrics server
//	media-catalog scan [dir]        print matching paths (--ext, --category)
//	media-catalog preview <image>   write a JPEG preview to a file
//	media-catalog ls [dir]          list a directory with file categories
//	media-catalog version           print build information
//
// # Application Lifecycle
//
// serve follows a fixed initialization sequence:
//
//  1. Memory Configuration: sets GOMEMLIMIT from MEMORY_LIMIT if not set
//  2. Configuration Loading: defaults, media-catalog.yaml, environment, flags
//  3. Metrics: registers Prometheus collectors and the filesystem observer
//  4. Components:
//     - Preview cache over the pure-Go or libvips decoder
//     - Scan coordinator over an NFS-retrying directory lister
//     - Memory monitor that clears the preview cache under pressure
//     - Metrics collector that publishes cache and scan gauges
//  5. HTTP Server Setup: routes, logging and metrics middleware
//  6. Graceful Shutdown: SIGINT/SIGTERM cancel the active scan and stop
//     every component before the servers close (30s timeout)
//
// # Environment Variables
//
// Every configuration key may be set through the environment:
//
//   - MEDIA_ROOT: directory scans and previews are confined to (default: /media)
//   - PORT: main HTTP server port (default: 8080)
//   - METRICS_PORT: metrics server port (default: 9090)
//   - METRICS_ENABLED: enable the metrics server (default: true)
//   - LOG_LEVEL: debug, info, warn or error
//   - SCAN_BATCH_SIZE, SCAN_FLUSH_INTERVAL: progress batching
//   - SCAN_MAX_DEPTH, SCAN_MAX_RESULTS: default scan bounds (0 = unlimited)
//   - PREVIEW_CACHE_BYTES: decoded-bitmap budget of the preview cache
//   - PREVIEW_WIDTH, PREVIEW_HEIGHT, PREVIEW_QUALITY: preview defaults
//   - PREVIEW_USE_VIPS: decode through libvips (requires CGO)
//   - PREVIEW_WORKERS, PREVIEW_WARM_WORKERS: preview decode and warm concurrency
//   - GOMEMLIMIT, MEMORY_LIMIT, MEMORY_RATIO: memory limit configuration
//
// # Related Packages
//
//   - [media-catalog/internal/scan]: single-flight directory scans
//   - [media-catalog/internal/thumbnail]: preview pipeline and LRU cache
//   - [media-catalog/internal/listing]: directory listing and file records
//   - [media-catalog/internal/catalog]: extension classification
//   - [media-catalog/internal/handlers]: HTTP API
//   - [media-catalog/internal/startup]: configuration and startup logging
package main
