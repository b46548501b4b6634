// Package startup loads configuration and provides the startup and shutdown
// log sections.
//
// # Configuration
//
// [LoadConfig] reads, in increasing precedence: built-in defaults, an
// optional YAML file (media-catalog.yaml in the working directory or
// /etc/media-catalog, or an explicit path), environment variables, and
// bound command-line flags. File keys are the lower-case forms of the
// environment variables:
//
//   - MEDIA_ROOT: Directory served and scanned (default: /media)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: false)
//   - SCAN_BATCH_SIZE: Paths per progress event (default: 20)
//   - SCAN_FLUSH_INTERVAL: Longest wait before a partial batch is sent (default: 500ms)
//   - SCAN_SKIP_HIDDEN: Skip dot-files and dot-directories (default: false)
//   - SCAN_MAX_DEPTH, SCAN_MAX_RESULTS: Default scan limits, 0 for none
//   - PREVIEW_CACHE_BYTES: Decoded preview budget (default: 20MiB)
//   - PREVIEW_WIDTH, PREVIEW_HEIGHT: Default preview box (default: 800x800)
//   - PREVIEW_QUALITY: JPEG quality (default: 90)
//   - PREVIEW_USE_VIPS: Decode through libvips (default: false)
//
// Memory limits (MEMORY_LIMIT, MEMORY_RATIO, GOMEMLIMIT) are handled by the
// memory package; [LogMemoryConfig] reports the outcome.
//
// Invalid values are logged and replaced with their defaults.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//
//	go build -ldflags "-X media-catalog/internal/startup.Version=1.2.0"
//
// # Example Usage
//
//	config, err := startup.LoadConfig(configFile, cmd.Flags())
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//	startup.LogConfig(config)
//
//	// Start server...
//	startup.LogServerStarted(startup.ServerConfig{
//	    Port:            config.Port,
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	startup.LogShutdownComplete()
package startup
