package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"media-catalog/internal/filesystem"
	"media-catalog/internal/handlers"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/middleware"
	"media-catalog/internal/startup"
)

const (
	metricsInterval = time.Minute
	shutdownTimeout = 30 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	startTime := time.Now()

	startup.LogMemoryConfig(memory.ConfigureFromEnv())

	config, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	startup.LogConfig(config)

	metrics.InitializeMetrics()
	buildInfo := startup.GetBuildInfo()
	metrics.SetAppInfo(buildInfo.Version, buildInfo.Commit, buildInfo.GoVersion)
	filesystem.SetObserver(metrics.NewFilesystemObserver())

	svc, err := newServices(config)
	if err != nil {
		return err
	}
	defer svc.close()
	startup.LogPreviewInit(svc.codec, config.PreviewCacheBytes)

	monitor := memory.NewMonitor(memory.DefaultConfig())
	monitor.OnCritical(func() {
		svc.previews.ClearFor("memory_pressure")
	})
	monitor.Start()

	collector := metrics.NewCollector(svc, metricsInterval)
	collector.Start()

	h := handlers.New(svc.scans, svc.previews, svc.lister, svc.classifier, config)

	logConfig := middleware.DefaultLoggingConfig()
	logConfig.LogHealthChecks = config.LogHealthChecks
	router := h.Router(logConfig)
	startup.LogHTTPRoutes(router, config.LogHealthChecks)

	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // event streams stay open for the whole scan
		IdleTimeout:  60 * time.Second,
	}

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		metricsSrv = newMetricsServer(config.MetricsPort, h)
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Error("Metrics server error: %v", err)
			}
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.ListenAndServe()
	}()

	startup.LogServerStarted(startup.ServerConfig{
		Port:            config.Port,
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case sig := <-sigChan:
		startup.LogShutdownInitiated(sig.String())
	case err := <-serverErr:
		if !errors.Is(err, http.ErrServerClosed) {
			startup.LogFatal("Server error: %v", err)
		}
	}

	shutdown(srv, metricsSrv, svc, monitor, collector)
	return nil
}

func newMetricsServer(port string, h *handlers.Handlers) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           h.MetricsRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func shutdown(srv, metricsSrv *http.Server, svc *services, monitor *memory.Monitor, collector *metrics.Collector) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if active := svc.scans.Active(); active != nil {
		startup.LogShutdownStep("Cancelling scan " + active.ID())
		active.Cancel()
		startup.LogShutdownStepComplete("Scan cancellation requested")
	}

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	startup.LogShutdownStep("Stopping memory monitor")
	monitor.Stop()
	startup.LogShutdownStepComplete("Memory monitor stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownStep("Shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	} else {
		startup.LogShutdownStepComplete("HTTP server stopped")
	}

	startup.LogShutdownStep("Clearing preview cache")
	svc.previews.Clear()
	startup.LogShutdownStepComplete("Preview cache cleared")

	startup.LogShutdownComplete()
}
