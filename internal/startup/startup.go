package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// ConfigName is the config file base name searched for in the working
// directory and /etc/media-catalog.
const ConfigName = "media-catalog"

// Config holds all application configuration
type Config struct {
	MediaRoot       string
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	LogHealthChecks bool
	LogLevel        string

	ScanBatchSize     int
	ScanFlushInterval time.Duration
	ScanSkipHidden    bool
	ScanMaxDepth      int
	ScanMaxResults    int

	PreviewCacheBytes int64
	PreviewWidth      int
	PreviewHeight     int
	PreviewQuality    int
	PreviewUseVips    bool

	// ConfigFile is the file the values were read from, if any
	ConfigFile string
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"root":      "media_root",
	"port":      "port",
	"log-level": "log_level",
	"vips":      "preview_use_vips",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("media_root", "/media")
	v.SetDefault("port", "8080")
	v.SetDefault("metrics_port", "9090")
	v.SetDefault("metrics_enabled", true)
	v.SetDefault("log_health_checks", false)
	v.SetDefault("log_level", "info")

	v.SetDefault("scan_batch_size", 20)
	v.SetDefault("scan_flush_interval", "500ms")
	v.SetDefault("scan_skip_hidden", false)
	v.SetDefault("scan_max_depth", 0)
	v.SetDefault("scan_max_results", 0)

	v.SetDefault("preview_cache_bytes", 20*1024*1024)
	v.SetDefault("preview_width", 800)
	v.SetDefault("preview_height", 800)
	v.SetDefault("preview_quality", 90)
	v.SetDefault("preview_use_vips", false)
}

// LoadConfig reads configuration from defaults, an optional YAML file, the
// environment and flags, in increasing precedence. configFile may be empty,
// in which case media-catalog.yaml is looked up but not required. flags may
// be nil.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/" + ConfigName)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	mediaRoot, err := filepath.Abs(v.GetString("media_root"))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve media root path: %w", err)
	}

	config := &Config{
		MediaRoot:       mediaRoot,
		Port:            v.GetString("port"),
		MetricsPort:     v.GetString("metrics_port"),
		MetricsEnabled:  v.GetBool("metrics_enabled"),
		LogHealthChecks: v.GetBool("log_health_checks"),
		LogLevel:        v.GetString("log_level"),

		ScanBatchSize:     positiveInt(v, "scan_batch_size", 20),
		ScanFlushInterval: positiveDuration(v, "scan_flush_interval", 500*time.Millisecond),
		ScanSkipHidden:    v.GetBool("scan_skip_hidden"),
		ScanMaxDepth:      nonNegativeInt(v, "scan_max_depth"),
		ScanMaxResults:    nonNegativeInt(v, "scan_max_results"),

		PreviewCacheBytes: int64(positiveInt(v, "preview_cache_bytes", 20*1024*1024)),
		PreviewWidth:      positiveInt(v, "preview_width", 800),
		PreviewHeight:     positiveInt(v, "preview_height", 800),
		PreviewQuality:    positiveInt(v, "preview_quality", 90),
		PreviewUseVips:    v.GetBool("preview_use_vips"),

		ConfigFile: v.ConfigFileUsed(),
	}

	if config.PreviewQuality > 100 {
		logging.Warn("Invalid PREVIEW_QUALITY %d, using default: 90", config.PreviewQuality)
		config.PreviewQuality = 90
	}

	if level, ok := logging.ParseLevel(config.LogLevel); ok {
		logging.SetLevel(level)
	} else {
		logging.Warn("Invalid LOG_LEVEL %q, using info", config.LogLevel)
		logging.SetLevel(logging.LevelInfo)
	}

	return config, nil
}

func positiveInt(v *viper.Viper, key string, def int) int {
	n := v.GetInt(key)
	if n <= 0 {
		logging.Warn("Invalid %s %q, using default: %d", strings.ToUpper(key), v.GetString(key), def)
		return def
	}
	return n
}

func nonNegativeInt(v *viper.Viper, key string) int {
	n := v.GetInt(key)
	if n < 0 {
		logging.Warn("Invalid %s %d, using default: 0 (unlimited)", strings.ToUpper(key), n)
		return 0
	}
	return n
}

func positiveDuration(v *viper.Viper, key string, def time.Duration) time.Duration {
	d := v.GetDuration(key)
	if d <= 0 {
		logging.Warn("Invalid %s %q, using default: %v", strings.ToUpper(key), v.GetString(key), def)
		return def
	}
	return d
}

// LogConfig prints the banner, system information and the loaded
// configuration.
func LogConfig(config *Config) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	if config.ConfigFile != "" {
		logging.Info("  Config file:          %s", config.ConfigFile)
	}
	logging.Info("  MEDIA_ROOT:           %s", config.MediaRoot)
	logging.Info("  PORT:                 %s", config.Port)
	logging.Info("  METRICS_PORT:         %s", config.MetricsPort)
	logging.Info("  METRICS_ENABLED:      %v", config.MetricsEnabled)
	logging.Info("  SCAN_BATCH_SIZE:      %d", config.ScanBatchSize)
	logging.Info("  SCAN_FLUSH_INTERVAL:  %v", config.ScanFlushInterval)
	logging.Info("  SCAN_SKIP_HIDDEN:     %v", config.ScanSkipHidden)
	logging.Info("  SCAN_MAX_DEPTH:       %s", limitString(config.ScanMaxDepth))
	logging.Info("  SCAN_MAX_RESULTS:     %s", limitString(config.ScanMaxResults))
	logging.Info("  PREVIEW_CACHE_BYTES:  %s", humanize.IBytes(uint64(config.PreviewCacheBytes)))
	logging.Info("  PREVIEW_SIZE:         %dx%d", config.PreviewWidth, config.PreviewHeight)
	logging.Info("  PREVIEW_QUALITY:      %d", config.PreviewQuality)
	logging.Info("  PREVIEW_USE_VIPS:     %v", config.PreviewUseVips)
	logging.Info("  LOG_HEALTH_CHECKS:    %v", config.LogHealthChecks)
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEDIA ROOT")
	logging.Info("------------------------------------------------------------")
	if err := checkMediaRoot(config.MediaRoot); err != nil {
		logging.Warn("  Media root issue: %v", err)
	}
}

func limitString(n int) string {
	if n == 0 {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

// LogMemoryConfig logs the outcome of memory.ConfigureFromEnv
func LogMemoryConfig(result memory.ConfigResult) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEMORY CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	if !result.Configured {
		logging.Info("  No memory limit configured (set MEMORY_LIMIT or GOMEMLIMIT)")
		return
	}

	switch result.Source {
	case "GOMEMLIMIT":
		logging.Info("  GOMEMLIMIT:      %s (from environment)", humanize.IBytes(uint64(result.GoMemLimit)))
	case "MEMORY_LIMIT":
		logging.Info("  Container limit: %s", humanize.IBytes(uint64(result.ContainerLimit)))
		logging.Info("  GOMEMLIMIT:      %s (%.0f%% of container)", humanize.IBytes(uint64(result.GoMemLimit)), result.Ratio*100)
	}
}

// LogPreviewInit logs which codec backs the preview pipeline
func LogPreviewInit(codec string, capacity int64) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("PREVIEW INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Codec:           %s", codec)
	logging.Info("  Cache capacity:  %s", humanize.IBytes(uint64(capacity)))
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		name := route.GetName()

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   name,
			})
		}

		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP SERVER SETUP")
	logging.Info("------------------------------------------------------------")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		logging.Debug("  Registered routes (%d total):", len(routes))
		logging.Debug("")

		groups := make(map[string][]RouteInfo)
		for _, route := range routes {
			prefix := getRouteGroup(route.Path)
			groups[prefix] = append(groups[prefix], route)
		}

		groupKeys := make([]string, 0, len(groups))
		for k := range groups {
			groupKeys = append(groupKeys, k)
		}
		sort.Strings(groupKeys)

		for _, group := range groupKeys {
			if group != "" {
				logging.Debug("  [%s]", group)
			} else {
				logging.Debug("  [root]")
			}

			for _, route := range groups[group] {
				logging.Debug("    %-6s %s", route.Method, route.Path)
			}
			logging.Debug("")
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// getRouteGroup extracts a group name from a route path
func getRouteGroup(path string) string {
	path = strings.TrimPrefix(path, "/")

	parts := strings.SplitN(path, "/", 2)
	first := parts[0]

	if first == "api" && len(parts) > 1 {
		subParts := strings.SplitN(parts[1], "/", 2)
		return "api/" + subParts[0]
	}

	return first
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SERVER STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    API:           http://0.0.0.0:%s/api", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
                    ___                 __        __
   ____ ___  ___  ____/ (_)___ _   _________ _/ /_____ _/ /___  ____ _
  / __ '__ \/ _ \/ __  / / __ '/  / ___/ __ '/ __/ __ '/ / __ \/ __ '/
 / / / / / /  __/ /_/ / / /_/ /  / /__/ /_/ / /_/ /_/ / / /_/ / /_/ /
/_/ /_/ /_/\___/\__,_/_/\__,_/   \___/\__,_/\__/\__,_/_/\____/\__, /
                                                            /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// checkMediaRoot verifies the media root is a readable directory. The root is
// expected to be mounted, so it is never created.
func checkMediaRoot(path string) error {
	logging.Debug("  Checking media root: %s", path)

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat media root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("media root is not readable: %w", err)
	}

	fileCount, dirCount := 0, 0
	for _, e := range entries {
		if e.IsDir() {
			dirCount++
		} else {
			fileCount++
		}
	}
	logging.Info("  [OK] %d files, %d directories (top level)", fileCount, dirCount)
	return nil
}
