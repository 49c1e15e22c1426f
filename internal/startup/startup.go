package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"media-screensaver/internal/logging"
	"media-screensaver/internal/sequencer"
	"media-screensaver/internal/settings"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// DefaultMetricsAddr keeps the metrics listener on loopback.
const DefaultMetricsAddr = "127.0.0.1:9090"

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

// Config is the configuration snapshot a session is started from.
type Config struct {
	Roots         []string
	Algorithm     sequencer.Algorithm
	Interval      time.Duration
	Volume        float64
	VolumeTimeout time.Duration
	DeleteLog     string
	SettingsPath  string
	LogFile       string
	WatchRoots    bool

	MetricsEnabled bool
	MetricsAddr    string

	// Store is the settings file the snapshot was read from.
	Store *settings.Store
}

// LoadConfig prints the startup banner, loads the configuration and logs it.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	config, err := Load()
	if err != nil {
		return nil, err
	}
	logConfig(config)
	return config, nil
}

// Load reads the settings file and applies environment overrides without
// logging anything.
func Load() (*Config, error) {
	settingsPath := os.Getenv("SETTINGS_FILE")
	if settingsPath == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate settings file: %w", err)
		}
		settingsPath = p
	}

	store, err := settings.Open(settingsPath)
	if err != nil {
		return nil, err
	}
	saved := store.Get()

	config := &Config{
		Roots:          saved.Folders,
		Algorithm:      sequencer.Algorithm(saved.Algorithm),
		Interval:       saved.Interval(),
		Volume:         saved.Volume,
		VolumeTimeout:  saved.VolumeTimeout(),
		DeleteLog:      getEnv("DELETE_LOG", defaultDeleteLog(settingsPath)),
		SettingsPath:   settingsPath,
		LogFile:        getEnv("LOG_FILE", filepath.Join(filepath.Dir(settingsPath), "media-screensaver.log")),
		WatchRoots:     getEnvBool("WATCH_ROOTS", false),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", false),
		MetricsAddr:    getEnv("METRICS_ADDR", DefaultMetricsAddr),
		Store:          store,
	}
	if !config.Algorithm.Valid() {
		config.Algorithm = sequencer.Sequential
	}

	if dirs := getEnvList("MEDIA_DIRS"); len(dirs) > 0 {
		config.Roots = dirs
	}
	if v := os.Getenv("ALGORITHM"); v != "" {
		alg, err := sequencer.ParseAlgorithm(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ALGORITHM: %w", err)
		}
		config.Algorithm = alg
	}
	if v := os.Getenv("INTERVAL"); v != "" {
		d, err := ParseInterval(v)
		if err != nil {
			return nil, fmt.Errorf("invalid INTERVAL: %w", err)
		}
		config.Interval = d
	}
	if v := os.Getenv("VOLUME"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid VOLUME: %w", err)
		}
		config.Volume = f
	}
	if v := os.Getenv("VOLUME_TIMEOUT"); v != "" {
		d, err := parseMinutes(v)
		if err != nil {
			return nil, fmt.Errorf("invalid VOLUME_TIMEOUT: %w", err)
		}
		config.VolumeTimeout = d
	}

	config.Volume = min(max(config.Volume, 0), 1)
	if config.Interval <= 0 {
		config.Interval = settings.DefaultInterval
	}

	roots := make([]string, 0, len(config.Roots))
	for _, r := range config.Roots {
		abs, err := filepath.Abs(r)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve media root %q: %w", r, err)
		}
		roots = append(roots, abs)
	}
	config.Roots = roots

	return config, nil
}

// ParseInterval accepts a Go duration ("8s") or a bare number of milliseconds.
func ParseInterval(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.Atoi(s); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("interval must not be negative: %d", ms)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("interval must not be negative: %s", s)
	}
	return d, nil
}

// parseMinutes accepts a Go duration or a bare number of minutes.
func parseMinutes(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if m, err := strconv.Atoi(s); err == nil {
		return time.Duration(max(m, 0)) * time.Minute, nil
	}
	return time.ParseDuration(s)
}

func defaultDeleteLog(settingsPath string) string {
	return filepath.Join(filepath.Dir(settingsPath), "deleted.log")
}

func logConfig(config *Config) {
	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  SETTINGS_FILE:       %s", config.SettingsPath)
	logging.Info("  MEDIA_DIRS:          %s", strings.Join(config.Roots, string(filepath.ListSeparator)))
	logging.Info("  ALGORITHM:           %s", config.Algorithm)
	logging.Info("  INTERVAL:            %v", config.Interval)
	logging.Info("  VOLUME:              %.2f", config.Volume)
	logging.Info("  VOLUME_TIMEOUT:      %v", config.VolumeTimeout)
	logging.Info("  DELETE_LOG:          %s", config.DeleteLog)
	logging.Info("  LOG_FILE:            %s", config.LogFile)
	logging.Info("  WATCH_ROOTS:         %v", config.WatchRoots)
	logging.Info("  METRICS_ENABLED:     %v", config.MetricsEnabled)
	logging.Info("  METRICS_ADDR:        %s", config.MetricsAddr)
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("MEDIA ROOTS")
	logging.Info("------------------------------------------------------------")
	if len(config.Roots) == 0 {
		logging.Warn("  No media roots configured")
	}
	for _, root := range config.Roots {
		checkRoot(root)
	}
	logging.Info("")
}

func checkRoot(path string) {
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		logging.Warn("  [MISSING] %s", path)
	case err != nil:
		logging.Warn("  [ERROR]   %s: %v", path, err)
	case info.IsDir():
		logging.Info("  [OK]      %s", path)
		if logging.IsDebugEnabled() {
			if entries, err := os.ReadDir(path); err == nil {
				logging.Debug("    Contents: %d entries (top level)", len(entries))
			}
		}
	case strings.EqualFold(filepath.Ext(path), ".wpl"):
		logging.Info("  [PLAYLIST] %s", path)
	default:
		logging.Warn("  [SKIPPED] %s is not a directory or playlist", path)
	}
}

// LogScanStarted logs the start of media discovery
func LogScanStarted(roots []string) {
	logging.Info("------------------------------------------------------------")
	logging.Info("MEDIA DISCOVERY")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Scanning %d root(s) in the background", len(roots))
}

// LogVipsInit logs whether libvips is available for rotation fallback
func LogVipsInit(available bool) {
	if available {
		logging.Info("  [OK] libvips available for rotation fallback")
	} else {
		logging.Warn("  libvips unavailable, JPEG rotations rely on metadata rewrites only")
	}
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

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs the routes of the local status server at debug level
func LogHTTPRoutes(router *mux.Router, addr string) {
	logging.Info("  Status server listening on http://%s", addr)
	if !logging.IsDebugEnabled() {
		return
	}

	routes, err := GetRoutes(router)
	if err != nil {
		logging.Debug("  Failed to list routes: %v", err)
		return
	}
	for _, route := range routes {
		logging.Debug("    %-6s %s", route.Method, route.Path)
	}
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(reason string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (%s)", reason)
	logging.Info("------------------------------------------------------------")
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
  media-screensaver
------------------------------------------------------------`
	logging.Info("%s", banner)
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

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
	}

	logging.Info("")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// getEnvList splits a path-list variable (":" on Unix, ";" on Windows).
func getEnvList(key string) []string {
	var out []string
	for _, part := range filepath.SplitList(os.Getenv(key)) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
