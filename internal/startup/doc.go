// Package startup builds the configuration snapshot a screensaver session runs
// with and provides the startup/shutdown log sections.
//
// # Configuration
//
// [Load] reads the YAML settings file (see package settings) and then applies
// environment overrides:
//
//   - SETTINGS_FILE: settings file location (default: user config dir)
//   - MEDIA_DIRS: media roots, separated like PATH; a root may be a .wpl playlist
//   - ALGORITHM: sequential, random or random-no-repeat (or 0, 1, 2)
//   - INTERVAL: time each image is shown, Go duration or milliseconds
//   - VOLUME: video volume between 0 and 1
//   - VOLUME_TIMEOUT: mute video after this Go duration or number of minutes, 0 disables
//   - DELETE_LOG: audit log of deleted files (default: deleted.log next to settings)
//   - LOG_FILE: log destination while the console owns the terminal
//   - WATCH_ROOTS: pick up files created after the scan (default: false)
//   - METRICS_ENABLED: serve /metrics and /status (default: false)
//   - METRICS_ADDR: listen address for that server (default: 127.0.0.1:9090)
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//
// Environment values are not written back to the settings file.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
package startup
