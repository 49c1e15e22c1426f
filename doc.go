// Package main provides the entry point for media-screensaver.
//
// media-screensaver shows the photos and videos found under a set of folders
// or Windows Media Player playlists, one file at a time. While a file is on
// screen it can be rotated, deleted from disk or skipped, and the overlay
// shows its EXIF description, capture date and camera.
//
// # Application Lifecycle
//
// The run command follows this sequence:
//
//  1. Configuration Loading: reads the settings file and environment overrides
//  2. libvips Initialization: enables the re-encode fallback for JPEG rotation
//  3. Log Redirection: sends logs to LOG_FILE while the terminal is in raw mode
//  4. Status Server: serves /healthz, /status and /metrics (if enabled)
//  5. Media Discovery: walks the roots in the background; the first file is
//     shown as soon as it is found
//  6. Slideshow: advances every interval and waits for videos to finish
//  7. Shutdown: on q, Esc, s, end of input or SIGINT/SIGTERM
//
// # Environment Variables
//
//   - SETTINGS_FILE: settings file (default: media-screensaver/settings.yaml
//     under the user config directory)
//   - MEDIA_DIRS: media roots, separated by the OS list separator
//   - ALGORITHM: sequential, random or random-no-repeat
//   - INTERVAL: slide interval as a duration or milliseconds
//   - VOLUME: video volume between 0 and 1
//   - VOLUME_TIMEOUT: minutes until videos are muted (0 disables)
//   - DELETE_LOG: audit log of deleted files
//   - LOG_FILE: log destination while the console runs
//   - WATCH_ROOTS: pick up files added after the scan (default: false)
//   - METRICS_ENABLED: start the status server (default: false)
//   - METRICS_ADDR: status server address (default: 127.0.0.1:9090)
//   - LOG_LEVEL: logging level (debug/info/warn/error)
//
// Environment overrides apply to one run and are never written back to the
// settings file. Use the config subcommands to change saved settings.
//
// # Build Requirements
//
// libvips is linked through CGO. Without a working libvips at runtime JPEG
// rotations fall back to lossless metadata rewrites only.
//
// # Related Packages
//
//   - [media-screensaver/internal/catalog]: media discovery
//   - [media-screensaver/internal/sequencer]: selection order and history
//   - [media-screensaver/internal/rotation]: user rotation
//   - [media-screensaver/internal/deletion]: delete and audit
//   - [media-screensaver/internal/session]: the slideshow state machine
//   - [media-screensaver/internal/console]: terminal front end
//   - [media-screensaver/internal/cli]: command tree
package main
