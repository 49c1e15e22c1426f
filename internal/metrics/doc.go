// Package metrics provides Prometheus instrumentation for the screensaver.
//
// All metrics are prefixed with "screensaver_" and registered with the default
// registry through promauto, so importing the package is enough to expose them
// once a /metrics handler is mounted (see internal/server).
//
// # Metric Categories
//
// ## Catalog
//   - CatalogEntries: current catalog size
//   - ScanRunsTotal, ScanDuration: background scan results and timing
//   - ScanFilesDiscovered, ScanErrors: discovery counters
//   - WatcherEventsTotal, WatcherErrors, WatchedDirectories: fsnotify watcher
//
// ## Sequencer
//   - NavigationTotal: cursor moves by direction and algorithm
//   - NavigationWaitDuration: time blocked waiting for the scan
//   - HistoryLength: random-selection history size
//
// ## Rotation and Deletion
//   - RotationsTotal: orientation writes by method (in_place, rewrite, vips, pixels)
//   - ExifReadsTotal: metadata reads by status
//   - DeletionsTotal: deletions by status
//   - NotificationsTotal: user-visible notifications by kind
//
// ## Filesystem
//   - FilesystemRetry*: stale file handle retries by operation
//   - FilesystemOperationDuration: operation timing including retries
//
// The filesystem package cannot import this package (cycle), so it records
// through the filesystem.Observer returned by NewFilesystemObserver.
package metrics
