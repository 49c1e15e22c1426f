package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Catalog metrics
var (
	CatalogEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_catalog_entries",
			Help: "Number of media entries currently in the catalog",
		},
	)

	ScanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_scan_runs_total",
			Help: "Total number of catalog scans by result",
		},
		[]string{"result"}, // "complete", "cancelled"
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screensaver_scan_duration_seconds",
			Help:    "Duration of catalog scans in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
		},
	)

	ScanFilesDiscovered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_scan_files_discovered_total",
			Help: "Total number of media files appended to the catalog",
		},
	)

	ScanErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_scan_errors_total",
			Help: "Total number of scan errors by kind",
		},
		[]string{"kind"}, // "missing_root", "readdir", "playlist"
	)

	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screensaver_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_watched_directories",
			Help: "Number of directories watched for new media",
		},
	)
)

// Sequencer metrics
var (
	NavigationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_navigation_total",
			Help: "Total number of cursor moves by direction and algorithm",
		},
		[]string{"direction", "algorithm"},
	)

	NavigationWaitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "screensaver_navigation_wait_seconds",
			Help:    "Time spent waiting for the scan to reach a requested index",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)

	HistoryLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_history_length",
			Help: "Number of entries in the random selection history",
		},
	)
)

// Rotation and deletion metrics
var (
	RotationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_rotations_total",
			Help: "Total number of rotation writes by method and status",
		},
		[]string{"method", "status"},
	)

	ExifReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_exif_reads_total",
			Help: "Total number of EXIF reads by status",
		},
		[]string{"status"},
	)

	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_deletions_total",
			Help: "Total number of deletions by status",
		},
		[]string{"status"}, // "success", "disk_error"
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_notifications_total",
			Help: "Total number of user notifications by kind",
		},
		[]string{"kind"},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retries after stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screensaver_filesystem_stale_errors_total",
			Help: "Total number of stale file handle errors",
		},
		[]string{"operation"},
	)

	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screensaver_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations including retries",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"operation"},
	)
)

// Session metrics
var (
	SessionInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "screensaver_session_info",
			Help: "Session information (always 1)",
		},
		[]string{"version", "algorithm"},
	)

	SessionPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screensaver_session_paused",
			Help: "Whether the slideshow is paused (1 = paused)",
		},
	)
)
