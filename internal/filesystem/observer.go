package filesystem

// Observer records filesystem operation metrics. The implementation lives in
// the metrics package to break the import cycle between the two.
type Observer interface {
	// ObserveDuration records the total time of an operation including retries.
	// operation is one of "stat", "open", "readdir", "remove".
	ObserveDuration(operation string, durationSeconds float64)

	ObserveRetryAttempt(operation string)
	ObserveRetrySuccess(operation string)
	ObserveRetryFailure(operation string)
	ObserveStaleError(operation string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// observe is a nil-safe helper for the package-level observer.
func observe() Observer {
	return defaultObserver
}
