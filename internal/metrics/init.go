package metrics

// InitializeMetrics pre-populates the expected label combinations so every
// metric is exported from the first scrape. Call it once at startup.
func InitializeMetrics(version, algorithm string) {
	for _, result := range []string{"complete", "cancelled"} {
		ScanRunsTotal.WithLabelValues(result)
	}
	for _, kind := range []string{"missing_root", "readdir", "playlist"} {
		ScanErrors.WithLabelValues(kind)
	}

	for _, direction := range []string{"next", "previous"} {
		NavigationTotal.WithLabelValues(direction, algorithm)
	}

	for _, method := range []string{"in_place", "rewrite", "vips", "pixels"} {
		for _, status := range []string{"success", "error"} {
			RotationsTotal.WithLabelValues(method, status)
		}
	}

	for _, status := range []string{"success", "error", "unavailable"} {
		ExifReadsTotal.WithLabelValues(status)
	}

	for _, status := range []string{"success", "disk_error"} {
		DeletionsTotal.WithLabelValues(status)
	}

	for _, op := range []string{"stat", "open", "readdir", "remove"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetrySuccess.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
		FilesystemStaleErrors.WithLabelValues(op)
		FilesystemOperationDuration.WithLabelValues(op)
	}

	SessionInfo.WithLabelValues(version, algorithm).Set(1)
}
