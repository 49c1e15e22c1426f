/*
Package filesystem wraps the os calls used by the screensaver with retry logic
for stale file handle errors.

Media roots frequently live on network shares (NAS photo folders, mapped
drives). A share that reconnects underneath a running session makes open
handles and cached directory entries stale; ESTALE is retried with exponential
backoff while every other error is returned immediately.

# Usage

	entries, err := filesystem.ReadDirWithRetry(dir, filesystem.DefaultRetryConfig())
	if err != nil {
	    return err
	}

	if err := filesystem.RemoveWithRetry(path, filesystem.DefaultRetryConfig()); err != nil {
	    // surface as a deletion failure
	}

# Retry Behavior

Defaults: 3 retries, 50ms initial backoff doubling up to 500ms.

# Metrics

Durations, retries and stale errors are reported through an Observer set with
SetObserver; the metrics package provides the Prometheus implementation.
*/
package filesystem
