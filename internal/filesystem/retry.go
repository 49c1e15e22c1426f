// Package filesystem provides utilities for filesystem operations with retry logic for network shares
package filesystem

import (
	"errors"
	"os"
	"syscall"
	"time"

	"media-screensaver/internal/logging"
)

// RetryConfig configures retry behavior for filesystem operations
type RetryConfig struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// DefaultRetryConfig returns sensible defaults for network share retry behavior
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: 50 * time.Millisecond,
		MaxBackoff:     500 * time.Millisecond,
	}
}

// isStaleError checks if an error is a stale file handle error
func isStaleError(err error) bool {
	if err == nil {
		return false
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.ESTALE
	}

	return false
}

// withRetry runs fn, retrying with exponential backoff while it fails with
// a stale file handle. Any other error is returned immediately.
func withRetry[T any](operation, path string, config RetryConfig, fn func() (T, error)) (T, error) {
	start := time.Now()
	obs := observe()
	defer func() {
		if obs != nil {
			obs.ObserveDuration(operation, time.Since(start).Seconds())
		}
	}()

	var zero T
	var lastErr error
	backoff := config.InitialBackoff

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		result, err := fn()
		if err == nil {
			if attempt > 0 {
				logging.Info("%s succeeded on retry %d for %s", operation, attempt, path)
				if obs != nil {
					obs.ObserveRetrySuccess(operation)
				}
			}
			return result, nil
		}

		lastErr = err

		if !isStaleError(err) {
			return zero, err
		}

		if obs != nil {
			obs.ObserveStaleError(operation)
		}

		// Don't sleep after the last attempt
		if attempt < config.MaxRetries {
			if obs != nil {
				obs.ObserveRetryAttempt(operation)
			}
			logging.Debug("%s stale file handle for %s, retrying in %v (attempt %d/%d)",
				operation, path, backoff, attempt+1, config.MaxRetries)
			time.Sleep(backoff)

			backoff *= 2
			if backoff > config.MaxBackoff {
				backoff = config.MaxBackoff
			}
		}
	}

	logging.Warn("%s failed after %d retries for %s: %v", operation, config.MaxRetries, path, lastErr)
	if obs != nil {
		obs.ObserveRetryFailure(operation)
	}
	return zero, lastErr
}

// StatWithRetry performs os.Stat with retry logic for stale file handle errors
func StatWithRetry(path string, config RetryConfig) (os.FileInfo, error) {
	return withRetry("stat", path, config, func() (os.FileInfo, error) {
		return os.Stat(path)
	})
}

// OpenWithRetry performs os.Open with retry logic for stale file handle errors
func OpenWithRetry(path string, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.Open(path)
	})
}

// OpenFileWithRetry performs os.OpenFile with retry logic for stale file handle errors
func OpenFileWithRetry(path string, flag int, perm os.FileMode, config RetryConfig) (*os.File, error) {
	return withRetry("open", path, config, func() (*os.File, error) {
		return os.OpenFile(path, flag, perm)
	})
}

// ReadDirWithRetry performs os.ReadDir with retry logic for stale file handle errors
func ReadDirWithRetry(path string, config RetryConfig) ([]os.DirEntry, error) {
	return withRetry("readdir", path, config, func() ([]os.DirEntry, error) {
		return os.ReadDir(path)
	})
}

// RemoveWithRetry performs os.Remove with retry logic for stale file handle errors
func RemoveWithRetry(path string, config RetryConfig) error {
	_, err := withRetry("remove", path, config, func() (struct{}, error) {
		return struct{}{}, os.Remove(path)
	})
	return err
}
