package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"media-screensaver/internal/logging"
)

// TempPrefix starts the name of every temporary file WriteFileAtomic creates.
const TempPrefix = ".tmp-"

// IsTempFile reports whether path names a WriteFileAtomic temporary file.
func IsTempFile(path string) bool {
	return strings.HasPrefix(filepath.Base(path), TempPrefix)
}

// WriteFileAtomic replaces path with data by writing a temporary file in the
// same directory and renaming it over the original. An existing file keeps
// its permissions; a new one is created 0644. The temporary file carries no
// extension so directory watchers do not mistake it for media.
func WriteFileAtomic(path string, data []byte) error {
	perm := os.FileMode(0o644)
	info, err := StatWithRetry(path, DefaultRetryConfig())
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !os.IsNotExist(err):
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		logging.Warn("failed to preserve mode of %s: %v", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
