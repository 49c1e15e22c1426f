package deletion

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"media-screensaver/internal/filesystem"
)

// AuditTimeFormat is the timestamp layout of audit log lines.
const AuditTimeFormat = "2006-01-02 15:04:05"

// AuditLog appends one "<timestamp>: <path>" line per deletion. It never
// truncates or rotates the file.
type AuditLog struct {
	mu   sync.Mutex
	path string
}

// NewAuditLog returns a log writing to path. An empty path disables it.
func NewAuditLog(path string) *AuditLog {
	return &AuditLog{path: path}
}

// Path returns the log file location.
func (a *AuditLog) Path() string {
	return a.path
}

// Append records that path was deleted at t.
func (a *AuditLog) Append(t time.Time, path string) error {
	if a == nil || a.path == "" {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := filesystem.OpenFileWithRetry(a.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644, filesystem.DefaultRetryConfig())
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	line := fmt.Sprintf("%s: %s\n", t.Format(AuditTimeFormat), path)
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return f.Close()
}
