package deletion

import (
	"errors"
	"fmt"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/metrics"
	"media-screensaver/internal/sequencer"
)

// DiskError reports that an entry left the rotation but its file could not be
// removed from disk.
type DiskError struct {
	Path string
	Err  error
}

func (e *DiskError) Error() string {
	return fmt.Sprintf("could not delete %s: %v", e.Path, e.Err)
}

func (e *DiskError) Unwrap() error {
	return e.Err
}

// Remover removes an entry from the catalog and reconciles the selection in
// one step. *sequencer.Sequencer implements it.
type Remover interface {
	Remove(index int) (catalog.Entry, error)
}

// Coordinator deletes media files.
type Coordinator struct {
	remover Remover
	audit   *AuditLog
	retry   filesystem.RetryConfig
	now     func() time.Time
}

// New creates a Coordinator. audit may be nil.
func New(remover Remover, audit *AuditLog) *Coordinator {
	return &Coordinator{
		remover: remover,
		audit:   audit,
		retry:   filesystem.DefaultRetryConfig(),
		now:     time.Now,
	}
}

// Delete removes the entry at index from the rotation, deletes its file and
// records the deletion in the audit log. The entry is not restored when the
// file cannot be deleted; that failure is returned as a *DiskError. When the
// catalog is left empty the error also matches sequencer.ErrNoFiles.
func (c *Coordinator) Delete(index int) (catalog.Entry, error) {
	entry, err := c.remover.Remove(index)
	empty := errors.Is(err, sequencer.ErrNoFiles)
	if err != nil && !empty {
		return entry, err
	}

	var diskErr error
	if rmErr := filesystem.RemoveWithRetry(entry.Path, c.retry); rmErr != nil {
		logging.Error("Failed to delete %s: %v", entry.Path, rmErr)
		metrics.DeletionsTotal.WithLabelValues("disk_error").Inc()
		diskErr = &DiskError{Path: entry.Path, Err: rmErr}
	} else {
		logging.Info("Deleted %s", entry.Path)
		metrics.DeletionsTotal.WithLabelValues("success").Inc()
	}

	if auditErr := c.audit.Append(c.now(), entry.Path); auditErr != nil {
		logging.Warn("Failed to record deletion of %s: %v", entry.Path, auditErr)
	}

	switch {
	case diskErr != nil && empty:
		return entry, errors.Join(diskErr, sequencer.ErrNoFiles)
	case diskErr != nil:
		return entry, diskErr
	case empty:
		return entry, sequencer.ErrNoFiles
	}
	return entry, nil
}
