package catalog

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/metrics"
	"media-screensaver/internal/playlist"
)

// StartScan walks roots on a background goroutine. The catalog is marked
// in progress before StartScan returns, so WaitForIndex called right after it
// blocks for the first entries instead of reporting an empty catalog.
func (c *Catalog) StartScan(ctx context.Context, roots []string) error {
	ctx, cancel := context.WithCancel(ctx)
	if err := c.begin(cancel); err != nil {
		cancel()
		return err
	}
	go func() {
		defer cancel()
		c.run(ctx, roots)
	}()
	return nil
}

// Scan walks roots synchronously and returns once the walk has completed or
// ctx was cancelled. Cancellation is not an error.
func (c *Catalog) Scan(ctx context.Context, roots []string) error {
	ctx, cancel := context.WithCancel(ctx)
	if err := c.begin(cancel); err != nil {
		cancel()
		return err
	}
	defer cancel()
	c.run(ctx, roots)
	return nil
}

// StartFeed fills the catalog from paths instead of walking directories.
// The scan is in progress until paths is closed, which completes it, or ctx
// is cancelled.
func (c *Catalog) StartFeed(ctx context.Context, paths <-chan string) error {
	ctx, cancel := context.WithCancel(ctx)
	if err := c.begin(cancel); err != nil {
		cancel()
		return err
	}
	go func() {
		defer cancel()
		c.feed(ctx, paths)
	}()
	return nil
}

func (c *Catalog) feed(ctx context.Context, paths <-chan string) {
	start := time.Now()
	final := ScanComplete

loop:
	for {
		select {
		case <-ctx.Done():
			final = ScanCancelled
			break loop
		case p, ok := <-paths:
			if !ok {
				break loop
			}
			c.Append(p)
		}
	}

	metrics.ScanDuration.Observe(time.Since(start).Seconds())
	metrics.ScanRunsTotal.WithLabelValues(final.String()).Inc()
	c.setState(final)
	close(c.done)
}

// Stop cancels a running scan and waits for it to finish. It is safe to call
// when no scan was started.
func (c *Catalog) Stop() {
	c.mu.Lock()
	cancel := c.cancel
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-c.done
}

func (c *Catalog) begin(cancel context.CancelFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != ScanIdle {
		return ErrScanStarted
	}
	c.cancel = cancel
	c.state.Store(int32(ScanInProgress))
	c.broadcast()
	return nil
}

func (c *Catalog) run(ctx context.Context, roots []string) {
	start := time.Now()
	logging.Info("Catalog scan started for %d root(s)", len(roots))

	for _, root := range roots {
		if ctx.Err() != nil {
			break
		}
		c.scanRoot(ctx, root)
	}

	final := ScanComplete
	if ctx.Err() != nil {
		final = ScanCancelled
	}

	elapsed := time.Since(start)
	metrics.ScanDuration.Observe(elapsed.Seconds())
	metrics.ScanRunsTotal.WithLabelValues(final.String()).Inc()
	logging.Info("Catalog scan %s: %d entries in %v", final, c.Count(), elapsed.Round(time.Millisecond))

	c.setState(final)
	close(c.done)
}

func (c *Catalog) scanRoot(ctx context.Context, root string) {
	root = filepath.Clean(root)

	info, err := filesystem.StatWithRetry(root, c.retry)
	if err != nil {
		logging.Warn("Skipping root %s: %v", root, err)
		metrics.ScanErrors.WithLabelValues("missing_root").Inc()
		return
	}

	if !info.IsDir() {
		if mediatypes.KindOf(root) == mediatypes.FileTypePlaylist {
			c.scanPlaylist(ctx, root)
			return
		}
		logging.Warn("Skipping root %s: not a directory or playlist", root)
		metrics.ScanErrors.WithLabelValues("missing_root").Inc()
		return
	}

	c.walk(ctx, root)
}

func (c *Catalog) scanPlaylist(ctx context.Context, path string) {
	pl, err := playlist.ParseWPL(path)
	if err != nil {
		logging.Warn("Skipping playlist %s: %v", path, err)
		metrics.ScanErrors.WithLabelValues("playlist").Inc()
		return
	}

	logging.Debug("Playlist %q: %d item(s)", pl.Name, len(pl.Items))
	for _, p := range pl.MediaPaths() {
		if ctx.Err() != nil {
			return
		}
		c.Append(p)
	}
}

// walk appends the media files of dir in name order, then descends into its
// subdirectories. A directory that cannot be listed is skipped along with
// everything below it.
func (c *Catalog) walk(ctx context.Context, dir string) {
	if mediatypes.IsRecycled(dir) {
		return
	}

	entries, err := filesystem.ReadDirWithRetry(dir, c.retry)
	if err != nil {
		logging.Warn("Failed to list %s: %v", dir, err)
		metrics.ScanErrors.WithLabelValues("readdir").Inc()
		return
	}

	var subdirs []string
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, full)
			continue
		}
		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}
		if ctx.Err() != nil {
			return
		}
		c.Append(full)
	}

	for _, sub := range subdirs {
		if ctx.Err() != nil {
			return
		}
		c.walk(ctx, sub)
	}
}
