package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/metrics"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the directory roots for new media until ctx is done. Newly
// created files are appended to the tail of the catalog and new directories
// are walked and watched. Deletions on disk are not mirrored; the entry fails
// to load when it comes up and the session reports it.
func (c *Catalog) Watch(ctx context.Context, roots []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return err
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			logging.Error("failed to close file watcher: %v", err)
		}
	}()

	watchCount := 0
	for _, root := range roots {
		watchCount += c.addDirectoriesToWatcher(watcher, filepath.Clean(root))
	}
	metrics.WatchedDirectories.Set(float64(watchCount))
	logging.Debug("Catalog watcher started, watching %d directories", watchCount)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			c.handleWatcherEvent(ctx, watcher, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

// addDirectoriesToWatcher adds root and every directory below it.
func (c *Catalog) addDirectoriesToWatcher(watcher *fsnotify.Watcher, root string) int {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return 0
	}

	watchCount := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if mediatypes.IsRecycled(path) {
			return filepath.SkipDir
		}
		if addErr := watcher.Add(path); addErr != nil {
			logging.Warn("failed to add path to watcher %s: %v", path, addErr)
			metrics.WatcherErrors.Inc()
		} else {
			watchCount++
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk %s for watcher: %v", root, err)
		metrics.WatcherErrors.Inc()
	}
	return watchCount
}

func (c *Catalog) handleWatcherEvent(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	metrics.WatcherEventsTotal.WithLabelValues(eventType(event.Op)).Inc()

	if event.Op&fsnotify.Create == 0 {
		return
	}
	if filesystem.IsTempFile(event.Name) {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}

	if info.IsDir() {
		added := c.addDirectoriesToWatcher(watcher, event.Name)
		metrics.WatchedDirectories.Add(float64(added))
		logging.Debug("Added new directory to watcher: %s", event.Name)
		c.walk(ctx, event.Name)
		return
	}

	if c.Append(event.Name) > 0 {
		logging.Debug("Watcher appended %s", event.Name)
	}
}

func eventType(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
