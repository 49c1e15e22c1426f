package catalog

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"media-screensaver/internal/filesystem"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/metrics"
)

var (
	// ErrScanIncomplete is returned when an operation requires a finished scan.
	ErrScanIncomplete = errors.New("catalog scan has not completed")
	// ErrScanStarted is returned when a scan is started twice on one catalog.
	ErrScanStarted = errors.New("catalog scan already started")
	// ErrIndexOutOfRange is returned for an index outside [0, Count).
	ErrIndexOutOfRange = errors.New("catalog index out of range")
	// ErrNotFound is returned when a path is not in the catalog.
	ErrNotFound = errors.New("path not in catalog")
)

// Entry is one media file in the catalog.
type Entry struct {
	Path string              `json:"path"`
	Kind mediatypes.FileType `json:"kind"`
}

// IsVideo reports whether the entry should be handed to the media player
// rather than the image decoder.
func (e Entry) IsVideo() bool {
	return e.Kind == mediatypes.FileTypeVideo
}

// ScanState describes the lifecycle of the background scan.
type ScanState int32

const (
	ScanIdle ScanState = iota
	ScanInProgress
	ScanComplete
	ScanCancelled
)

func (s ScanState) String() string {
	switch s {
	case ScanIdle:
		return "idle"
	case ScanInProgress:
		return "in_progress"
	case ScanComplete:
		return "complete"
	case ScanCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Ordering selects what happens to the catalog once the scan completes.
type Ordering int

const (
	// OrderDiscovery keeps entries in the order they were found.
	OrderDiscovery Ordering = iota
	// OrderShuffle permutes the entries uniformly at random.
	OrderShuffle
)

// Progress is a point-in-time view of the scan.
type Progress struct {
	Count int
	State ScanState
}

// Complete reports whether the scan walked every root.
func (p Progress) Complete() bool {
	return p.State == ScanComplete
}

// Catalog is an insertion-ordered, duplicate-free list of media entries that
// can grow from a background scan while it is being read.
//
// Reads never take the lock: the current slice header is published through an
// atomic pointer. Appends only write past the published length, so a reader's
// snapshot is never modified. Removals and shuffles publish a fresh backing
// array. All mutations are serialized by mu.
type Catalog struct {
	mu      sync.Mutex
	entries atomic.Pointer[[]Entry]
	seen    map[string]struct{}
	changed chan struct{}

	state  atomic.Int32
	done   chan struct{}
	cancel context.CancelFunc

	retry filesystem.RetryConfig
	rng   *rand.Rand
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithRetryConfig sets the retry policy used for directory enumeration.
func WithRetryConfig(cfg filesystem.RetryConfig) Option {
	return func(c *Catalog) {
		c.retry = cfg
	}
}

// WithRand sets the random source used by OrderShuffle.
func WithRand(r *rand.Rand) Option {
	return func(c *Catalog) {
		c.rng = r
	}
}

// New creates an empty catalog in the idle state.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		seen:    make(map[string]struct{}),
		changed: make(chan struct{}),
		done:    make(chan struct{}),
		retry:   filesystem.DefaultRetryConfig(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		seed := uint64(time.Now().UnixNano())
		c.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	empty := make([]Entry, 0, 64)
	c.entries.Store(&empty)
	return c
}

func (c *Catalog) snapshot() []Entry {
	return *c.entries.Load()
}

// Count returns the number of entries published so far.
func (c *Catalog) Count() int {
	return len(c.snapshot())
}

// EntryAt returns the entry at index i.
func (c *Catalog) EntryAt(i int) (Entry, bool) {
	s := c.snapshot()
	if i < 0 || i >= len(s) {
		return Entry{}, false
	}
	return s[i], true
}

// Entries returns a copy of the current list.
func (c *Catalog) Entries() []Entry {
	s := c.snapshot()
	out := make([]Entry, len(s))
	copy(out, s)
	return out
}

// IndexOf returns the index of path, or -1.
func (c *Catalog) IndexOf(path string) int {
	path = filepath.Clean(path)
	for i, e := range c.snapshot() {
		if e.Path == path {
			return i
		}
	}
	return -1
}

// State returns the current scan state.
func (c *Catalog) State() ScanState {
	return ScanState(c.state.Load())
}

// IsScanComplete reports whether every root was walked without cancellation.
func (c *Catalog) IsScanComplete() bool {
	return c.State() == ScanComplete
}

// IsScanning reports whether the background scan is still running.
func (c *Catalog) IsScanning() bool {
	return c.State() == ScanInProgress
}

// Progress returns the entry count and scan state.
func (c *Catalog) Progress() Progress {
	return Progress{Count: c.Count(), State: c.State()}
}

// Done returns a channel that is closed when the scan finishes, whether it
// completed or was cancelled.
func (c *Catalog) Done() <-chan struct{} {
	return c.done
}

// WaitForIndex blocks until index i exists or the scan is no longer in
// progress. It returns true when i is readable.
func (c *Catalog) WaitForIndex(ctx context.Context, i int) (bool, error) {
	if i < 0 {
		return false, ErrIndexOutOfRange
	}
	for {
		// Take the channel before checking so a broadcast between the check
		// and the select is not lost.
		c.mu.Lock()
		changed := c.changed
		c.mu.Unlock()

		if i < c.Count() {
			return true, nil
		}
		if !c.IsScanning() {
			return false, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// broadcast wakes all waiters. Callers must hold mu.
func (c *Catalog) broadcast() {
	close(c.changed)
	c.changed = make(chan struct{})
}

func (c *Catalog) setState(s ScanState) {
	c.mu.Lock()
	c.state.Store(int32(s))
	c.broadcast()
	c.mu.Unlock()
}

// Append adds candidate media paths to the tail of the catalog, skipping
// unsupported extensions, recycle-bin paths and duplicates. It returns the
// number of entries added.
func (c *Catalog) Append(paths ...string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.snapshot()
	added := 0
	for _, p := range paths {
		p = filepath.Clean(p)
		if !mediatypes.IsCandidate(p) {
			continue
		}
		if _, dup := c.seen[p]; dup {
			continue
		}
		c.seen[p] = struct{}{}
		s = append(s, Entry{Path: p, Kind: mediatypes.KindOf(p)})
		added++
	}
	if added == 0 {
		return 0
	}

	c.entries.Store(&s)
	c.broadcast()
	metrics.ScanFilesDiscovered.Add(float64(added))
	metrics.CatalogEntries.Set(float64(len(s)))
	return added
}

// RemoveAt deletes the entry at index i and shifts later entries down.
func (c *Catalog) RemoveAt(i int) (Entry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeLocked(i)
}

// RemovePath deletes path from the catalog and returns the index it held.
func (c *Catalog) RemovePath(path string) (int, error) {
	path = filepath.Clean(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, e := range c.snapshot() {
		if e.Path == path {
			_, err := c.removeLocked(i)
			return i, err
		}
	}
	return -1, ErrNotFound
}

func (c *Catalog) removeLocked(i int) (Entry, error) {
	s := c.snapshot()
	if i < 0 || i >= len(s) {
		return Entry{}, ErrIndexOutOfRange
	}

	removed := s[i]
	next := make([]Entry, 0, cap(s))
	next = append(next, s[:i]...)
	next = append(next, s[i+1:]...)

	delete(c.seen, removed.Path)
	c.entries.Store(&next)
	c.broadcast()
	metrics.CatalogEntries.Set(float64(len(next)))
	return removed, nil
}

// ApplyPostScanOrdering reorders the catalog once the scan has completed.
// OrderShuffle fails with ErrScanIncomplete until then.
func (c *Catalog) ApplyPostScanOrdering(mode Ordering) error {
	if mode == OrderDiscovery {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != ScanComplete {
		return ErrScanIncomplete
	}

	s := c.snapshot()
	next := make([]Entry, len(s), cap(s))
	copy(next, s)
	c.rng.Shuffle(len(next), func(i, j int) {
		next[i], next[j] = next[j], next[i]
	})

	c.entries.Store(&next)
	c.broadcast()
	return nil
}
