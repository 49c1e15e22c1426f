package sequencer

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/metrics"
)

var (
	// ErrNoFiles is returned when the catalog holds nothing to show.
	ErrNoFiles = errors.New("there are no files to show")
	// ErrNoSelection is returned when nothing has been shown yet.
	ErrNoSelection = errors.New("no entry selected")
)

// Sequencer walks a catalog with a fixed algorithm and tracks the current
// selection. All methods are safe for concurrent use; navigation and removal
// are serialized.
type Sequencer struct {
	mu        sync.Mutex
	catalog   *catalog.Catalog
	algorithm Algorithm
	cursor    int
	history   *History
	rng       *rand.Rand
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithRand sets the random source used by the Random algorithm.
func WithRand(r *rand.Rand) Option {
	return func(s *Sequencer) {
		s.rng = r
	}
}

// WithHistoryCapacity overrides DefaultHistoryCapacity.
func WithHistoryCapacity(n int) Option {
	return func(s *Sequencer) {
		s.history = NewHistory(n)
	}
}

// New creates a sequencer over c with nothing selected.
func New(c *catalog.Catalog, algorithm Algorithm, opts ...Option) *Sequencer {
	s := &Sequencer{
		catalog:   c,
		algorithm: algorithm,
		cursor:    -1,
		history:   NewHistory(DefaultHistoryCapacity),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		seed := uint64(time.Now().UnixNano())
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
	return s
}

// Algorithm returns the session's algorithm.
func (s *Sequencer) Algorithm() Algorithm {
	return s.algorithm
}

// Cursor returns the current catalog index, or -1 when nothing is selected.
func (s *Sequencer) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Current returns the selected entry.
func (s *Sequencer) Current() (catalog.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursor < 0 {
		return catalog.Entry{}, false
	}
	return s.catalog.EntryAt(s.cursor)
}

// History returns the Random back-stack and its cursor.
func (s *Sequencer) History() ([]string, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Paths(), s.history.Cursor()
}

// Next advances to the following entry. While the catalog is still being
// scanned it may block until the entry is discovered; ctx bounds that wait.
func (s *Sequencer) Next(ctx context.Context) (catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry catalog.Entry
		err   error
	)
	if s.algorithm == Random {
		entry, err = s.nextRandom(ctx)
	} else {
		entry, err = s.nextSequential(ctx)
	}
	if err == nil {
		metrics.NavigationTotal.WithLabelValues("next", s.algorithm.String()).Inc()
	}
	return entry, err
}

// Previous steps back one entry. For Random it walks the history; with fewer
// than two recorded selections it returns the current entry unchanged.
func (s *Sequencer) Previous(ctx context.Context) (catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		entry catalog.Entry
		err   error
	)
	if s.algorithm == Random {
		entry, err = s.previousRandom()
	} else {
		entry, err = s.previousSequential(ctx)
	}
	if err == nil {
		metrics.NavigationTotal.WithLabelValues("previous", s.algorithm.String()).Inc()
	}
	return entry, err
}

// waitFor blocks until index i exists or the scan ends.
func (s *Sequencer) waitFor(ctx context.Context, i int) (bool, error) {
	if i < s.catalog.Count() {
		return true, nil
	}
	if !s.catalog.IsScanning() {
		return false, nil
	}

	start := time.Now()
	ok, err := s.catalog.WaitForIndex(ctx, i)
	metrics.NavigationWaitDuration.Observe(time.Since(start).Seconds())
	return ok, err
}

func (s *Sequencer) selectIndex(i int) (catalog.Entry, error) {
	entry, ok := s.catalog.EntryAt(i)
	if !ok {
		s.cursor = -1
		return catalog.Entry{}, ErrNoFiles
	}
	s.cursor = i
	return entry, nil
}

func (s *Sequencer) nextSequential(ctx context.Context) (catalog.Entry, error) {
	target := s.cursor + 1
	ok, err := s.waitFor(ctx, target)
	if err != nil {
		return catalog.Entry{}, err
	}
	if !ok {
		if s.catalog.Count() == 0 {
			ok, err = s.waitFor(ctx, 0)
			if err != nil {
				return catalog.Entry{}, err
			}
			if !ok {
				s.cursor = -1
				return catalog.Entry{}, ErrNoFiles
			}
		}
		target = 0
	}
	return s.selectIndex(target)
}

func (s *Sequencer) previousSequential(ctx context.Context) (catalog.Entry, error) {
	count := s.catalog.Count()
	if count == 0 {
		ok, err := s.waitFor(ctx, 0)
		if err != nil {
			return catalog.Entry{}, err
		}
		if !ok {
			s.cursor = -1
			return catalog.Entry{}, ErrNoFiles
		}
		return s.selectIndex(0)
	}

	target := s.cursor - 1
	if target < 0 {
		// Nothing comes before the start while the scan is still running.
		if s.catalog.IsScanning() {
			target = 0
		} else {
			target = count - 1
		}
	}
	if target >= count {
		target = count - 1
	}
	return s.selectIndex(target)
}

func (s *Sequencer) nextRandom(ctx context.Context) (catalog.Entry, error) {
	// Replay forward through selections the user stepped back over.
	for !s.history.AtTail() {
		path, _ := s.history.Forward()
		if i := s.catalog.IndexOf(path); i >= 0 {
			s.recordHistory()
			return s.selectIndex(i)
		}
		s.history.Remove(path)
	}

	ok, err := s.waitFor(ctx, 0)
	if err != nil {
		return catalog.Entry{}, err
	}
	count := s.catalog.Count()
	if !ok || count == 0 {
		s.cursor = -1
		return catalog.Entry{}, ErrNoFiles
	}

	i := s.rng.IntN(count)
	entry, err := s.selectIndex(i)
	if err != nil {
		return entry, err
	}
	s.history.Push(entry.Path)
	s.recordHistory()
	return entry, nil
}

func (s *Sequencer) previousRandom() (catalog.Entry, error) {
	if s.history.Len() < 2 {
		if s.cursor < 0 {
			return catalog.Entry{}, ErrNoSelection
		}
		return s.selectIndex(s.cursor)
	}

	path, ok := s.history.Back()
	if !ok {
		path, ok = s.history.Current()
	}
	for ok {
		if i := s.catalog.IndexOf(path); i >= 0 {
			s.recordHistory()
			return s.selectIndex(i)
		}
		// Remove already steps the history cursor back past the stale path.
		logging.Debug("Dropping %s from history: no longer in catalog", path)
		s.history.Remove(path)
		path, ok = s.history.Current()
	}

	s.recordHistory()
	if s.cursor < 0 {
		return catalog.Entry{}, ErrNoSelection
	}
	return s.selectIndex(s.cursor)
}

func (s *Sequencer) recordHistory() {
	metrics.HistoryLength.Set(float64(s.history.Len()))
}

// Remove deletes the entry at index from the catalog and the history in one
// step and moves the cursor to the previous entry, wrapping to the last one.
// The removal is matched by path, so a concurrent reorder cannot remove a
// different file than the one at index when Remove was called. ErrNoFiles is
// returned along with the removed entry when the catalog becomes empty.
func (s *Sequencer) Remove(index int) (catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.catalog.EntryAt(index)
	if !ok {
		return catalog.Entry{}, catalog.ErrIndexOutOfRange
	}
	removedAt, err := s.catalog.RemovePath(entry.Path)
	if err != nil {
		return catalog.Entry{}, err
	}

	s.history.Remove(entry.Path)
	s.recordHistory()

	count := s.catalog.Count()
	if count == 0 {
		s.cursor = -1
		return entry, ErrNoFiles
	}

	switch {
	case s.cursor < 0:
	case removedAt < s.cursor:
		s.cursor--
	case removedAt == s.cursor:
		s.cursor--
		if s.cursor < 0 {
			s.cursor = count - 1
		}
	}
	if s.cursor >= count {
		s.cursor = count - 1
	}
	return entry, nil
}
