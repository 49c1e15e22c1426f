package rotation

import (
	"fmt"
	"path/filepath"
	"sync"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/exif"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/mediatypes"
)

// RotateError reports that a requested rotation could not be saved.
type RotateError struct {
	Path string
	Err  error
}

func (e *RotateError) Error() string {
	return fmt.Sprintf("could not rotate %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *RotateError) Unwrap() error {
	return e.Err
}

// State tracks the rotation of the item on screen: a pending user request and
// the last angle that was successfully resolved.
type State struct {
	mu          sync.Mutex
	pending     int
	lastApplied int
	writers     []OrientationWriter
}

// Option configures a State.
type Option func(*State)

// WithWriters replaces the JPEG orientation persistence chain.
func WithWriters(writers ...OrientationWriter) Option {
	return func(s *State) {
		s.writers = writers
	}
}

// NewState returns a State with no pending rotation.
func NewState(opts ...Option) *State {
	s := &State{writers: DefaultWriters()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnItemChanged clears any pending rotation when a different item is shown.
func (s *State) OnItemChanged() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = 0
	s.lastApplied = 0
}

// RequestRotate adds a clockwise quarter turn to the pending rotation and
// returns the new pending angle.
func (s *State) RequestRotate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = (s.pending + 90) % 360
	return s.pending
}

// Pending returns the rotation that the next ResolveDisplayAngle will apply.
func (s *State) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastApplied returns the most recent successfully resolved display angle.
func (s *State) LastApplied() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastApplied
}

// ResolveDisplayAngle applies any pending rotation to the file and returns
// the clockwise angle at which it should be displayed.
//
// JPEGs are rotated through their EXIF orientation and displayed at the
// orientation's angle. Other images have their pixels rotated and saved, so
// they display at 0. Videos are never rotated. On failure the pending request
// is dropped and the previous angle is returned with a *RotateError.
func (s *State) ResolveDisplayAngle(entry catalog.Entry) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending
	s.pending = 0

	switch {
	case entry.Kind == mediatypes.FileTypeVideo:
		s.lastApplied = 0
		return 0, nil

	case mediatypes.IsJPEG(entry.Path):
		o := exif.ReadOrientation(entry.Path)
		if pending != 0 {
			next := o.Advance(pending / 90)
			if err := persist(s.writers, entry.Path, next); err != nil {
				logging.Warn("Failed to rotate %s: %v", entry.Path, err)
				return s.lastApplied, &RotateError{Path: entry.Path, Err: err}
			}
			logging.Info("Rotated %s to orientation %s", entry.Path, next)
			o = next
		}
		s.lastApplied = o.Angle()
		return s.lastApplied, nil

	default:
		if pending != 0 {
			if err := rotatePixels(entry.Path, pending); err != nil {
				logging.Warn("Failed to rotate %s: %v", entry.Path, err)
				return s.lastApplied, &RotateError{Path: entry.Path, Err: err}
			}
			logging.Info("Rotated %s by %d degrees", entry.Path, pending)
		}
		s.lastApplied = 0
		return 0, nil
	}
}
