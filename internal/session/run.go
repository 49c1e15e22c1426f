package session

import (
	"context"
	"errors"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/sequencer"
)

// Run shows the first entry and then advances automatically: images after
// the configured interval, videos when the presenter reports MediaEnded.
// Navigation, pause changes and rotations restart the interval. Run returns
// nil when ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	if err := s.advance(ctx); err != nil {
		return err
	}

	for {
		var tick <-chan time.Time
		var timer *time.Timer

		cur := s.CurrentItem()
		if !s.playback.IsPaused() && (cur.Empty() || !cur.Entry.IsVideo()) {
			timer = time.NewTimer(s.playback.Interval())
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			return nil

		case <-s.reset:
			stopTimer(timer)

		case path := <-s.ended:
			stopTimer(timer)
			if cur.Empty() || cur.Entry.Path != path {
				logging.Debug("Ignoring end of %s: no longer on screen", path)
				continue
			}
			if err := s.advance(ctx); err != nil {
				return err
			}

		case <-tick:
			if cur.Empty() && s.catalog.Count() == 0 {
				continue
			}
			if err := s.advance(ctx); err != nil {
				return err
			}
		}
	}
}

// advance moves to the next entry. Errors that leave the session usable are
// logged; only a cancelled ctx ends Run, and it does so without error.
func (s *Session) advance(ctx context.Context) error {
	_, err := s.Next(ctx)
	switch {
	case err == nil:
	case ctx.Err() != nil:
		return nil
	case errors.Is(err, sequencer.ErrNoFiles), errors.Is(err, catalog.ErrNotFound):
		logging.Debug("Nothing to show: %v", err)
	default:
		logging.Warn("Failed to advance: %v", err)
	}
	return nil
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}

// Status is a read-only snapshot of the session.
type Status struct {
	Current      string  `json:"current"`
	Index        int     `json:"index"`
	Angle        int     `json:"angle"`
	Count        int     `json:"count"`
	ScanState    string  `json:"scanState"`
	Algorithm    string  `json:"algorithm"`
	Paused       bool    `json:"paused"`
	Volume       float64 `json:"volume"`
	Notification string  `json:"notification,omitempty"`
}

// Status returns a snapshot for the status endpoint. It does not wait for a
// navigation in progress.
func (s *Session) Status() Status {
	cur := s.CurrentItem()
	progress := s.catalog.Progress()

	st := Status{
		Current:   cur.Entry.Path,
		Index:     cur.Index,
		Angle:     cur.Angle,
		Count:     progress.Count,
		ScanState: progress.State.String(),
		Algorithm: s.seq.Algorithm().String(),
		Paused:    s.playback.IsPaused(),
		Volume:    s.playback.Volume(),
	}
	if n, ok := s.Notification(); ok {
		st.Notification = n.Message
	}
	return st
}
