// Package session is the screensaver core. It owns the media catalog, the
// selection sequencer, rotation state, deletion and playback for one run and
// exposes them as the operations a front end needs: Next, Previous,
// RequestRotate, Delete, TogglePause, volume control and an auto-advance loop.
//
// # Threading
//
// Discovery runs on a background goroutine started by [Session.Start].
// Control operations are serialized on one lock, the equivalent of a UI
// thread; a Next issued before the scan has reached the next entry blocks on
// that lock until the entry appears or the scan ends. Reads of the current
// item, the display angle and scan progress never block.
//
// # Presentation
//
// Pixel decoding, video playback and dialogs are left to a [Presenter]. The
// session tells it what to show and which notification to display; the
// presenter reports back through [Session.MediaEnded] and
// [Session.LoadFailed]. Notifications disappear after NotificationTimeout.
//
// # Example
//
//	s := session.New(session.Config{Roots: roots, Interval: 8 * time.Second}, presenter)
//	if err := s.Start(ctx); err != nil {
//	    return err
//	}
//	defer s.Close()
//	return s.Run(ctx)
package session
