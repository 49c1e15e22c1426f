package session

import (
	"fmt"
	"path/filepath"
	"time"

	"media-screensaver/internal/metrics"
)

// NotificationTimeout is how long a notification stays visible.
const NotificationTimeout = 5 * time.Second

// User-visible messages.
const (
	MsgNotConfigured = "This screensaver needs to be configured before any video is displayed."
	MsgNoFiles       = "There are no files to show!"
	MsgWaitForFiles  = "Wait until more files are loaded"
	MsgMuted         = "Video volume is muted"
	MsgPreviewHint   = "When fullscreen, control volume with up/down arrows or mouse wheel."
	MsgExifFailed    = "Can not load exif data"
)

// UsageText lists the key bindings.
const UsageText = `Usage of key shortcuts:
 Up - Volume up
 Down - Volume down
 0 - Mute volume
 Right arrow - next image/video
 Left arrow - previous image/video
 P - Pause/unpause
 Delete - Delete current file
 I - Show info overlay
 H - Show this message
 R - Rotate image
 S - Show/Open file`

// NotificationKind classifies a notification.
type NotificationKind string

const (
	KindInfo  NotificationKind = "info"
	KindError NotificationKind = "error"
)

// Notification is a transient message shown over the media.
type Notification struct {
	Message string
	Kind    NotificationKind
	Expires time.Time
}

func deleteFailedMessage(path string) string {
	return fmt.Sprintf("Can not delete %s ! Please check it and delete manually!", path)
}

func loadFailedMessage(path string) string {
	return fmt.Sprintf("Can not load %s ! Screensaver paused, press P to unpause.", path)
}

func rotateFailedMessage(path string) string {
	return fmt.Sprintf("Can not rotate %s", filepath.Base(path))
}

// notify shows message and schedules its dismissal. It does not take s.mu,
// so it is safe to call from timer callbacks.
func (s *Session) notify(kind NotificationKind, message string) {
	s.noteMu.Lock()
	n := Notification{Message: message, Kind: kind, Expires: s.now().Add(s.noteTimeout)}
	s.note = &n
	s.noteGen++
	gen := s.noteGen
	if s.noteTimer != nil {
		s.noteTimer.Stop()
	}
	s.noteTimer = time.AfterFunc(s.noteTimeout, func() { s.dismiss(gen) })
	s.noteMu.Unlock()

	metrics.NotificationsTotal.WithLabelValues(string(kind)).Inc()
	s.presenter.Notify(n)
}

// dismiss hides the notification if it is still the one numbered gen.
func (s *Session) dismiss(gen int) {
	s.noteMu.Lock()
	if gen != s.noteGen || s.note == nil {
		s.noteMu.Unlock()
		return
	}
	s.note = nil
	s.noteTimer = nil
	s.noteMu.Unlock()

	s.presenter.ClearNotification()
}

// HideNotification dismisses the current notification immediately.
func (s *Session) HideNotification() {
	s.noteMu.Lock()
	gen := s.noteGen
	s.noteMu.Unlock()
	s.dismiss(gen)
}

// Notification returns the visible notification, if any.
func (s *Session) Notification() (Notification, bool) {
	s.noteMu.Lock()
	defer s.noteMu.Unlock()
	if s.note == nil {
		return Notification{}, false
	}
	return *s.note, true
}

// ShowUsage displays the key bindings.
func (s *Session) ShowUsage() {
	s.notify(KindInfo, UsageText)
}
