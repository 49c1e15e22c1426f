package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"media-screensaver/internal/deletion"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/playback"
	"media-screensaver/internal/session"

	"golang.org/x/term"
)

// ExitReason says why Run returned.
type ExitReason int

const (
	ExitQuit ExitReason = iota
	ExitShowFile
	ExitInputClosed
	ExitCancelled
)

// Result is returned by Run. Path is set for ExitShowFile.
type Result struct {
	Reason ExitReason
	Path   string
}

// Console renders the session as text and turns key presses into session
// operations. It implements session.Presenter.
type Console struct {
	mu      sync.Mutex
	out     io.Writer
	preview bool
	overlay bool
	newline string

	// Videos cannot be played in a terminal; they end after this long.
	videoDuration time.Duration
	videoTimer    *time.Timer
	onVideoEnd    func(path string)
}

// New creates a console writing to out. videoDuration is how long a video is
// listed before it counts as finished.
func New(out io.Writer, preview bool, videoDuration time.Duration) *Console {
	return &Console{
		out:           out,
		preview:       preview,
		newline:       "\n",
		videoDuration: videoDuration,
	}
}

// Show implements session.Presenter.
func (c *Console) Show(item session.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.videoTimer != nil {
		c.videoTimer.Stop()
		c.videoTimer = nil
	}

	if item.Empty() {
		c.println("(nothing to show)")
		return
	}

	line := item.Entry.Path
	if item.Entry.IsVideo() {
		line += " [video]"
	}
	if item.Angle != 0 {
		line += fmt.Sprintf(" [rotated %d]", item.Angle)
	}
	c.println(line)
	if c.overlay && item.Overlay != "" {
		for _, l := range strings.Split(item.Overlay, "\n") {
			c.println("    " + l)
		}
	}

	if item.Entry.IsVideo() && c.onVideoEnd != nil && c.videoDuration > 0 {
		path, end := item.Entry.Path, c.onVideoEnd
		c.videoTimer = time.AfterFunc(c.videoDuration, func() { end(path) })
	}
}

// Notify implements session.Presenter.
func (c *Console) Notify(n session.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := "* "
	if n.Kind == session.KindError {
		prefix = "! "
	}
	for i, l := range strings.Split(n.Message, "\n") {
		if i > 0 {
			prefix = "  "
		}
		c.println(prefix + strings.TrimLeft(l, " "))
	}
}

// ClearNotification implements session.Presenter. Printed lines stay on
// screen.
func (c *Console) ClearNotification() {}

// println writes one line. Callers hold c.mu.
func (c *Console) println(s string) {
	fmt.Fprint(c.out, s+c.newline)
}

func (c *Console) say(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.println(s)
}

func (c *Console) echo(ev keyEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch ev.Key {
	case KeyRune:
		fmt.Fprint(c.out, string(ev.Rune))
	case KeyBackspace:
		fmt.Fprint(c.out, "\b \b")
	case KeyEnter, KeyEscape, KeyInterrupt:
		fmt.Fprint(c.out, c.newline)
	}
}

func (c *Console) toggleOverlay() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.overlay = !c.overlay
	return c.overlay
}

// Run reads keys from in until the user quits, in is exhausted or ctx is
// cancelled. When in is a terminal it is switched to raw mode for the
// duration of Run.
func (c *Console) Run(ctx context.Context, sess *session.Session, in io.Reader) (Result, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		state, err := term.MakeRaw(int(f.Fd()))
		if err != nil {
			return Result{}, fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer func() {
			if err := term.Restore(int(f.Fd()), state); err != nil {
				logging.Warn("Failed to restore terminal: %v", err)
			}
		}()
		c.mu.Lock()
		c.newline = "\r\n"
		c.mu.Unlock()
	}

	c.mu.Lock()
	c.onVideoEnd = sess.MediaEnded
	c.mu.Unlock()
	defer c.stopVideo()

	done := make(chan struct{})
	defer close(done)
	keys := make(chan keyEvent)
	go readKeys(in, keys, done)

	var prompt *deletePrompt
	for {
		var ev keyEvent
		select {
		case <-ctx.Done():
			return Result{Reason: ExitCancelled}, nil
		case k, ok := <-keys:
			if !ok {
				if prompt != nil {
					sess.Release()
				}
				return Result{Reason: ExitInputClosed}, nil
			}
			ev = k
		}

		if prompt != nil {
			c.echo(ev)
			if finished := prompt.feed(ev); finished {
				c.finishDelete(sess, prompt)
				prompt = nil
			}
			continue
		}

		switch actionFor(ev, c.preview) {
		case actionNext:
			c.report(sess.Next(ctx))
		case actionPrevious:
			c.report(sess.Previous(ctx))
		case actionPause:
			if sess.TogglePause() {
				c.say("* Paused")
			}
		case actionDelete:
			entry, ok := sess.CurrentEntry()
			if !ok {
				continue
			}
			sess.Hold()
			prompt = &deletePrompt{path: entry.Path}
			c.say("? " + session.DeletePrompt(entry.Path))
		case actionOverlay:
			c.toggleOverlay()
			if cur := sess.CurrentItem(); !cur.Empty() {
				c.Show(cur)
			}
		case actionUsage:
			sess.ShowUsage()
		case actionRotate:
			c.report(sess.RequestRotate())
		case actionVolumeUp:
			c.reportVolume(sess.AdjustVolume(playback.VolumeStep))
		case actionVolumeDown:
			c.reportVolume(sess.AdjustVolume(-playback.VolumeStep))
		case actionMute:
			c.reportVolume(sess.SetVolume(0))
		case actionShowFile:
			if entry, ok := sess.CurrentEntry(); ok {
				return Result{Reason: ExitShowFile, Path: entry.Path}, nil
			}
		case actionQuit:
			return Result{Reason: ExitQuit}, nil
		}
	}
}

func (c *Console) finishDelete(sess *session.Session, p *deletePrompt) {
	defer sess.Release()

	if !session.ConfirmsDeletion(p.answer.String()) {
		c.say("* Not deleted")
		return
	}
	if cur, ok := sess.CurrentEntry(); !ok || cur.Path != p.path {
		c.say("! " + p.path + " is no longer shown, not deleted")
		return
	}

	_, err := sess.Delete()
	var diskErr *deletion.DiskError
	switch {
	case err == nil:
	case errors.As(err, &diskErr):
		// The session has already notified the user.
	default:
		logging.Debug("Delete of %s: %v", p.path, err)
	}
}

func (c *Console) report(_ session.Item, err error) {
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Debug("Navigation: %v", err)
	}
}

func (c *Console) reportVolume(v float64, err error) {
	if err != nil {
		logging.Warn("Failed to save volume: %v", err)
	}
	c.say(fmt.Sprintf("* Volume %d%%", int(v*100+0.5)))
}

func (c *Console) stopVideo() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.videoTimer != nil {
		c.videoTimer.Stop()
		c.videoTimer = nil
	}
	c.onVideoEnd = nil
}

// deletePrompt collects the typed confirmation.
type deletePrompt struct {
	path   string
	answer strings.Builder
}

// feed adds a key to the answer and reports whether the prompt is finished.
// Escape cancels.
func (p *deletePrompt) feed(ev keyEvent) bool {
	switch ev.Key {
	case KeyEnter:
		return true
	case KeyEscape, KeyInterrupt:
		p.answer.Reset()
		return true
	case KeyBackspace:
		s := []rune(p.answer.String())
		if len(s) > 0 {
			p.answer.Reset()
			p.answer.WriteString(string(s[:len(s)-1]))
		}
	case KeyRune:
		p.answer.WriteRune(ev.Rune)
	}
	return false
}

// readKeys decodes in until it fails or done is closed. A read blocked on
// a terminal only returns with the next key press.
func readKeys(in io.Reader, keys chan<- keyEvent, done <-chan struct{}) {
	defer close(keys)
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		for _, ev := range parseKeys(buf[:n]) {
			select {
			case keys <- ev:
			case <-done:
				return
			}
		}
		if err != nil {
			return
		}
	}
}
