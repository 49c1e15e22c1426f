package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/deletion"
	"media-screensaver/internal/exif"
	"media-screensaver/internal/logging"
	"media-screensaver/internal/mediatypes"
	"media-screensaver/internal/playback"
	"media-screensaver/internal/rotation"
	"media-screensaver/internal/sequencer"
)

// Presenter displays what the session selects. Implementations must not call
// back into the Session from these methods.
type Presenter interface {
	Show(item Item)
	Notify(n Notification)
	ClearNotification()
}

// Item is the entry on screen. Index is -1 when nothing is shown.
type Item struct {
	Entry   catalog.Entry
	Index   int
	Angle   int
	Overlay string
}

// Empty reports whether the item represents a blank screen.
func (i Item) Empty() bool {
	return i.Index < 0
}

var emptyItem = Item{Index: -1}

// Config holds the session parameters.
type Config struct {
	Roots         []string
	Algorithm     sequencer.Algorithm
	Interval      time.Duration
	Volume        float64
	VolumeTimeout time.Duration
	DeleteLog     string
	WatchRoots    bool
	Preview       bool
	VolumeStore   playback.VolumeStore
}

// Option configures a Session.
type Option func(*options)

type options struct {
	catalog     *catalog.Catalog
	rng         *rand.Rand
	writers     []rotation.OrientationWriter
	noteTimeout time.Duration
}

// WithCatalog uses c instead of scanning Config.Roots. A catalog whose scan
// has already started is not scanned again.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) {
		o.catalog = c
	}
}

// WithRand sets the random source for selection and shuffling.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithOrientationWriters overrides the JPEG rotation chain.
func WithOrientationWriters(writers ...rotation.OrientationWriter) Option {
	return func(o *options) {
		o.writers = writers
	}
}

// WithNotificationTimeout overrides NotificationTimeout.
func WithNotificationTimeout(d time.Duration) Option {
	return func(o *options) {
		o.noteTimeout = d
	}
}

// Session is the screensaver core. Control operations are serialized on one
// lock; CurrentItem, DisplayAngle and ScanProgress never block.
type Session struct {
	mu        sync.Mutex
	cfg       Config
	catalog   *catalog.Catalog
	seq       *sequencer.Sequencer
	rotation  *rotation.State
	deleter   *deletion.Coordinator
	playback  *playback.Controller
	presenter Presenter
	current   atomic.Pointer[Item]
	now       func() time.Time

	noteMu      sync.Mutex
	note        *Notification
	noteGen     int
	noteTimer   *time.Timer
	noteTimeout time.Duration

	reset chan struct{}
	ended chan string

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New wires a session. Nothing runs until Start.
func New(cfg Config, presenter Presenter, opts ...Option) *Session {
	o := options{noteTimeout: NotificationTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		seqOpts []sequencer.Option
		catOpts []catalog.Option
	)
	if o.rng != nil {
		seqOpts = append(seqOpts, sequencer.WithRand(o.rng))
		catOpts = append(catOpts, catalog.WithRand(o.rng))
	}
	cat := o.catalog
	if cat == nil {
		cat = catalog.New(catOpts...)
	}

	var rotOpts []rotation.Option
	if o.writers != nil {
		rotOpts = append(rotOpts, rotation.WithWriters(o.writers...))
	}

	s := &Session{
		cfg:         cfg,
		catalog:     cat,
		seq:         sequencer.New(cat, cfg.Algorithm, seqOpts...),
		rotation:    rotation.NewState(rotOpts...),
		presenter:   presenter,
		now:         time.Now,
		noteTimeout: o.noteTimeout,
		reset:       make(chan struct{}, 1),
		ended:       make(chan string, 1),
	}
	s.deleter = deletion.New(s.seq, deletion.NewAuditLog(cfg.DeleteLog))
	s.playback = playback.New(playback.Config{
		Interval:  cfg.Interval,
		Volume:    cfg.Volume,
		MuteAfter: cfg.VolumeTimeout,
		Store:     cfg.VolumeStore,
		OnMute:    func() { s.notify(KindInfo, MsgMuted) },
	})
	item := emptyItem
	s.current.Store(&item)
	return s
}

// Catalog returns the session's media catalog.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Start begins discovery in the background and arms the mute timer.
func (s *Session) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	if s.cfg.Preview {
		s.notify(KindInfo, MsgPreviewHint)
	}

	if s.catalog.State() == catalog.ScanIdle {
		if len(s.cfg.Roots) == 0 {
			logging.Warn("No media roots configured")
			s.notify(KindError, MsgNotConfigured)
		} else if err := s.catalog.StartScan(ctx, s.cfg.Roots); err != nil {
			cancel()
			return err
		}
	}

	s.playback.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.afterScan(ctx)
	}()
	return nil
}

// afterScan applies the post-scan ordering and starts the watcher.
func (s *Session) afterScan(ctx context.Context) {
	select {
	case <-s.catalog.Done():
	case <-ctx.Done():
		return
	}
	if !s.catalog.IsScanComplete() {
		return
	}

	if s.cfg.Algorithm == sequencer.RandomNoRepeat {
		s.mu.Lock()
		if err := s.catalog.ApplyPostScanOrdering(catalog.OrderShuffle); err != nil {
			logging.Warn("Failed to shuffle catalog: %v", err)
		}
		s.mu.Unlock()
	}

	if s.catalog.Count() == 0 {
		s.notify(KindError, MsgNoFiles)
	}

	if s.cfg.WatchRoots && len(s.cfg.Roots) > 0 {
		if err := s.catalog.Watch(ctx, s.cfg.Roots); err != nil && ctx.Err() == nil {
			logging.Warn("Media root watcher stopped: %v", err)
		}
	}
}

// Close stops the scan, the watcher and all timers. The scan is cancelled
// before taking the control lock so a navigation waiting for entries returns.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
		s.catalog.Stop()
		s.playback.Stop()

		s.noteMu.Lock()
		s.noteGen++
		if s.noteTimer != nil {
			s.noteTimer.Stop()
			s.noteTimer = nil
		}
		s.noteMu.Unlock()

		s.wg.Wait()
	})
}

// CurrentItem returns what is on screen.
func (s *Session) CurrentItem() Item {
	return *s.current.Load()
}

// CurrentEntry returns the entry on screen, if any.
func (s *Session) CurrentEntry() (catalog.Entry, bool) {
	item := s.CurrentItem()
	return item.Entry, !item.Empty()
}

// DisplayAngle returns the clockwise angle the current image is drawn at.
func (s *Session) DisplayAngle() int {
	return s.CurrentItem().Angle
}

// ScanProgress reports how many entries were discovered and the scan state.
func (s *Session) ScanProgress() catalog.Progress {
	return s.catalog.Progress()
}

// Next shows the following entry. It may block while the scan catches up.
func (s *Session) Next(ctx context.Context) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mustWait() {
		s.notify(KindInfo, MsgWaitForFiles)
	}
	return s.navigate(s.seq.Next(ctx))
}

// Previous shows the preceding entry.
func (s *Session) Previous(ctx context.Context) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.navigate(s.seq.Previous(ctx))
}

// mustWait reports whether Next is about to block on the scan.
func (s *Session) mustWait() bool {
	if !s.catalog.IsScanning() {
		return false
	}
	count := s.catalog.Count()
	if s.seq.Algorithm() == sequencer.Random {
		return count == 0
	}
	return s.seq.Cursor()+1 >= count
}

func (s *Session) navigate(entry catalog.Entry, err error) (Item, error) {
	s.wake()
	s.rotation.OnItemChanged()

	switch {
	case errors.Is(err, sequencer.ErrNoFiles):
		s.showEmpty()
		return emptyItem, err
	case err != nil:
		return s.CurrentItem(), err
	}
	return s.present(entry)
}

func (s *Session) showEmpty() {
	item := emptyItem
	s.current.Store(&item)
	s.presenter.Show(item)
	s.notify(KindError, MsgNoFiles)
}

// present resolves the display angle and overlay for entry and shows it.
func (s *Session) present(entry catalog.Entry) (Item, error) {
	angle, rotErr := s.rotation.ResolveDisplayAngle(entry)
	if rotErr != nil {
		s.notify(KindError, rotateFailedMessage(entry.Path))
	}

	item := Item{
		Entry:   entry,
		Index:   s.catalog.IndexOf(entry.Path),
		Angle:   angle,
		Overlay: s.overlay(entry),
	}
	s.current.Store(&item)
	s.presenter.Show(item)
	return item, rotErr
}

func (s *Session) overlay(entry catalog.Entry) string {
	if entry.IsVideo() {
		return entry.Path
	}

	if mediatypes.IsJPEG(entry.Path) {
		info, err := exif.ReadOrientationAndInfo(entry.Path)
		if err == nil {
			return info.Summary()
		}
		if !errors.Is(err, exif.ErrNotJPEG) {
			logging.Debug("Failed to read EXIF from %s: %v", entry.Path, err)
			s.notify(KindError, MsgExifFailed)
		}
	}

	w, h, err := exif.Dimensions(entry.Path)
	if err != nil {
		logging.Debug("Failed to read dimensions of %s: %v", entry.Path, err)
	}
	return exif.FallbackSummary(entry.Path, w, h)
}

// RequestRotate turns the current image a quarter turn clockwise and shows
// it again. Videos are left alone.
func (s *Session) RequestRotate() (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.CurrentItem()
	if cur.Empty() {
		return cur, sequencer.ErrNoSelection
	}
	if cur.Entry.IsVideo() {
		return cur, nil
	}

	s.rotation.RequestRotate()
	s.wake()
	return s.present(cur.Entry)
}

// DeletePrompt is the confirmation question for deleting path.
func DeletePrompt(path string) string {
	return "Type yes or ok if you want to delete " + path + " file"
}

// ConfirmsDeletion reports whether answer accepts a DeletePrompt.
func ConfirmsDeletion(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "ok":
		return true
	}
	return false
}

// Delete removes the entry on screen from the rotation and from disk, then
// shows the entry before it. A *deletion.DiskError means the file is still on
// disk although it left the rotation.
func (s *Session) Delete() (catalog.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.CurrentItem()
	if cur.Empty() {
		return catalog.Entry{}, sequencer.ErrNoSelection
	}

	s.playback.Pause(true)
	defer s.playback.ResumeAfterOperation()

	index := s.catalog.IndexOf(cur.Entry.Path)
	if index < 0 {
		return catalog.Entry{}, catalog.ErrNotFound
	}

	removed, err := s.deleter.Delete(index)
	var diskErr *deletion.DiskError
	if errors.As(err, &diskErr) {
		s.notify(KindError, deleteFailedMessage(removed.Path))
	}

	s.wake()
	s.rotation.OnItemChanged()

	if errors.Is(err, sequencer.ErrNoFiles) {
		s.showEmpty()
		return removed, err
	}
	if err != nil && diskErr == nil {
		return removed, err
	}

	if entry, ok := s.seq.Current(); ok {
		if _, presentErr := s.present(entry); presentErr != nil {
			logging.Debug("Failed to present %s after deletion: %v", entry.Path, presentErr)
		}
	}
	return removed, err
}

// TogglePause suspends or resumes auto-advance and returns the new state.
func (s *Session) TogglePause() bool {
	paused := s.playback.TogglePause()
	if !paused {
		s.HideNotification()
	}
	s.wake()
	return paused
}

// IsPaused reports whether auto-advance is suspended.
func (s *Session) IsPaused() bool {
	return s.playback.IsPaused()
}

// Hold suspends auto-advance while the front end asks the user something.
// Every Hold must be followed by Release.
func (s *Session) Hold() {
	s.playback.Pause(true)
	s.wake()
}

// Release ends a Hold, resuming auto-advance if it was running before.
func (s *Session) Release() {
	s.playback.ResumeAfterOperation()
	s.wake()
}

// LoadFailed is called by the presenter when it cannot display path. The
// session pauses until the user resumes.
func (s *Session) LoadFailed(path string, err error) {
	logging.Warn("Failed to load %s: %v", path, err)
	s.playback.Pause(false)
	s.notify(KindError, loadFailedMessage(path))
	s.wake()
}

// Volume returns the video volume.
func (s *Session) Volume() float64 {
	return s.playback.Volume()
}

// SetVolume sets and persists the video volume.
func (s *Session) SetVolume(v float64) (float64, error) {
	return s.playback.SetVolume(v)
}

// AdjustVolume changes the video volume by delta.
func (s *Session) AdjustVolume(delta float64) (float64, error) {
	return s.playback.AdjustVolume(delta)
}

// MediaEnded is called by the presenter when the video at path finished.
func (s *Session) MediaEnded(path string) {
	select {
	case s.ended <- path:
	default:
	}
}

// wake restarts the auto-advance wait in Run.
func (s *Session) wake() {
	select {
	case s.reset <- struct{}{}:
	default:
	}
}
