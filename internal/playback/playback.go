package playback

import (
	"sync"
	"time"

	"media-screensaver/internal/logging"
	"media-screensaver/internal/metrics"
)

const (
	// DefaultInterval is used when the configured interval is not positive.
	DefaultInterval = 10 * time.Second
	// VolumeStep is the change applied by one volume key press.
	VolumeStep = 0.1
)

// VolumeStore persists volume changes made by the user.
type VolumeStore interface {
	SetVolume(v float64) error
}

// Config holds the initial playback state.
type Config struct {
	Interval  time.Duration
	Volume    float64
	MuteAfter time.Duration // 0 disables auto-mute
	Store     VolumeStore   // optional
	OnMute    func()        // called from the timer goroutine after auto-mute
}

// Controller tracks pause state, the per-image interval and video volume.
type Controller struct {
	mu                 sync.Mutex
	paused             bool
	wasPlayingBeforeOp bool
	opDepth            int
	interval           time.Duration
	volume             float64
	muteAfter          time.Duration
	muteTimer          *time.Timer
	muteGen            int
	store              VolumeStore
	onMute             func()
}

// New creates a Controller that starts unpaused.
func New(cfg Config) *Controller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Controller{
		interval:  interval,
		volume:    clamp(cfg.Volume),
		muteAfter: cfg.MuteAfter,
		store:     cfg.Store,
		onMute:    cfg.OnMute,
	}
}

// Start arms the auto-mute timer if one is configured.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartMuteTimerLocked()
}

// Stop disarms the auto-mute timer.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muteGen++
	if c.muteTimer != nil {
		c.muteTimer.Stop()
		c.muteTimer = nil
	}
}

// TogglePause flips the pause state and returns the new value.
func (c *Controller) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = !c.paused
	c.wasPlayingBeforeOp = false
	c.recordPausedLocked()
	return c.paused
}

// Pause forces a pause. With forOperation set, the matching
// ResumeAfterOperation restores playback only if it was running before the
// outermost operation started. Operation pauses nest.
func (c *Controller) Pause(forOperation bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if forOperation {
		if c.opDepth == 0 {
			c.wasPlayingBeforeOp = !c.paused
		}
		c.opDepth++
	}
	c.paused = true
	c.recordPausedLocked()
}

// ResumeAfterOperation undoes Pause(true).
func (c *Controller) ResumeAfterOperation() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.opDepth > 0 {
		c.opDepth--
	}
	if c.opDepth > 0 {
		return
	}
	if c.wasPlayingBeforeOp {
		c.paused = false
	}
	c.wasPlayingBeforeOp = false
	c.recordPausedLocked()
}

// IsPaused reports whether auto-advance is suspended.
func (c *Controller) IsPaused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

// Interval returns how long each image is shown.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interval
}

// Volume returns the current video volume in [0, 1].
func (c *Controller) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

// SetVolume clamps v to [0, 1], persists it and restarts the auto-mute timer.
// The new volume is applied even when persisting fails.
func (c *Controller) SetVolume(v float64) (float64, error) {
	c.mu.Lock()
	c.volume = clamp(v)
	applied := c.volume
	c.restartMuteTimerLocked()
	store := c.store
	c.mu.Unlock()

	if store == nil {
		return applied, nil
	}
	if err := store.SetVolume(applied); err != nil {
		logging.Warn("Failed to persist volume %.2f: %v", applied, err)
		return applied, err
	}
	return applied, nil
}

// AdjustVolume adds delta to the current volume.
func (c *Controller) AdjustVolume(delta float64) (float64, error) {
	return c.SetVolume(c.Volume() + delta)
}

// autoMute silences video without touching the persisted volume.
func (c *Controller) autoMute(gen int) {
	c.mu.Lock()
	if gen != c.muteGen {
		c.mu.Unlock()
		return
	}
	c.volume = 0
	c.muteTimer = nil
	onMute := c.onMute
	c.mu.Unlock()

	logging.Info("Volume timeout reached, muting video")
	if onMute != nil {
		onMute()
	}
}

func (c *Controller) restartMuteTimerLocked() {
	c.muteGen++
	if c.muteTimer != nil {
		c.muteTimer.Stop()
		c.muteTimer = nil
	}
	if c.muteAfter <= 0 {
		return
	}
	gen := c.muteGen
	c.muteTimer = time.AfterFunc(c.muteAfter, func() { c.autoMute(gen) })
}

func (c *Controller) recordPausedLocked() {
	if c.paused {
		metrics.SessionPaused.Set(1)
	} else {
		metrics.SessionPaused.Set(0)
	}
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}
