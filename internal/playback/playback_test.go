package playback

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStore struct {
	mu     sync.Mutex
	values []float64
	err    error
}

func (s *recordingStore) SetVolume(v float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
	return s.err
}

func (s *recordingStore) saved() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.values...)
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{Volume: 3})
	assert.Equal(t, DefaultInterval, c.Interval())
	assert.Equal(t, 1.0, c.Volume())
	assert.False(t, c.IsPaused())

	c = New(Config{Interval: 1500 * time.Millisecond})
	assert.Equal(t, 1500*time.Millisecond, c.Interval())
}

func TestPauseToggle(t *testing.T) {
	c := New(Config{})
	assert.True(t, c.TogglePause())
	assert.True(t, c.IsPaused())
	assert.False(t, c.TogglePause())
	assert.False(t, c.IsPaused())
}

func TestPauseForOperation(t *testing.T) {
	tests := []struct {
		name        string
		startPaused bool
		wantPaused  bool
	}{
		{"playing resumes", false, false},
		{"paused stays paused", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{})
			if tt.startPaused {
				c.TogglePause()
			}
			c.Pause(true)
			assert.True(t, c.IsPaused())
			c.ResumeAfterOperation()
			assert.Equal(t, tt.wantPaused, c.IsPaused())
		})
	}
}

func TestNestedOperationPause(t *testing.T) {
	c := New(Config{})
	c.Pause(true)
	c.Pause(true)
	c.ResumeAfterOperation()
	assert.True(t, c.IsPaused(), "outer operation still running")
	c.ResumeAfterOperation()
	assert.False(t, c.IsPaused())
}

func TestToggleClearsOperationPause(t *testing.T) {
	c := New(Config{})
	c.Pause(true)
	c.TogglePause() // user resumes during the operation
	c.TogglePause() // and pauses again
	c.ResumeAfterOperation()
	assert.True(t, c.IsPaused())
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	store := &recordingStore{}
	c := New(Config{Volume: 0.5, Store: store})

	v, err := c.AdjustVolume(VolumeStep)
	require.NoError(t, err)
	assert.InDelta(t, 0.6, v, 1e-9)

	v, err = c.SetVolume(4)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = c.SetVolume(-1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	saved := store.saved()
	require.Len(t, saved, 3)
	assert.InDelta(t, 0.6, saved[0], 1e-9)
	assert.Equal(t, 1.0, saved[1])
	assert.Equal(t, 0.0, saved[2])
}

func TestSetVolumeStoreFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("read-only")}
	c := New(Config{Store: store})

	v, err := c.SetVolume(0.3)
	assert.Error(t, err)
	assert.Equal(t, 0.3, v)
	assert.Equal(t, 0.3, c.Volume())
}

func TestAutoMute(t *testing.T) {
	store := &recordingStore{}
	var muted atomic.Int32
	c := New(Config{
		Volume:    0.8,
		MuteAfter: 20 * time.Millisecond,
		Store:     store,
		OnMute:    func() { muted.Add(1) },
	})
	c.Start()
	defer c.Stop()

	assert.Eventually(t, func() bool { return muted.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0.0, c.Volume())
	assert.Empty(t, store.saved(), "automatic mute must not be persisted")
}

func TestVolumeChangeRestartsMuteTimer(t *testing.T) {
	var muted atomic.Int32
	c := New(Config{
		Volume:    0.5,
		MuteAfter: 150 * time.Millisecond,
		OnMute:    func() { muted.Add(1) },
	})
	c.Start()
	defer c.Stop()

	for range 4 {
		time.Sleep(20 * time.Millisecond)
		_, err := c.AdjustVolume(0)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(0), muted.Load())

	assert.Eventually(t, func() bool { return muted.Load() == 1 }, time.Second, 5*time.Millisecond)
}

func TestStopDisarmsMuteTimer(t *testing.T) {
	var muted atomic.Int32
	c := New(Config{
		Volume:    0.5,
		MuteAfter: 10 * time.Millisecond,
		OnMute:    func() { muted.Add(1) },
	})
	c.Start()
	c.Stop()

	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, int32(0), muted.Load())
	assert.Equal(t, 0.5, c.Volume())
}

func TestNoMuteTimerWhenDisabled(t *testing.T) {
	c := New(Config{Volume: 0.5})
	c.Start()
	defer c.Stop()

	c.mu.Lock()
	timer := c.muteTimer
	c.mu.Unlock()
	assert.Nil(t, timer)
}
