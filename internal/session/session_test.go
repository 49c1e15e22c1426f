package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"media-screensaver/internal/catalog"
	"media-screensaver/internal/deletion"
	"media-screensaver/internal/sequencer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	mu      sync.Mutex
	shown   []Item
	notes   []Notification
	cleared int
}

func (p *fakePresenter) Show(item Item) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, item)
}

func (p *fakePresenter) Notify(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notes = append(p.notes, n)
}

func (p *fakePresenter) ClearNotification() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleared++
}

func (p *fakePresenter) shownCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.shown)
}

func (p *fakePresenter) clearedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cleared
}

func (p *fakePresenter) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, n := range p.notes {
		out = append(out, n.Message)
	}
	return out
}

func (p *fakePresenter) notified(msg string) bool {
	for _, m := range p.messages() {
		if m == msg {
			return true
		}
	}
	return false
}

// mediaDir creates placeholder media files and returns their paths.
func mediaDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
		paths = append(paths, p)
	}
	return dir, paths
}

func seeded() Option {
	return WithRand(rand.New(rand.NewPCG(1, 2)))
}

// startScanned starts a session over roots and waits for the scan to finish.
func startScanned(t *testing.T, cfg Config, opts ...Option) (*Session, *fakePresenter) {
	t.Helper()
	p := &fakePresenter{}
	s := New(cfg, p, append([]Option{seeded()}, opts...)...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Close)

	select {
	case <-s.Catalog().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scan did not finish")
	}
	return s, p
}

func TestNextAndPrevious(t *testing.T) {
	dir, paths := mediaDir(t, "a.jpg", "b.png", "c.mp4")
	s, p := startScanned(t, Config{Roots: []string{dir}})
	ctx := context.Background()

	_, ok := s.CurrentEntry()
	assert.False(t, ok)

	for _, want := range []string{paths[0], paths[1], paths[2], paths[0]} {
		item, err := s.Next(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, item.Entry.Path)
	}

	item, err := s.Previous(ctx)
	require.NoError(t, err)
	assert.Equal(t, paths[2], item.Entry.Path)
	assert.Equal(t, 2, item.Index)
	assert.Equal(t, paths[2], item.Overlay, "video overlay is the path")

	entry, ok := s.CurrentEntry()
	require.True(t, ok)
	assert.Equal(t, paths[2], entry.Path)
	assert.Equal(t, 5, p.shownCount())
}

func TestOverlayFallsBackToFileName(t *testing.T) {
	dir, paths := mediaDir(t, "broken.jpg")
	s, _ := startScanned(t, Config{Roots: []string{dir}})

	item, err := s.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(paths[0]), item.Overlay)
}

func TestNotConfigured(t *testing.T) {
	p := &fakePresenter{}
	s := New(Config{}, p)
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()

	assert.True(t, p.notified(MsgNotConfigured))

	item, err := s.Next(context.Background())
	assert.ErrorIs(t, err, sequencer.ErrNoFiles)
	assert.True(t, item.Empty())
	assert.True(t, p.notified(MsgNoFiles))
}

func TestEmptyScanNotifies(t *testing.T) {
	s, p := startScanned(t, Config{Roots: []string{t.TempDir()}})

	assert.Eventually(t, func() bool { return p.notified(MsgNoFiles) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, catalog.Progress{Count: 0, State: catalog.ScanComplete}, s.ScanProgress())
}

func TestPreviewHint(t *testing.T) {
	dir, _ := mediaDir(t, "a.jpg")
	_, p := startScanned(t, Config{Roots: []string{dir}, Preview: true})
	assert.True(t, p.notified(MsgPreviewHint))
}

func TestNextWaitsForDiscovery(t *testing.T) {
	_, paths := mediaDir(t, "a.jpg", "b.jpg")
	feed := make(chan string)
	c := catalog.New()
	require.NoError(t, c.StartFeed(context.Background(), feed))

	p := &fakePresenter{}
	s := New(Config{}, p, WithCatalog(c))
	require.NoError(t, s.Start(context.Background()))
	defer s.Close()
	assert.False(t, p.notified(MsgNotConfigured), "a running catalog counts as configured")

	got := make(chan Item, 1)
	go func() {
		item, err := s.Next(context.Background())
		assert.NoError(t, err)
		got <- item
	}()

	assert.Eventually(t, func() bool { return p.notified(MsgWaitForFiles) }, time.Second, 5*time.Millisecond)
	feed <- paths[0]

	select {
	case item := <-got:
		assert.Equal(t, paths[0], item.Entry.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("Next did not return after the entry was discovered")
	}

	feed <- paths[1]
	close(feed)
	<-c.Done()
}

func TestCloseUnblocksWaitingNext(t *testing.T) {
	feed := make(chan string)
	c := catalog.New()
	require.NoError(t, c.StartFeed(context.Background(), feed))

	s := New(Config{}, &fakePresenter{}, WithCatalog(c))
	require.NoError(t, s.Start(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := s.Next(context.Background())
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	s.Close()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, sequencer.ErrNoFiles)
	case <-time.After(5 * time.Second):
		t.Fatal("Next still blocked after Close")
	}
}

func TestDelete(t *testing.T) {
	dir, paths := mediaDir(t, "a.jpg", "b.jpg", "c.jpg")
	auditPath := filepath.Join(t.TempDir(), "deleted.log")
	s, _ := startScanned(t, Config{Roots: []string{dir}, DeleteLog: auditPath})
	ctx := context.Background()

	_, err := s.Next(ctx)
	require.NoError(t, err)
	_, err = s.Next(ctx)
	require.NoError(t, err)

	removed, err := s.Delete()
	require.NoError(t, err)
	assert.Equal(t, paths[1], removed.Path)

	_, statErr := os.Stat(paths[1])
	assert.True(t, os.IsNotExist(statErr))

	entry, ok := s.CurrentEntry()
	require.True(t, ok)
	assert.Equal(t, paths[0], entry.Path, "the previous entry is shown after a deletion")
	assert.Equal(t, 2, s.ScanProgress().Count)
	assert.False(t, s.IsPaused(), "playback resumes after the deletion")

	log, err := os.ReadFile(auditPath)
	require.NoError(t, err)
	assert.Contains(t, string(log), ": "+paths[1]+"\n")

	item, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, paths[2], item.Entry.Path)
}

func TestDeleteLastEntry(t *testing.T) {
	dir, _ := mediaDir(t, "only.jpg")
	s, p := startScanned(t, Config{Roots: []string{dir}})

	_, err := s.Next(context.Background())
	require.NoError(t, err)

	_, err = s.Delete()
	assert.ErrorIs(t, err, sequencer.ErrNoFiles)
	assert.True(t, s.CurrentItem().Empty())
	assert.True(t, p.notified(MsgNoFiles))

	_, err = s.Delete()
	assert.ErrorIs(t, err, sequencer.ErrNoSelection)
}

func TestDeleteDiskFailure(t *testing.T) {
	dir, paths := mediaDir(t, "a.jpg", "b.jpg")
	s, p := startScanned(t, Config{Roots: []string{dir}})

	_, err := s.Next(context.Background())
	require.NoError(t, err)
	require.NoError(t, os.Remove(paths[0]))

	_, err = s.Delete()
	var diskErr *deletion.DiskError
	require.True(t, errors.As(err, &diskErr))
	assert.Equal(t, paths[0], diskErr.Path)
	assert.True(t, p.notified(deleteFailedMessage(paths[0])))

	entry, ok := s.CurrentEntry()
	require.True(t, ok)
	assert.Equal(t, paths[1], entry.Path, "cursor wraps to the last entry")
	assert.Equal(t, -1, s.Catalog().IndexOf(paths[0]))
}

func TestRequestRotate(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 4, 2))))
	pic := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(pic, buf.Bytes(), 0o644))
	clip := filepath.Join(dir, "zclip.mp4")
	require.NoError(t, os.WriteFile(clip, []byte("x"), 0o644))

	s, _ := startScanned(t, Config{Roots: []string{dir}})
	ctx := context.Background()

	_, err := s.RequestRotate()
	assert.ErrorIs(t, err, sequencer.ErrNoSelection)

	item, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pic.png\n4 x 2", item.Overlay)

	item, err = s.RequestRotate()
	require.NoError(t, err)
	assert.Equal(t, 0, item.Angle)
	assert.Equal(t, "pic.png\n2 x 4", item.Overlay, "pixels are rotated on disk")
	assert.Equal(t, 0, s.DisplayAngle())

	item, err = s.Next(ctx)
	require.NoError(t, err)
	require.True(t, item.Entry.IsVideo())
	item, err = s.RequestRotate()
	require.NoError(t, err)
	assert.Equal(t, clip, item.Entry.Path)
	assert.Equal(t, 0, item.Angle)
}

func TestRandomNoRepeatShufflesAfterScan(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = string(rune('a'+i)) + ".jpg"
	}
	dir, paths := mediaDir(t, names...)
	s, _ := startScanned(t, Config{Roots: []string{dir}, Algorithm: sequencer.RandomNoRepeat})

	var got []string
	assert.Eventually(t, func() bool {
		got = got[:0]
		for _, e := range s.Catalog().Entries() {
			got = append(got, e.Path)
		}
		return strings.Join(got, ",") != strings.Join(paths, ",")
	}, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, paths, got)

	seen := make(map[string]bool)
	for range paths {
		item, err := s.Next(context.Background())
		require.NoError(t, err)
		assert.False(t, seen[item.Entry.Path], "%s repeated within one cycle", item.Entry.Path)
		seen[item.Entry.Path] = true
	}
}

func TestNotificationDismissed(t *testing.T) {
	p := &fakePresenter{}
	s := New(Config{}, p, WithNotificationTimeout(20*time.Millisecond))
	defer s.Close()

	s.ShowUsage()
	n, ok := s.Notification()
	require.True(t, ok)
	assert.Equal(t, UsageText, n.Message)
	assert.Equal(t, KindInfo, n.Kind)

	assert.Eventually(t, func() bool {
		_, ok := s.Notification()
		return !ok && p.clearedCount() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNewerNotificationReplacesOlder(t *testing.T) {
	p := &fakePresenter{}
	s := New(Config{}, p, WithNotificationTimeout(50*time.Millisecond))
	defer s.Close()

	s.notify(KindInfo, "first")
	time.Sleep(30 * time.Millisecond)
	s.notify(KindInfo, "second")
	time.Sleep(30 * time.Millisecond)

	n, ok := s.Notification()
	require.True(t, ok, "the first timer must not dismiss the second notification")
	assert.Equal(t, "second", n.Message)
}

func TestTogglePauseHidesNotification(t *testing.T) {
	p := &fakePresenter{}
	s := New(Config{}, p)
	defer s.Close()

	assert.True(t, s.TogglePause())
	s.LoadFailed("/x.jpg", errors.New("bad"))
	assert.True(t, p.notified(loadFailedMessage("/x.jpg")))

	assert.False(t, s.TogglePause())
	_, ok := s.Notification()
	assert.False(t, ok)
}

func TestHoldAroundDelete(t *testing.T) {
	dir, _ := mediaDir(t, "a.jpg", "b.jpg")
	s, _ := startScanned(t, Config{Roots: []string{dir}})

	_, err := s.Next(context.Background())
	require.NoError(t, err)

	s.Hold()
	assert.True(t, s.IsPaused())
	_, err = s.Delete()
	require.NoError(t, err)
	assert.True(t, s.IsPaused(), "still held after the deletion")
	s.Release()
	assert.False(t, s.IsPaused())
}

func TestLoadFailedPauses(t *testing.T) {
	s := New(Config{}, &fakePresenter{})
	defer s.Close()

	s.LoadFailed("/x.jpg", errors.New("bad"))
	assert.True(t, s.IsPaused())
}

func TestAutoMute(t *testing.T) {
	dir, _ := mediaDir(t, "a.mp4")
	s, p := startScanned(t, Config{Roots: []string{dir}, Volume: 0.7, VolumeTimeout: 20 * time.Millisecond})

	assert.Eventually(t, func() bool { return p.notified(MsgMuted) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0.0, s.Volume())
}

func TestAdjustVolume(t *testing.T) {
	s := New(Config{Volume: 0.95}, &fakePresenter{})
	defer s.Close()

	v, err := s.AdjustVolume(0.1)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = s.SetVolume(0)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestRunAdvancesImages(t *testing.T) {
	dir, _ := mediaDir(t, "a.jpg", "b.jpg", "c.jpg")
	s, p := startScanned(t, Config{Roots: []string{dir}, Interval: 20 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	assert.Eventually(t, func() bool { return p.shownCount() >= 3 }, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunHonoursPause(t *testing.T) {
	dir, _ := mediaDir(t, "a.jpg", "b.jpg")
	s, p := startScanned(t, Config{Roots: []string{dir}, Interval: 20 * time.Millisecond})
	s.TogglePause()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool { return p.shownCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, p.shownCount(), "paused session must not advance")

	s.TogglePause()
	assert.Eventually(t, func() bool { return p.shownCount() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestRunAdvancesVideoOnMediaEnded(t *testing.T) {
	dir, paths := mediaDir(t, "a.mp4", "b.mp4")
	s, p := startScanned(t, Config{Roots: []string{dir}, Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	assert.Eventually(t, func() bool { return p.shownCount() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, p.shownCount(), "videos do not advance on the image interval")

	s.MediaEnded(paths[1]) // not on screen
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, p.shownCount())

	s.MediaEnded(paths[0])
	assert.Eventually(t, func() bool {
		e, ok := s.CurrentEntry()
		return ok && e.Path == paths[1]
	}, time.Second, 5*time.Millisecond)
}

func TestStatus(t *testing.T) {
	dir, paths := mediaDir(t, "a.jpg", "b.jpg")
	s, _ := startScanned(t, Config{Roots: []string{dir}, Algorithm: sequencer.Random, Volume: 0.5})

	_, err := s.Next(context.Background())
	require.NoError(t, err)

	st := s.Status()
	assert.Contains(t, paths, st.Current)
	assert.Equal(t, 2, st.Count)
	assert.Equal(t, "complete", st.ScanState)
	assert.Equal(t, "random", st.Algorithm)
	assert.Equal(t, 0.5, st.Volume)
	assert.False(t, st.Paused)
}

func TestConfirmsDeletion(t *testing.T) {
	tests := []struct {
		answer string
		want   bool
	}{
		{"yes", true},
		{" OK ", true},
		{"Yes\n", true},
		{"y", false},
		{"", false},
		{"no", false},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfirmsDeletion(tt.answer))
		})
	}
	assert.Equal(t, "Type yes or ok if you want to delete /p/a.jpg file", DeletePrompt("/p/a.jpg"))
}
