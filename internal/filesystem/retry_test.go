package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"
)

type recordingObserver struct {
	mu       sync.Mutex
	attempts map[string]int
	success  map[string]int
	failures map[string]int
	stale    map[string]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{
		attempts: map[string]int{},
		success:  map[string]int{},
		failures: map[string]int{},
		stale:    map[string]int{},
	}
}

func (r *recordingObserver) ObserveDuration(string, float64) {}

func (r *recordingObserver) ObserveRetryAttempt(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts[op]++
}

func (r *recordingObserver) ObserveRetrySuccess(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.success[op]++
}

func (r *recordingObserver) ObserveRetryFailure(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures[op]++
}

func (r *recordingObserver) ObserveStaleError(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stale[op]++
}

func fastConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
}

func TestIsStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "open", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isStaleError(tt.err); got != tt.want {
				t.Errorf("isStaleError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithRetryRecoversFromStaleHandle(t *testing.T) {
	obs := newRecordingObserver()
	SetObserver(obs)
	defer SetObserver(nil)

	calls := 0
	got, err := withRetry("stat", "/share/a.jpg", fastConfig(), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, syscall.ESTALE
		}
		return 42, nil
	})

	if err != nil {
		t.Fatalf("withRetry() error = %v", err)
	}
	if got != 42 {
		t.Errorf("withRetry() = %d, want 42", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if obs.stale["stat"] != 2 || obs.attempts["stat"] != 2 || obs.success["stat"] != 1 {
		t.Errorf("observer = stale %d attempts %d success %d, want 2/2/1",
			obs.stale["stat"], obs.attempts["stat"], obs.success["stat"])
	}
}

func TestWithRetryGivesUp(t *testing.T) {
	obs := newRecordingObserver()
	SetObserver(obs)
	defer SetObserver(nil)

	calls := 0
	_, err := withRetry("open", "/share/b.jpg", fastConfig(), func() (int, error) {
		calls++
		return 0, syscall.ESTALE
	})

	if !errors.Is(err, syscall.ESTALE) {
		t.Fatalf("withRetry() error = %v, want ESTALE", err)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (1 + 3 retries)", calls)
	}
	if obs.failures["open"] != 1 {
		t.Errorf("failures = %d, want 1", obs.failures["open"])
	}
}

func TestWithRetryDoesNotRetryOtherErrors(t *testing.T) {
	calls := 0
	_, err := withRetry("readdir", "/missing", fastConfig(), func() (int, error) {
		calls++
		return 0, os.ErrNotExist
	})

	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("withRetry() error = %v, want ErrNotExist", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestFileOperations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	info, err := StatWithRetry(path, fastConfig())
	if err != nil {
		t.Fatalf("StatWithRetry: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size = %d, want 4", info.Size())
	}

	f, err := OpenWithRetry(path, fastConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry: %v", err)
	}
	f.Close()

	entries, err := ReadDirWithRetry(dir, fastConfig())
	if err != nil {
		t.Fatalf("ReadDirWithRetry: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("ReadDirWithRetry returned %d entries, want 1", len(entries))
	}

	if err := RemoveWithRetry(path, fastConfig()); err != nil {
		t.Fatalf("RemoveWithRetry: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still exists after RemoveWithRetry: %v", err)
	}

	if err := RemoveWithRetry(path, fastConfig()); !os.IsNotExist(err) {
		t.Errorf("RemoveWithRetry on missing file = %v, want not-exist", err)
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, []byte("old"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := WriteFileAtomic(path, []byte("new contents")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "new contents" {
		t.Errorf("contents = %q, want %q", got, "new contents")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the replaced file", len(entries))
	}

	created := filepath.Join(dir, "new.yaml")
	if err := WriteFileAtomic(created, []byte("x")); err != nil {
		t.Fatalf("WriteFileAtomic on new file: %v", err)
	}
	if info, err := os.Stat(created); err != nil || info.Mode().Perm() != 0o644 {
		t.Errorf("new file stat = %v, %v; want mode 0644", info, err)
	}

	if err := WriteFileAtomic(filepath.Join(dir, "no-such-dir", "x.png"), []byte("x")); err == nil {
		t.Error("expected error when the directory does not exist")
	}
}

func TestIsTempFile(t *testing.T) {
	tests := []struct {
		name string
		path string
		want bool
	}{
		{"Temp file", "/photos/.tmp-123456", true},
		{"Media file", "/photos/holiday.png", false},
		{"Prefix only in directory", "/photos/.tmp-dir/holiday.png", false},
		{"Other dot file", "/photos/.hidden.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTempFile(tt.path); got != tt.want {
				t.Errorf("IsTempFile(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
