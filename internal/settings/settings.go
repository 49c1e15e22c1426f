package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"media-screensaver/internal/filesystem"

	"gopkg.in/yaml.v3"
)

// DefaultInterval is used when no positive interval is stored.
const DefaultInterval = 10 * time.Second

// Settings are the user preferences persisted between sessions.
type Settings struct {
	Folders              []string `yaml:"folders"`                // Media roots: directories or .wpl playlists
	Volume               float64  `yaml:"volume"`                 // Video volume, 0 to 1
	IntervalMS           int      `yaml:"interval_ms"`            // Time each image is shown
	Algorithm            int      `yaml:"algorithm"`              // 0 sequential, 1 random, 2 random without repeats
	VolumeTimeoutMinutes int      `yaml:"volume_timeout_minutes"` // Mute after this many minutes, 0 disables
}

// Interval returns the per-image display time.
func (s Settings) Interval() time.Duration {
	if s.IntervalMS <= 0 {
		return DefaultInterval
	}
	return time.Duration(s.IntervalMS) * time.Millisecond
}

// VolumeTimeout returns the auto-mute delay, or 0 when disabled.
func (s Settings) VolumeTimeout() time.Duration {
	if s.VolumeTimeoutMinutes <= 0 {
		return 0
	}
	return time.Duration(s.VolumeTimeoutMinutes) * time.Minute
}

// Store loads and saves Settings in a YAML file.
type Store struct {
	mu      sync.Mutex
	path    string
	current Settings
}

// DefaultPath returns the settings file location under the user config
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "media-screensaver", "settings.yaml"), nil
}

// Open reads the settings at path. A missing file yields empty settings.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("error reading settings file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.current); err != nil {
		return nil, fmt.Errorf("error parsing settings file: %w", err)
	}
	return s, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Get returns a copy of the current settings.
func (s *Store) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.current
	out.Folders = append([]string(nil), s.current.Folders...)
	return out
}

// SetFolders replaces the list of media roots.
func (s *Store) SetFolders(folders []string) error {
	return s.update(func(cur *Settings) error {
		cur.Folders = append([]string(nil), folders...)
		return nil
	})
}

// SetVolume stores the volume clamped to [0, 1].
func (s *Store) SetVolume(v float64) error {
	return s.update(func(cur *Settings) error {
		cur.Volume = min(max(v, 0), 1)
		return nil
	})
}

// SetIntervalMS stores the per-image display time in milliseconds.
func (s *Store) SetIntervalMS(ms int) error {
	return s.update(func(cur *Settings) error {
		if ms < 0 {
			return fmt.Errorf("interval must not be negative: %d", ms)
		}
		cur.IntervalMS = ms
		return nil
	})
}

// SetAlgorithm stores the selection algorithm.
func (s *Store) SetAlgorithm(alg int) error {
	return s.update(func(cur *Settings) error {
		if alg < 0 || alg > 2 {
			return fmt.Errorf("unknown algorithm %d", alg)
		}
		cur.Algorithm = alg
		return nil
	})
}

// SetVolumeTimeoutMinutes stores the auto-mute delay; 0 disables it.
func (s *Store) SetVolumeTimeoutMinutes(minutes int) error {
	return s.update(func(cur *Settings) error {
		if minutes < 0 {
			return fmt.Errorf("volume timeout must not be negative: %d", minutes)
		}
		cur.VolumeTimeoutMinutes = minutes
		return nil
	})
}

func (s *Store) update(fn func(*Settings) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	next.Folders = append([]string(nil), s.current.Folders...)
	if err := fn(&next); err != nil {
		return err
	}
	if err := s.save(next); err != nil {
		return err
	}
	s.current = next
	return nil
}

func (s *Store) save(cur Settings) error {
	if s.path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := yaml.Marshal(&cur)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return filesystem.WriteFileAtomic(s.path, data)
}
