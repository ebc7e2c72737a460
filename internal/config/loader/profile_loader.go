// Package loader hot-reloads the per-symbol trading profiles. A profile
// binds a symbol to a strategy, its parameters and its order sizing; the
// file can be edited while the bot runs and the next cycle picks up the
// new snapshot.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"mako/internal/logger"
	symbolpkg "mako/internal/pkg/symbol"
	"mako/internal/scheduler"
)

// Profile describes how one symbol is traded.
type Profile struct {
	Strategy string         `mapstructure:"strategy"`
	Interval string         `mapstructure:"interval"`
	Size     float64        `mapstructure:"size"`
	Leverage float64        `mapstructure:"leverage"`
	Params   map[string]any `mapstructure:"params"`
}

type fileConfig struct {
	Profiles map[string]Profile `mapstructure:"profiles"`
}

// Snapshot is a read-only, versioned view of the profile file. Symbols
// are normalized to the internal "BASE/QUOTE" form.
type Snapshot struct {
	Version  int64
	LoadedAt time.Time
	Profiles map[string]Profile
}

// ProfileLoader owns the file watcher and the current snapshot. A broken
// edit never takes down a running bot: reload failures keep the last good
// snapshot.
type ProfileLoader struct {
	path string

	mu      sync.RWMutex
	current Snapshot
}

// NewProfileLoader reads the file once; the initial load must succeed.
func NewProfileLoader(path string) (*ProfileLoader, error) {
	l := &ProfileLoader{path: path}
	snap, err := l.read()
	if err != nil {
		return nil, err
	}
	snap.Version = 1
	l.current = snap
	return l, nil
}

// Snapshot returns the current profiles.
func (l *ProfileLoader) Snapshot() Snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// Watch blocks reloading on file changes until the watcher fails or the
// stop channel closes. Editors replace files rather than write in place,
// so Create/Rename on the parent directory count as changes too.
func (l *ProfileLoader) Watch(stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		return err
	}

	const debounce = 200 * time.Millisecond
	var pending *time.Timer
	pendingCh := make(chan struct{}, 1)

	for {
		select {
		case <-stop:
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(debounce, func() {
				select {
				case pendingCh <- struct{}{}:
				default:
				}
			})
		case <-pendingCh:
			l.reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("profiles: watcher error: %v", err)
		}
	}
}

func (l *ProfileLoader) reload() {
	snap, err := l.read()
	if err != nil {
		logger.Errorf("profiles: reload failed, keeping last good snapshot: %v", err)
		return
	}
	l.mu.Lock()
	snap.Version = l.current.Version + 1
	l.current = snap
	l.mu.Unlock()
	logger.Infof("profiles: reloaded version=%d symbols=%d", snap.Version, len(snap.Profiles))
}

func (l *ProfileLoader) read() (Snapshot, error) {
	v := viper.New()
	v.SetConfigFile(l.path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return Snapshot{}, fmt.Errorf("reading profiles (%s): %w", l.path, err)
	}
	var raw fileConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("parsing profiles: %w", err)
	}
	if len(raw.Profiles) == 0 {
		return Snapshot{}, fmt.Errorf("profiles file has no profiles")
	}

	profiles := make(map[string]Profile, len(raw.Profiles))
	for key, profile := range raw.Profiles {
		normalized := symbolpkg.Normalize(key)
		if normalized == "" {
			return Snapshot{}, fmt.Errorf("invalid profile symbol %q", key)
		}
		if err := validateProfile(normalized, profile); err != nil {
			return Snapshot{}, err
		}
		profiles[normalized] = profile
	}
	return Snapshot{LoadedAt: time.Now(), Profiles: profiles}, nil
}

func validateProfile(symbol string, p Profile) error {
	if strings.TrimSpace(p.Strategy) == "" {
		return fmt.Errorf("profile %s: strategy is required", symbol)
	}
	if _, ok := scheduler.ParseIntervalDuration(p.Interval); !ok {
		return fmt.Errorf("profile %s: invalid interval %q", symbol, p.Interval)
	}
	if p.Size <= 0 {
		return fmt.Errorf("profile %s: size must be positive", symbol)
	}
	if p.Leverage < 1 {
		return fmt.Errorf("profile %s: leverage must be >= 1", symbol)
	}
	return nil
}
