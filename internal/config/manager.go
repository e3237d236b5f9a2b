package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	evbus "github.com/dshills/neoview/internal/event"
	"github.com/dshills/neoview/internal/logger"
)

// debounce coalesces the burst of filesystem events an editor save emits.
const debounce = 100 * time.Millisecond

// Manager holds the current settings and reloads them when the file
// changes on disk. Reads are safe from any goroutine.
type Manager struct {
	mu   sync.RWMutex
	cfg  Config
	path string

	bus     *evbus.Bus
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewManager loads the settings at path, falling back to defaults when
// the file is absent or malformed. Reloads publish TopicConfigReload.
func NewManager(path string, bus *evbus.Bus) *Manager {
	cfg, err := Load(path)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", path, "error", err)
	}
	return &Manager{cfg: cfg, path: path, bus: bus}
}

// Config returns the current settings.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg
}

// Path returns the watched settings file path.
func (m *Manager) Path() string { return m.path }

// Watch starts live reload. The parent directory is watched rather than
// the file itself: editors replace files on save, which drops a watch
// placed directly on the file.
func (m *Manager) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(m.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch config dir: %w", err)
	}

	m.watcher = w
	m.done = make(chan struct{})
	m.wg.Add(1)
	go m.watchLoop()
	return nil
}

// Close stops the watcher.
func (m *Manager) Close() error {
	if m.watcher == nil {
		return nil
	}
	close(m.done)
	err := m.watcher.Close()
	m.wg.Wait()
	m.watcher = nil
	return err
}

func (m *Manager) watchLoop() {
	defer m.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-m.done:
			return

		case ev, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != filepath.Clean(m.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				timerC = timer.C
			} else {
				timer.Reset(debounce)
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", "error", err)

		case <-timerC:
			timer = nil
			timerC = nil
			m.reload()
		}
	}
}

func (m *Manager) reload() {
	cfg, err := Load(m.path)
	if err != nil {
		logger.Warn("config reload failed, keeping current settings", "path", m.path, "error", err)
		return
	}

	m.mu.Lock()
	changed := !cfg.Equal(m.cfg)
	m.cfg = cfg
	m.mu.Unlock()

	if !changed {
		return
	}
	logger.Info("config reloaded", "path", m.path)
	if m.bus != nil {
		m.bus.Publish(evbus.TopicConfigReload, cfg)
	}
}
