// file: internal/config/manager.go
// version: 1.0.0
// guid: 8c7d6e5f-4a3b-2c1d-0e9f-8a7b6c5d4e3f

package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// OverrideStore persists settings edited at runtime so they survive restarts.
// Implemented by the pebble store; nil disables persistence.
type OverrideStore interface {
	SaveSettings(data []byte) error
	LoadSettings() ([]byte, bool, error)
}

// Manager guards the live settings tree. Readers get value snapshots; the
// settings session mutates through Update. Compound read sequences are not
// isolated from concurrent writes, which is acceptable at this granularity.
type Manager struct {
	mu    sync.RWMutex
	s     Settings
	store OverrideStore
}

// NewManager wraps an initial settings tree.
func NewManager(s Settings) *Manager {
	return &Manager{s: s}
}

// AttachStore assigns the override store and applies any persisted overrides
// on top of the current tree. Safe to call once at startup.
func (m *Manager) AttachStore(store OverrideStore) error {
	if store == nil {
		return nil
	}
	m.store = store

	data, ok, err := store.LoadSettings()
	if err != nil {
		return fmt.Errorf("failed to load persisted settings: %w", err)
	}
	if !ok {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := json.Unmarshal(data, &m.s); err != nil {
		return fmt.Errorf("failed to decode persisted settings: %w", err)
	}
	log.Println("Applied persisted settings overrides")
	return nil
}

// Snapshot returns a copy of the current settings. Slices are copied so the
// caller cannot mutate shared state through the snapshot.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.s
	s.SupportedCodecs = append([]string(nil), m.s.SupportedCodecs...)
	s.SudoUsers = append([]int64(nil), m.s.SudoUsers...)
	return s
}

// Update applies fn to the live tree under the write lock.
func (m *Manager) Update(fn func(*Settings)) {
	m.mu.Lock()
	fn(&m.s)
	m.mu.Unlock()
}

// Persist writes the current tree to the override store, if attached.
func (m *Manager) Persist() error {
	if m.store == nil {
		return nil
	}
	data, err := json.Marshal(m.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return m.store.SaveSettings(data)
}

// WatchFile replaces the live tree when the config file changes on disk.
// An on-disk edit is treated as authoritative over in-chat edits made since
// the last save. Returns a stop function.
func (m *Manager) WatchFile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := viper.ReadInConfig(); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				reloaded := Load()
				m.mu.Lock()
				m.s = reloaded
				m.mu.Unlock()
				log.Printf("Reloaded configuration from %s", path)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Printf("Config watcher error: %v", err)
			}
		}
	}()

	return func() {
		close(done)
		watcher.Close()
	}, nil
}
