package config

import (
	"context"
	"errors"
	"log"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

type Manager struct {
	mu        sync.RWMutex
	path      string
	config    *Config
	listeners []func(*Config)
	watcher   *fsnotify.Watcher
	wg        sync.WaitGroup
}

// NewManager loads the user's config. A missing file falls back to the
// defaults so arrival runs before "arrival configure" has been used.
func NewManager() (*Manager, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	return NewManagerAt(configPath)
}

func NewManagerAt(configPath string) (*Manager, error) {
	log.Printf("Config manager: initializing configuration system...")

	config, err := LoadFrom(configPath)
	if errors.Is(err, ErrConfigNotFound) {
		log.Printf("Config manager: no config at %s, using defaults", configPath)
		config = DefaultConfig()
	} else if err != nil {
		log.Printf("Config manager: failed to load initial configuration: %v", err)
		return nil, err
	}

	if err := config.Validate(); err != nil {
		log.Printf("Config manager: validation failed: %v", err)
		return nil, err
	}

	return &Manager{path: configPath, config: config}, nil
}

func (m *Manager) Path() string {
	return m.path
}

func (m *Manager) GetConfig() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	configCopy := *m.config
	return &configCopy
}

// OnReload registers fn to be called with every successfully reloaded config.
func (m *Manager) OnReload(fn func(*Config)) {
	m.mu.Lock()
	m.listeners = append(m.listeners, fn)
	m.mu.Unlock()
}

func (m *Manager) StartWatching(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	// watch the directory: saves replace the file by rename
	if err := watcher.Add(filepath.Dir(m.path)); err != nil {
		watcher.Close()
		return err
	}
	m.watcher = watcher

	m.wg.Add(1)
	go m.watchLoop(ctx)

	log.Printf("Config manager: watching %s for changes", m.path)
	return nil
}

func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Close()
	}
	m.wg.Wait()
}

func (m *Manager) watchLoop(ctx context.Context) {
	defer m.wg.Done()
	configFileName := filepath.Base(m.path)

	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != configFileName {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.Printf("Config manager: file change detected: %s. Reloading config...", event.Name)
				m.reloadConfig()
			}

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("Config watcher error: %v", err)

		case <-ctx.Done():
			return
		}
	}
}

func (m *Manager) reloadConfig() {
	newConfig, err := LoadFrom(m.path)
	if err != nil {
		log.Printf("Config manager: failed to reload config: %v", err)
		return
	}
	if err := newConfig.Validate(); err != nil {
		log.Printf("Config manager: invalid config after reload: %v", err)
		return
	}

	m.mu.Lock()
	m.config = newConfig
	listeners := append([]func(*Config){}, m.listeners...)
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(newConfig)
	}
	log.Printf("Config manager: configuration successfully reloaded")
}
