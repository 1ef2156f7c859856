// Package prefs provides the preference stores behind the theme command: an
// in-memory store for browser sessions, whose values live in the visitor's
// localStorage, and a YAML file store for the local shell.
package prefs

import (
	"maps"
	"sync"
)

// ThemeKey is the preference key the theme command persists under.
const ThemeKey = "theme"

// Memory is a concurrency-safe in-memory preference store.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	onSet  func(key, value string)
}

// NewMemory creates a store seeded with initial. onSet, when non-nil, is
// called after every successful Set.
func NewMemory(initial map[string]string, onSet func(key, value string)) *Memory {
	values := make(map[string]string, len(initial))
	maps.Copy(values, initial)
	return &Memory{values: values, onSet: onSet}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	if m.onSet != nil {
		m.onSet(key, value)
	}
	return nil
}

// Snapshot returns a copy of every stored value.
func (m *Memory) Snapshot() map[string]string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return maps.Clone(m.values)
}
