package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/studiowebux/itemconsole/internal/config"
)

// BaseURLKey is the fixed key under which the base URL is persisted
const BaseURLKey = "baseUrl"

// Store is a minimal persisted key/value store
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Session represents the state persisted between runs
type Session struct {
	Values         map[string]string `json:"values,omitempty"`
	HistoryEnabled *bool             `json:"historyEnabled,omitempty"`
}

// Manager persists the session to a JSON file
type Manager struct {
	mu      sync.RWMutex
	path    string
	session *Session
}

// NewManager creates a session manager bound to the configured session file
func NewManager() *Manager {
	return NewManagerWithPath("")
}

// NewManagerWithPath creates a session manager bound to path.
// An empty path resolves to config.GetSessionFilePath() at load/save time.
func NewManagerWithPath(path string) *Manager {
	return &Manager{
		path:    path,
		session: defaultSession(),
	}
}

func defaultSession() *Session {
	enabled := true
	return &Session{
		Values:         make(map[string]string),
		HistoryEnabled: &enabled,
	}
}

// Path returns the session file in use
func (m *Manager) Path() string {
	if m.path != "" {
		return m.path
	}
	return config.GetSessionFilePath()
}

// Load loads the session file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		// If file doesn't exist, use default session
		if os.IsNotExist(err) {
			m.mu.Lock()
			m.session = defaultSession()
			m.mu.Unlock()
			return nil
		}
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}

	if session.Values == nil {
		session.Values = make(map[string]string)
	}

	if session.HistoryEnabled == nil {
		enabled := true
		session.HistoryEnabled = &enabled
	}

	m.mu.Lock()
	m.session = &session
	m.mu.Unlock()
	return nil
}

// Save saves the session to disk
func (m *Manager) Save() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.write()
}

// write persists the session; callers hold m.mu
func (m *Manager) write() error {
	data, err := json.MarshalIndent(m.session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := os.WriteFile(m.Path(), data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	return nil
}

// Get returns the value stored under key
func (m *Manager) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.session.Values[key]
	return value, ok
}

// Set stores value under key and persists the session.
// The previous value is restored when the write fails.
func (m *Manager) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous, existed := m.session.Values[key]
	m.session.Values[key] = value
	if err := m.write(); err != nil {
		if existed {
			m.session.Values[key] = previous
		} else {
			delete(m.session.Values, key)
		}
		return err
	}
	return nil
}

// IsHistoryEnabled returns whether the history archive is enabled
func (m *Manager) IsHistoryEnabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session.HistoryEnabled == nil {
		return true
	}
	return *m.session.HistoryEnabled
}

// SetHistoryEnabled sets whether the history archive is enabled
func (m *Manager) SetHistoryEnabled(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := m.session.HistoryEnabled
	m.session.HistoryEnabled = &enabled
	if err := m.write(); err != nil {
		m.session.HistoryEnabled = previous
		return err
	}
	return nil
}

// MemoryStore is a Store that never touches the disk
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the value stored under key
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// Set stores value under key
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
