package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrNoPath is returned by Save when the manager has no backing file.
var ErrNoPath = errors.New("settings: no file path")

// Manager holds the committed settings plus a pending copy being edited.
// Edits go through Begin, Set, then Apply or Cancel.
type Manager struct {
	mu      sync.Mutex
	path    string
	current Settings
	pending Settings
	editing bool
}

// NewManager creates an in-memory manager starting from s.
func NewManager(s Settings) *Manager {
	s = s.Clamp()
	return &Manager{current: s, pending: s}
}

// Open loads settings from path. A missing file yields defaults; the file
// is created on the first Apply. The codec is TOML for ".toml" paths and
// YAML otherwise.
func Open(path string) (*Manager, error) {
	m := NewManager(Defaults())
	m.path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return m, fmt.Errorf("settings: read %s: %w", path, err)
	}

	s := Defaults()
	if err := decode(path, data, &s); err != nil {
		return m, fmt.Errorf("settings: parse %s: %w", path, err)
	}
	m.current = s.Clamp()
	m.pending = m.current
	return m, nil
}

// Path returns the backing file, if any.
func (m *Manager) Path() string {
	return m.path
}

// Current returns the committed settings.
func (m *Manager) Current() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Pending returns the settings being edited, or the committed ones when
// no edit is in progress.
func (m *Manager) Pending() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editing {
		return m.current
	}
	return m.pending
}

// Begin starts an edit session from the committed settings.
func (m *Manager) Begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = m.current
	m.editing = true
}

// Set mutates the pending copy. Calling Set without Begin starts an edit.
func (m *Manager) Set(fn func(*Settings)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.editing {
		m.pending = m.current
		m.editing = true
	}
	fn(&m.pending)
	m.pending = m.pending.Clamp()
}

// Apply commits the pending copy and persists it when a path is set.
// The committed value is updated even when saving fails.
func (m *Manager) Apply() error {
	m.mu.Lock()
	m.current = m.pending.Clamp()
	m.pending = m.current
	m.editing = false
	s, path := m.current, m.path
	m.mu.Unlock()

	if path == "" {
		return nil
	}
	return save(path, s)
}

// Cancel drops the pending copy.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = m.current
	m.editing = false
}

// Save writes the committed settings to the backing file.
func (m *Manager) Save() error {
	if m.path == "" {
		return ErrNoPath
	}
	return save(m.path, m.Current())
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

func decode(path string, data []byte, s *Settings) error {
	if isTOML(path) {
		_, err := toml.Decode(string(data), s)
		return err
	}
	return yaml.Unmarshal(data, s)
}

func save(path string, s Settings) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(s); err != nil {
			return fmt.Errorf("settings: encode: %w", err)
		}
	} else {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("settings: encode: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("settings: encode: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("settings: create dir: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("settings: write %s: %w", path, err)
	}
	return nil
}
