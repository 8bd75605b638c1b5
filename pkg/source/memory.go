package source

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-crosswire"
)

// Memory is a mutable in-process Source, useful for command line overrides
// and tests.
type Memory struct {
	name     string
	mu       sync.RWMutex
	settings crosswire.Settings
}

// NewMemory constructs an empty Memory source.
func NewMemory(name string) *Memory {
	return &Memory{name: name, settings: crosswire.Settings{}}
}

// Name returns the source label.
func (m *Memory) Name() string {
	return m.name
}

// Put records setting under name.
func (m *Memory) Put(name string, setting crosswire.Setting) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		m.settings = crosswire.Settings{}
	}
	m.settings[name] = setting
}

// Delete removes name.
func (m *Memory) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.settings, name)
}

// PutAssignment parses NAME=VALUE into a raw setting. VALUE is decoded as a
// YAML scalar, so numbers and booleans keep their type.
func (m *Memory) PutAssignment(assignment string) error {
	name, value, ok := strings.Cut(assignment, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("source: assignment %q must look like NAME=VALUE", assignment)
	}
	settings, err := Parse([]byte(fmt.Sprintf("value: %s", value)), FormatYAML)
	if err != nil {
		m.Put(name, crosswire.Raw(value))
		return nil
	}
	m.Put(name, settings["value"])
	return nil
}

// Settings implements crosswire.Source.
func (m *Memory) Settings() crosswire.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.Settings()
}
