package storage

import (
	"fmt"
	"sort"
	"sync"

	"github.com/shhac/roboaccordion/internal/segments"
)

// MemoryRepository implements Repository using in-memory storage for tests
type MemoryRepository struct {
	layouts map[string][]segments.Definition
	session *Session
	mu      sync.RWMutex
}

// NewMemoryRepository creates a new in-memory storage repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		layouts: make(map[string][]segments.Definition),
	}
}

// SaveLayout stores a copy of defs
func (m *MemoryRepository) SaveLayout(name string, defs []segments.Definition) error {
	if err := validateLayoutName(name); err != nil {
		return fmt.Errorf("invalid layout name: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.layouts[name] = append([]segments.Definition(nil), defs...)
	return nil
}

// LoadLayout retrieves a layout from memory
func (m *MemoryRepository) LoadLayout(name string) ([]segments.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	defs, ok := m.layouts[name]
	if !ok {
		return nil, fmt.Errorf("layout %q not found", name)
	}
	return append([]segments.Definition(nil), defs...), nil
}

// ListLayouts returns the sorted names of all stored layouts
func (m *MemoryRepository) ListLayouts() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.layouts))
	for name := range m.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteLayout removes a layout from memory
func (m *MemoryRepository) DeleteLayout(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.layouts[name]; !ok {
		return fmt.Errorf("layout %q not found", name)
	}
	delete(m.layouts, name)
	return nil
}

// SaveSession stores the session in memory
func (m *MemoryRepository) SaveSession(session Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &session
	return nil
}

// LoadSession returns the stored session, or nil
func (m *MemoryRepository) LoadSession() (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}
