package catalog

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository keeps designs in a map. It is safe for concurrent use.
type MemoryRepository struct {
	mu      sync.RWMutex
	designs map[string]Design
	now     func() time.Time
	newID   func() string
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		designs: make(map[string]Design),
		now:     now,
		newID:   newID,
	}
}

func (m *MemoryRepository) List(_ context.Context) ([]Design, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	designs := make([]Design, 0, len(m.designs))
	for _, d := range m.designs {
		designs = append(designs, d)
	}
	sortDesigns(designs)
	return designs, nil
}

func (m *MemoryRepository) Get(_ context.Context, id string) (Design, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	d, ok := m.designs[id]
	if !ok {
		return Design{}, ErrNotFound
	}
	return d, nil
}

func (m *MemoryRepository) Save(_ context.Context, design Design) (Design, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var existing *Design
	if current, ok := m.designs[design.ID]; ok && design.ID != "" {
		existing = &current
	}
	design = prepare(design, existing, m.now(), m.newID)
	m.designs[design.ID] = design
	return design, nil
}

func (m *MemoryRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.designs[id]; !ok {
		return ErrNotFound
	}
	delete(m.designs, id)
	return nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
