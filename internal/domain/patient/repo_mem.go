package patient

import (
	"context"
	"sync"
)

// MemoryRepo serves patients from memory in generation order.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []*Profile
}

func NewMemoryRepo(items []*Profile) *MemoryRepo {
	return &MemoryRepo{items: items}
}

func (m *MemoryRepo) List(_ context.Context) ([]*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Profile, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryRepo) GetByID(_ context.Context, id string) (*Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Replace(_ context.Context, batch []*Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = batch
	return nil
}
