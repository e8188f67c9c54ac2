package resource

import (
	"context"
	"sync"
)

// MemoryRepo serves the batch from memory in generation order.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []*EHRResource
}

func NewMemoryRepo(items []*EHRResource) *MemoryRepo {
	return &MemoryRepo{items: items}
}

func (m *MemoryRepo) List(_ context.Context, f Filter, limit, offset int) ([]*EHRResource, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*EHRResource
	for _, r := range m.items {
		if f.PatientID != "" && r.Metadata.Identifier.PatientID != f.PatientID {
			continue
		}
		if f.State != "" && f.State != StateUnspecified && r.Metadata.State != f.State {
			continue
		}
		if f.ResourceType != "" && r.Metadata.ResourceType != f.ResourceType {
			continue
		}
		matched = append(matched, r)
	}

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (m *MemoryRepo) GetByUID(_ context.Context, patientID, uid string) (*EHRResource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, r := range m.items {
		if r.Metadata.Identifier.PatientID == patientID && r.Metadata.Identifier.UID == uid {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Replace(_ context.Context, batch []*EHRResource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = batch
	return nil
}
