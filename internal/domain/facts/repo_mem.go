package facts

import (
	"context"
	"sync"
)

// MemoryRepo serves derived facts from memory, one record per patient.
type MemoryRepo struct {
	mu    sync.RWMutex
	items []*DerivedClinicalFacts
}

func NewMemoryRepo(items []*DerivedClinicalFacts) *MemoryRepo {
	return &MemoryRepo{items: items}
}

func (m *MemoryRepo) GetByPatient(_ context.Context, patientID string) (*DerivedClinicalFacts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.items {
		if f.PatientID == patientID {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*DerivedClinicalFacts, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*DerivedClinicalFacts, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *MemoryRepo) Replace(_ context.Context, batch []*DerivedClinicalFacts) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = batch
	return nil
}
