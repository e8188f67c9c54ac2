package resource

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of the batch plus the total count of matches.
func (s *Service) List(ctx context.Context, f Filter, limit, offset int) ([]*EHRResource, int, error) {
	if f.ResourceType != "" && !validType(f.ResourceType) {
		return nil, 0, fmt.Errorf("unknown resource type %q", f.ResourceType)
	}
	return s.repo.List(ctx, f, limit, offset)
}

// Get looks up one resource by its (patientId, uid) pair.
func (s *Service) Get(ctx context.Context, patientID, uid string) (*EHRResource, error) {
	if patientID == "" || uid == "" {
		return nil, fmt.Errorf("patient id and uid are required")
	}
	return s.repo.GetByUID(ctx, patientID, uid)
}

// Replace swaps in a freshly generated batch.
func (s *Service) Replace(ctx context.Context, batch []*EHRResource) error {
	return s.repo.Replace(ctx, batch)
}

func validType(t string) bool {
	for _, known := range Types() {
		if t == known {
			return true
		}
	}
	return false
}
