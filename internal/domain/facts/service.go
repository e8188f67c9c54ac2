package facts

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

func (s *Service) GetByPatient(ctx context.Context, patientID string) (*DerivedClinicalFacts, error) {
	if patientID == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	return s.repo.GetByPatient(ctx, patientID)
}

func (s *Service) List(ctx context.Context) ([]*DerivedClinicalFacts, error) {
	return s.repo.List(ctx)
}

func (s *Service) Replace(ctx context.Context, batch []*DerivedClinicalFacts) error {
	return s.repo.Replace(ctx, batch)
}
