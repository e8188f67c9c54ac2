package patient

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

func (s *Service) List(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	if id == "" {
		return nil, fmt.Errorf("patient id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Replace(ctx context.Context, batch []*Profile) error {
	return s.repo.Replace(ctx, batch)
}
