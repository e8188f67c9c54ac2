package admin

import (
	"context"
	"fmt"

	"github.com/trialmatch/trialmatch/internal/domain/facts"
	"github.com/trialmatch/trialmatch/internal/domain/patient"
	"github.com/trialmatch/trialmatch/internal/domain/pipeline"
	"github.com/trialmatch/trialmatch/internal/domain/resource"
	"github.com/trialmatch/trialmatch/internal/platform/store"
	"github.com/trialmatch/trialmatch/internal/synth"
)

// Service owns the batch lifecycle: it generates datasets, swaps them into
// the domain repositories, and persists the snapshot. Regeneration is the
// only mutation the system has.
type Service struct {
	store      *store.Store
	archetypes []synth.Archetype

	patients  *patient.Service
	resources *resource.Service
	facts     *facts.Service
	pipeline  *pipeline.Service

	manifest synth.Manifest
}

func NewService(st *store.Store, archetypes []synth.Archetype,
	patients *patient.Service, resources *resource.Service,
	factsSvc *facts.Service, pipelineSvc *pipeline.Service) *Service {
	return &Service{
		store:      st,
		archetypes: archetypes,
		patients:   patients,
		resources:  resources,
		facts:      factsSvc,
		pipeline:   pipelineSvc,
	}
}

// GenerateOptions bounds one regeneration run.
type GenerateOptions struct {
	Seed                   uint64 `json:"seed,omitempty"`
	MinResourcesPerPatient int    `json:"minResourcesPerPatient,omitempty"`
	MaxResourcesPerPatient int    `json:"maxResourcesPerPatient,omitempty"`
}

// Regenerate discards the current batch and replaces it with a fresh one,
// persisting the new snapshot before returning.
func (s *Service) Regenerate(ctx context.Context, opts GenerateOptions) (*synth.Dataset, error) {
	gen := synth.New(synth.Options{
		Seed:         opts.Seed,
		MinResources: opts.MinResourcesPerPatient,
		MaxResources: opts.MaxResourcesPerPatient,
	})
	ds := gen.Generate(s.archetypes)

	if err := s.Install(ctx, ds); err != nil {
		return nil, err
	}
	if err := s.store.Save(ds); err != nil {
		return nil, fmt.Errorf("persist snapshot: %w", err)
	}
	return ds, nil
}

// Install swaps a dataset into the domain repositories without touching the
// persisted snapshot. Used at startup with a freshly loaded snapshot.
func (s *Service) Install(ctx context.Context, ds *synth.Dataset) error {
	for _, r := range ds.Resources {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid batch: %w", err)
		}
	}
	if err := s.patients.Replace(ctx, ds.Patients); err != nil {
		return err
	}
	if err := s.resources.Replace(ctx, ds.Resources); err != nil {
		return err
	}
	if err := s.facts.Replace(ctx, ds.DerivedFacts); err != nil {
		return err
	}
	s.pipeline.Seed(ctx, ds.Resources)
	s.manifest = ds.Manifest
	return nil
}

// Manifest returns the manifest of the installed batch.
func (s *Service) Manifest() synth.Manifest {
	return s.manifest
}

// Counts reports entity counts of the installed batch for health checks.
func (s *Service) Counts(ctx context.Context) (store.Counts, error) {
	patients, err := s.patients.List(ctx)
	if err != nil {
		return store.Counts{}, err
	}
	_, resourceTotal, err := s.resources.List(ctx, resource.Filter{}, 0, 0)
	if err != nil {
		return store.Counts{}, err
	}
	all, err := s.facts.List(ctx)
	if err != nil {
		return store.Counts{}, err
	}
	return store.Counts{
		Patients:     len(patients),
		Resources:    resourceTotal,
		DerivedFacts: len(all),
	}, nil
}
