package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trialmatch/trialmatch/internal/synth"
)

const (
	patientsFile  = "patients.json"
	resourcesFile = "resources.json"
	factsFile     = "derived_facts.json"
	manifestFile  = "manifest.json"
)

// Store persists a generated dataset as independent JSON documents in a
// single directory. The batch job is the only writer; the API reads the
// snapshot once at startup.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Exists reports whether a persisted snapshot is present.
func (s *Store) Exists() bool {
	for _, name := range []string{patientsFile, resourcesFile, factsFile} {
		if _, err := os.Stat(filepath.Join(s.dir, name)); err != nil {
			return false
		}
	}
	return true
}

// Save writes the dataset, one document per file. Each file is written to a
// temp file first and renamed into place so a crashed write never leaves a
// truncated document behind.
func (s *Store) Save(ds *synth.Dataset) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := s.writeJSON(patientsFile, ds.Patients); err != nil {
		return err
	}
	if err := s.writeJSON(resourcesFile, ds.Resources); err != nil {
		return err
	}
	if err := s.writeJSON(factsFile, ds.DerivedFacts); err != nil {
		return err
	}
	return s.writeJSON(manifestFile, ds.Manifest)
}

// Load reads the snapshot back into a dataset. A missing manifest is
// tolerated for snapshots written by older runs.
func (s *Store) Load() (*synth.Dataset, error) {
	ds := &synth.Dataset{}
	if err := s.readJSON(patientsFile, &ds.Patients); err != nil {
		return nil, err
	}
	if err := s.readJSON(resourcesFile, &ds.Resources); err != nil {
		return nil, err
	}
	if err := s.readJSON(factsFile, &ds.DerivedFacts); err != nil {
		return nil, err
	}
	if err := s.readJSON(manifestFile, &ds.Manifest); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	return ds, nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

// Counts summarizes a loaded snapshot for health reporting.
type Counts struct {
	Patients     int `json:"patients"`
	Resources    int `json:"resources"`
	DerivedFacts int `json:"derivedFacts"`
}

// Count tallies the entities in a dataset.
func Count(ds *synth.Dataset) Counts {
	return Counts{
		Patients:     len(ds.Patients),
		Resources:    len(ds.Resources),
		DerivedFacts: len(ds.DerivedFacts),
	}
}
