package facts

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no derived facts exist for a patient.
var ErrNotFound = errors.New("derived facts not found")

// Repository provides read access to the derived-facts projection.
type Repository interface {
	GetByPatient(ctx context.Context, patientID string) (*DerivedClinicalFacts, error)
	List(ctx context.Context) ([]*DerivedClinicalFacts, error)
	Replace(ctx context.Context, batch []*DerivedClinicalFacts) error
}
