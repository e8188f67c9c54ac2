package resource

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no resource matches a detail lookup.
var ErrNotFound = errors.New("resource not found")

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	PatientID    string
	State        ProcessingState
	ResourceType string
}

// Repository provides read access to the generated batch. The batch is
// replaced wholesale on regeneration; there is no per-resource mutation.
type Repository interface {
	List(ctx context.Context, f Filter, limit, offset int) ([]*EHRResource, int, error)
	GetByUID(ctx context.Context, patientID, uid string) (*EHRResource, error)
	Replace(ctx context.Context, batch []*EHRResource) error
}
