package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no patient matches a lookup.
var ErrNotFound = errors.New("patient not found")

// Repository provides read access to the generated patient list.
type Repository interface {
	List(ctx context.Context) ([]*Profile, error)
	GetByID(ctx context.Context, id string) (*Profile, error)
	Replace(ctx context.Context, batch []*Profile) error
}
