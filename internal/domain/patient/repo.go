package patient

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

// ErrNotFound is returned when no patient matches the given id.
var ErrNotFound = errors.New("patient not found")

// ErrInUse is returned when a delete is rejected because invoices
// still reference the patient.
var ErrInUse = errors.New("patient is referenced by existing invoices")

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Patient, int, error)
	SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Patient, int, error)
	Count(ctx context.Context) (int, error)
}
