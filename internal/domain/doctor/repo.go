package doctor

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

// ErrNotFound is returned when no doctor matches the given id.
var ErrNotFound = errors.New("doctor not found")

// ErrVersionConflict is returned when an optimistic schedule update
// lost the race against a concurrent writer.
var ErrVersionConflict = errors.New("doctor was modified concurrently")

// ErrInUse is returned when a delete is rejected because bookings or
// invoices still reference the doctor.
var ErrInUse = errors.New("doctor is referenced by existing bookings or invoices")

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id string) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	// UpdateSchedule replaces the schedule only when the stored version
	// still equals d.Version; on success d.Version is incremented.
	UpdateSchedule(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Doctor, int, error)
	SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Doctor, int, error)
	Count(ctx context.Context) (int, error)
}
