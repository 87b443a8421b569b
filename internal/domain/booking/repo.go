package booking

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

var (
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrServiceNotFound is returned when no clinic service matches the
	// given id.
	ErrServiceNotFound = errors.New("service not found")
)

type Repository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	Update(ctx context.Context, b *Booking) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Booking, int, error)
	SearchByPatient(ctx context.Context, q string, pg pagination.Params) ([]*Booking, int, error)
	Count(ctx context.Context) (int, error)
}

type ServiceRepository interface {
	Create(ctx context.Context, s *ClinicService) error
	GetByID(ctx context.Context, id string) (*ClinicService, error)
	Update(ctx context.Context, s *ClinicService) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*ClinicService, int, error)
	Count(ctx context.Context) (int, error)
}

// SlotRepository backs the read-only time-slot catalog. Seed is
// idempotent; labels already present are left untouched.
type SlotRepository interface {
	Seed(ctx context.Context, labels []string) error
	List(ctx context.Context) ([]*TimeSlot, error)
}
