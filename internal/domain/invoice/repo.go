package invoice

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

var (
	// ErrNotFound is returned when no invoice matches the given id.
	ErrNotFound = errors.New("invoice not found")
	// ErrDuplicateNumber is returned when an invoice number is already
	// taken within its collection.
	ErrDuplicateNumber = errors.New("invoice number already exists")
)

type PharmacyRepository interface {
	Create(ctx context.Context, inv *PharmacyInvoice) error
	GetByID(ctx context.Context, id string) (*PharmacyInvoice, error)
	GetByNumber(ctx context.Context, number string) (*PharmacyInvoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*PharmacyInvoice, int, error)
	SearchByNumber(ctx context.Context, q string, pg pagination.Params) ([]*PharmacyInvoice, int, error)
	Count(ctx context.Context) (int, error)
}

type ClinicRepository interface {
	Create(ctx context.Context, inv *ClinicInvoice) error
	GetByID(ctx context.Context, id string) (*ClinicInvoice, error)
	GetByNumber(ctx context.Context, number string) (*ClinicInvoice, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*ClinicInvoice, int, error)
	SearchByNumber(ctx context.Context, q string, pg pagination.Params) ([]*ClinicInvoice, int, error)
	Count(ctx context.Context) (int, error)
}
