package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

var (
	// ErrNotFound is returned when no medicine or tag matches.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientStock is returned when a conditional decrement
	// finds fewer units on hand than requested.
	ErrInsufficientStock = errors.New("insufficient quantity")
)

// CheckoutLine is one resolved cart line headed for a decrement.
type CheckoutLine struct {
	MedicineID string
	Qty        int
}

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id string) (*Medicine, error)
	GetByProductNumber(ctx context.Context, pn string) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Medicine, int, error)
	SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Medicine, int, error)
	Count(ctx context.Context) (int, error)
	// Decrement atomically takes qty units off the item, refusing to
	// drive the stored quantity negative. Returns the new quantity.
	Decrement(ctx context.Context, id string, qty int) (int, error)
	// DecrementAll applies every line or none. On ErrInsufficientStock
	// it returns the id of the line that ran short.
	DecrementAll(ctx context.Context, lines []CheckoutLine) (string, error)
	// LowStock returns medicines at or under their tag's low-quantity
	// threshold, and Expiring those whose expiry falls before the cutoff.
	LowStock(ctx context.Context) ([]*Medicine, error)
	Expiring(ctx context.Context, cutoff time.Time) ([]*Medicine, error)
}

type TagRepository interface {
	Create(ctx context.Context, t *Tag) error
	GetByID(ctx context.Context, id string) (*Tag, error)
	GetByName(ctx context.Context, name string) (*Tag, error)
	Update(ctx context.Context, t *Tag) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Tag, int, error)
	Count(ctx context.Context) (int, error)
}
