package employee

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

var (
	// ErrNotFound is returned when no employee matches.
	ErrNotFound = errors.New("employee not found")
	// ErrInUse is returned when a delete is rejected because invoices
	// still reference the employee.
	ErrInUse = errors.New("employee is referenced by existing invoices")
	// ErrUsernameTaken is returned when a create or update collides
	// with an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

type Repository interface {
	Create(ctx context.Context, e *Employee) error
	GetByID(ctx context.Context, id string) (*Employee, error)
	GetByUsername(ctx context.Context, username string) (*Employee, error)
	Update(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, pg pagination.Params) ([]*Employee, int, error)
	SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Employee, int, error)
	Count(ctx context.Context) (int, error)
}
