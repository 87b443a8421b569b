package employee

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, username, role, contact, password_hash, created_at, updated_at`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.Name, &e.Username, &e.Role, &e.Contact, &e.PasswordHash, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// uniqueViolation and fkViolation are the Postgres error codes for
// duplicate keys and foreign key violations.
const (
	uniqueViolation = "23505"
	fkViolation     = "23503"
)

func (r *repoPG) Create(ctx context.Context, e *Employee) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO employee (id, name, username, role, contact, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		e.ID, e.Name, e.Username, e.Role, e.Contact, e.PasswordHash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM employee WHERE id = $1`, id))
}

func (r *repoPG) GetByUsername(ctx context.Context, username string) (*Employee, error) {
	return scanEmployee(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM employee WHERE username = $1`, username))
}

func (r *repoPG) Update(ctx context.Context, e *Employee) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE employee SET name=$2, username=$3, role=$4, contact=$5, password_hash=$6, updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Name, e.Username, e.Role, e.Contact, e.PasswordHash)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrUsernameTaken
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM employee WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
			return ErrInUse
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Employee, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM employee `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Employee, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM employee WHERE name ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM employee`).Scan(&n)
	return n, err
}

func collect(rows pgx.Rows, total int) ([]*Employee, int, error) {
	var items []*Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
