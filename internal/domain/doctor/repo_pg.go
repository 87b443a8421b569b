package doctor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

// fkViolation is the Postgres error code for foreign key violations.
const fkViolation = "23503"

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const cols = `id, name, specialization, contact, schedule, version, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	var schedule []byte
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Contact, &schedule, &d.Version, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &d.Schedule); err != nil {
			return nil, fmt.Errorf("decoding schedule for %s: %w", d.ID, err)
		}
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	schedule, err := json.Marshal(d.Schedule)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO doctor (id, name, specialization, contact, schedule, version)
		VALUES ($1,$2,$3,$4,$5,0)`,
		d.ID, d.Name, d.Specialization, d.Contact, schedule)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Doctor, error) {
	return scanDoctor(r.pool.QueryRow(ctx, `SELECT `+cols+` FROM doctor WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor SET name=$2, specialization=$3, contact=$4, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Specialization, d.Contact)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateSchedule(ctx context.Context, d *Doctor) error {
	schedule, err := json.Marshal(d.Schedule)
	if err != nil {
		return err
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE doctor SET schedule=$2, version=version+1, updated_at=NOW()
		WHERE id = $1 AND version = $3`,
		d.ID, schedule, d.Version)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrVersionConflict
	}
	d.Version++
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
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

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Doctor, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM doctor `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Doctor, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+cols+` FROM doctor WHERE name ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collect(rows, total)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&n)
	return n, err
}

func collect(rows pgx.Rows, total int) ([]*Doctor, int, error) {
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, rows.Err()
}
