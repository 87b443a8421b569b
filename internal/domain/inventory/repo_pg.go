package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
)

// =========== Medicine Repository ===========

type medicineRepoPG struct{ pool *pgxpool.Pool }

func NewMedicineRepoPG(pool *pgxpool.Pool) MedicineRepository { return &medicineRepoPG{pool: pool} }

const medCols = `id, product_number, name, description, tag, qty, price, expiry, created_at, updated_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.ProductNumber, &m.Name, &m.Description, &m.Tag,
		&m.Qty, &m.Price, &m.Expiry, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO medicine (id, product_number, name, description, tag, qty, price, expiry)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.ProductNumber, m.Name, m.Description, m.Tag, m.Qty, m.Price, m.Expiry)
	return err
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id string) (*Medicine, error) {
	return scanMedicine(r.pool.QueryRow(ctx, `SELECT `+medCols+` FROM medicine WHERE id = $1`, id))
}

func (r *medicineRepoPG) GetByProductNumber(ctx context.Context, pn string) (*Medicine, error) {
	return scanMedicine(r.pool.QueryRow(ctx, `SELECT `+medCols+` FROM medicine WHERE product_number = $1`, pn))
}

func (r *medicineRepoPG) Update(ctx context.Context, m *Medicine) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE medicine SET product_number=$2, name=$3, description=$4, tag=$5,
			qty=$6, price=$7, expiry=$8, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.ProductNumber, m.Name, m.Description, m.Tag, m.Qty, m.Price, m.Expiry)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM medicine WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) List(ctx context.Context, pg pagination.Params) ([]*Medicine, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medCols+` FROM medicine `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMedicines(rows, total)
}

func (r *medicineRepoPG) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Medicine, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine WHERE name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+medCols+` FROM medicine WHERE name ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectMedicines(rows, total)
}

func (r *medicineRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM medicine`).Scan(&n)
	return n, err
}

// Decrement is the authoritative stock guard: the WHERE clause refuses
// the update when fewer units are on hand, closing the read-decide-write
// race without a transaction.
func (r *medicineRepoPG) Decrement(ctx context.Context, id string, qty int) (int, error) {
	var newQty int
	err := r.pool.QueryRow(ctx, `
		UPDATE medicine SET qty = qty - $2, updated_at = NOW()
		WHERE id = $1 AND qty >= $2
		RETURNING qty`, id, qty).Scan(&newQty)
	if errors.Is(err, pgx.ErrNoRows) {
		// Either the item is gone or the stock ran short; look once more
		// to tell the two apart.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, ErrInsufficientStock
	}
	if err != nil {
		return 0, err
	}
	return newQty, nil
}

// DecrementAll runs the guarded decrements inside one transaction, so
// a cart whose later line runs short leaves the earlier lines untouched.
func (r *medicineRepoPG) DecrementAll(ctx context.Context, lines []CheckoutLine) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	for _, ln := range lines {
		tag, err := tx.Exec(ctx, `
			UPDATE medicine SET qty = qty - $2, updated_at = NOW()
			WHERE id = $1 AND qty >= $2`, ln.MedicineID, ln.Qty)
		if err != nil {
			return "", err
		}
		if tag.RowsAffected() == 0 {
			return ln.MedicineID, ErrInsufficientStock
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return "", nil
}

func (r *medicineRepoPG) LowStock(ctx context.Context) ([]*Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prefixedMedCols("m")+`
		FROM medicine m JOIN tag t ON t.name = m.tag
		WHERE m.qty <= t.low_qty_alert
		ORDER BY m.qty ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := collectMedicines(rows, 0)
	return items, err
}

func (r *medicineRepoPG) Expiring(ctx context.Context, cutoff time.Time) ([]*Medicine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+medCols+` FROM medicine WHERE expiry <= $1 ORDER BY expiry ASC`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := collectMedicines(rows, 0)
	return items, err
}

func prefixedMedCols(alias string) string {
	return alias + ".id, " + alias + ".product_number, " + alias + ".name, " +
		alias + ".description, " + alias + ".tag, " + alias + ".qty, " +
		alias + ".price, " + alias + ".expiry, " + alias + ".created_at, " + alias + ".updated_at"
}

func collectMedicines(rows pgx.Rows, total int) ([]*Medicine, int, error) {
	var items []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, rows.Err()
}

// =========== Tag Repository ===========

type tagRepoPG struct{ pool *pgxpool.Pool }

func NewTagRepoPG(pool *pgxpool.Pool) TagRepository { return &tagRepoPG{pool: pool} }

const tagCols = `id, name, low_qty_alert, expiry_date_alert, created_at, updated_at`

func scanTag(row pgx.Row) (*Tag, error) {
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.LowQtyAlert, &t.ExpiryDateAlert, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepoPG) Create(ctx context.Context, t *Tag) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tag (id, name, low_qty_alert, expiry_date_alert)
		VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.LowQtyAlert, t.ExpiryDateAlert)
	return err
}

func (r *tagRepoPG) GetByID(ctx context.Context, id string) (*Tag, error) {
	return scanTag(r.pool.QueryRow(ctx, `SELECT `+tagCols+` FROM tag WHERE id = $1`, id))
}

func (r *tagRepoPG) GetByName(ctx context.Context, name string) (*Tag, error) {
	return scanTag(r.pool.QueryRow(ctx, `SELECT `+tagCols+` FROM tag WHERE name = $1`, name))
}

func (r *tagRepoPG) Update(ctx context.Context, t *Tag) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tag SET name=$2, low_qty_alert=$3, expiry_date_alert=$4, updated_at=NOW()
		WHERE id = $1`,
		t.ID, t.Name, t.LowQtyAlert, t.ExpiryDateAlert)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tagRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tag WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tagRepoPG) List(ctx context.Context, pg pagination.Params) ([]*Tag, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tag`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+tagCols+` FROM tag `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, t)
	}
	return items, total, rows.Err()
}

func (r *tagRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tag`).Scan(&n)
	return n, err
}
