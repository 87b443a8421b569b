package invoice

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

// uniqueViolation is the Postgres error code for duplicate keys.
const uniqueViolation = "23505"

type pharmacyRepoPG struct{ pool *pgxpool.Pool }

func NewPharmacyRepoPG(pool *pgxpool.Pool) PharmacyRepository { return &pharmacyRepoPG{pool: pool} }

const pharmacyCols = `id, invoice_number, employee_id, cashier, customer_id,
	payable, given, change, items, created_at, updated_at`

func scanPharmacy(row pgx.Row) (*PharmacyInvoice, error) {
	var inv PharmacyInvoice
	var items []byte
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.EmployeeID, &inv.Cashier,
		&inv.CustomerID, &inv.Payable, &inv.Given, &inv.Change, &items,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		if err := json.Unmarshal(items, &inv.Items); err != nil {
			return nil, fmt.Errorf("decoding cart for %s: %w", inv.ID, err)
		}
	}
	return &inv, nil
}

func (r *pharmacyRepoPG) Create(ctx context.Context, inv *PharmacyInvoice) error {
	items, err := json.Marshal(inv.Items)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO pharmacy_invoice (id, invoice_number, employee_id, cashier,
			customer_id, payable, given, change, items)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		inv.ID, inv.InvoiceNumber, inv.EmployeeID, inv.Cashier,
		inv.CustomerID, inv.Payable, inv.Given, inv.Change, items)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateNumber
	}
	return err
}

func (r *pharmacyRepoPG) GetByID(ctx context.Context, id string) (*PharmacyInvoice, error) {
	return scanPharmacy(r.pool.QueryRow(ctx,
		`SELECT `+pharmacyCols+` FROM pharmacy_invoice WHERE id = $1`, id))
}

func (r *pharmacyRepoPG) GetByNumber(ctx context.Context, number string) (*PharmacyInvoice, error) {
	return scanPharmacy(r.pool.QueryRow(ctx,
		`SELECT `+pharmacyCols+` FROM pharmacy_invoice WHERE invoice_number = $1`, number))
}

func (r *pharmacyRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM pharmacy_invoice WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pharmacyRepoPG) List(ctx context.Context, pg pagination.Params) ([]*PharmacyInvoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pharmacy_invoice`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+pharmacyCols+` FROM pharmacy_invoice `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPharmacy(rows, total)
}

func (r *pharmacyRepoPG) SearchByNumber(ctx context.Context, q string, pg pagination.Params) ([]*PharmacyInvoice, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pharmacy_invoice WHERE invoice_number ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+pharmacyCols+` FROM pharmacy_invoice WHERE invoice_number ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectPharmacy(rows, total)
}

func (r *pharmacyRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM pharmacy_invoice`).Scan(&n)
	return n, err
}

func collectPharmacy(rows pgx.Rows, total int) ([]*PharmacyInvoice, int, error) {
	var items []*PharmacyInvoice
	for rows.Next() {
		inv, err := scanPharmacy(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

const clinicCols = `id, invoice_number, employee_id, patient_id, doctor_id,
	service_ids, payable, given, change, created_at, updated_at`

func scanClinic(row pgx.Row) (*ClinicInvoice, error) {
	var inv ClinicInvoice
	err := row.Scan(&inv.ID, &inv.InvoiceNumber, &inv.EmployeeID, &inv.PatientID,
		&inv.DoctorID, &inv.ServiceIDs, &inv.Payable, &inv.Given, &inv.Change,
		&inv.CreatedAt, &inv.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *clinicRepoPG) Create(ctx context.Context, inv *ClinicInvoice) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinic_invoice (id, invoice_number, employee_id, patient_id,
			doctor_id, service_ids, payable, given, change)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		inv.ID, inv.InvoiceNumber, inv.EmployeeID, inv.PatientID,
		inv.DoctorID, inv.ServiceIDs, inv.Payable, inv.Given, inv.Change)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateNumber
	}
	return err
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id string) (*ClinicInvoice, error) {
	return scanClinic(r.pool.QueryRow(ctx,
		`SELECT `+clinicCols+` FROM clinic_invoice WHERE id = $1`, id))
}

func (r *clinicRepoPG) GetByNumber(ctx context.Context, number string) (*ClinicInvoice, error) {
	return scanClinic(r.pool.QueryRow(ctx,
		`SELECT `+clinicCols+` FROM clinic_invoice WHERE invoice_number = $1`, number))
}

func (r *clinicRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinic_invoice WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *clinicRepoPG) List(ctx context.Context, pg pagination.Params) ([]*ClinicInvoice, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinic_invoice`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+clinicCols+` FROM clinic_invoice `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectClinic(rows, total)
}

func (r *clinicRepoPG) SearchByNumber(ctx context.Context, q string, pg pagination.Params) ([]*ClinicInvoice, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM clinic_invoice WHERE invoice_number ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+clinicCols+` FROM clinic_invoice WHERE invoice_number ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectClinic(rows, total)
}

func (r *clinicRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinic_invoice`).Scan(&n)
	return n, err
}

func collectClinic(rows pgx.Rows, total int) ([]*ClinicInvoice, int, error) {
	var items []*ClinicInvoice
	for rows.Next() {
		inv, err := scanClinic(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, inv)
	}
	return items, total, rows.Err()
}
