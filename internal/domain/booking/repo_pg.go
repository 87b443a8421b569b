package booking

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const bookingCols = `id, doctor_id, doctor_name, receptionist, patient_name, patient_contact,
	service_id, service_name, date_time, time_slot, remark, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.DoctorID, &b.DoctorName, &b.Receptionist, &b.PatientName,
		&b.PatientContact, &b.ServiceID, &b.ServiceName, &b.DateTime, &b.TimeSlot,
		&b.Remark, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repoPG) Create(ctx context.Context, b *Booking) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO booking (id, doctor_id, doctor_name, receptionist, patient_name,
			patient_contact, service_id, service_name, date_time, time_slot, remark)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		b.ID, b.DoctorID, b.DoctorName, b.Receptionist, b.PatientName,
		b.PatientContact, b.ServiceID, b.ServiceName, b.DateTime, b.TimeSlot, b.Remark)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id string) (*Booking, error) {
	return scanBooking(r.pool.QueryRow(ctx, `SELECT `+bookingCols+` FROM booking WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, b *Booking) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE booking SET doctor_id=$2, doctor_name=$3, receptionist=$4, patient_name=$5,
			patient_contact=$6, service_id=$7, service_name=$8, date_time=$9, time_slot=$10,
			remark=$11, updated_at=NOW()
		WHERE id = $1`,
		b.ID, b.DoctorID, b.DoctorName, b.Receptionist, b.PatientName,
		b.PatientContact, b.ServiceID, b.ServiceName, b.DateTime, b.TimeSlot, b.Remark)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM booking WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, pg pagination.Params) ([]*Booking, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM booking`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+bookingCols+` FROM booking `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBookings(rows, total)
}

func (r *repoPG) SearchByPatient(ctx context.Context, q string, pg pagination.Params) ([]*Booking, int, error) {
	pattern := "%" + q + "%"
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM booking WHERE patient_name ILIKE $1`, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookingCols+` FROM booking WHERE patient_name ILIKE $1 `+pg.OrderBy(), pattern)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return collectBookings(rows, total)
}

func (r *repoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM booking`).Scan(&n)
	return n, err
}

func collectBookings(rows pgx.Rows, total int) ([]*Booking, int, error) {
	var items []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, b)
	}
	return items, total, rows.Err()
}

type serviceRepoPG struct{ pool *pgxpool.Pool }

func NewServiceRepoPG(pool *pgxpool.Pool) ServiceRepository { return &serviceRepoPG{pool: pool} }

const serviceCols = `id, name, price, description, created_at, updated_at`

func scanService(row pgx.Row) (*ClinicService, error) {
	var s ClinicService
	err := row.Scan(&s.ID, &s.Name, &s.Price, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *serviceRepoPG) Create(ctx context.Context, s *ClinicService) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO clinic_service (id, name, price, description)
		VALUES ($1,$2,$3,$4)`,
		s.ID, s.Name, s.Price, s.Description)
	return err
}

func (r *serviceRepoPG) GetByID(ctx context.Context, id string) (*ClinicService, error) {
	return scanService(r.pool.QueryRow(ctx, `SELECT `+serviceCols+` FROM clinic_service WHERE id = $1`, id))
}

func (r *serviceRepoPG) Update(ctx context.Context, s *ClinicService) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE clinic_service SET name=$2, price=$3, description=$4, updated_at=NOW()
		WHERE id = $1`,
		s.ID, s.Name, s.Price, s.Description)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *serviceRepoPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM clinic_service WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrServiceNotFound
	}
	return nil
}

func (r *serviceRepoPG) List(ctx context.Context, pg pagination.Params) ([]*ClinicService, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinic_service`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `SELECT `+serviceCols+` FROM clinic_service `+pg.OrderBy())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*ClinicService
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, s)
	}
	return items, total, rows.Err()
}

func (r *serviceRepoPG) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clinic_service`).Scan(&n)
	return n, err
}

type slotRepoPG struct{ pool *pgxpool.Pool }

func NewSlotRepoPG(pool *pgxpool.Pool) SlotRepository { return &slotRepoPG{pool: pool} }

func (r *slotRepoPG) Seed(ctx context.Context, labels []string) error {
	base := time.Now()
	for i, label := range labels {
		// Spread ids across milliseconds so a tight loop cannot collide.
		id := seqid.At(TimeSlotIDPrefix, base.Add(time.Duration(i)*time.Millisecond))
		_, err := r.pool.Exec(ctx, `
			INSERT INTO time_slot (id, label) VALUES ($1,$2)
			ON CONFLICT (label) DO NOTHING`, id, label)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *slotRepoPG) List(ctx context.Context) ([]*TimeSlot, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, label FROM time_slot ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var slots []*TimeSlot
	for rows.Next() {
		var s TimeSlot
		if err := rows.Scan(&s.ID, &s.Label); err != nil {
			return nil, err
		}
		slots = append(slots, &s)
	}
	return slots, rows.Err()
}
