package booking

import (
	"context"
	"errors"
	"time"

	"github.com/pharmadesk/pharmadesk/internal/domain/doctor"
	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/timeofday"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// DoctorDirectory resolves doctor records for existence and
// availability checks. Satisfied by doctor.Service.
type DoctorDirectory interface {
	Get(ctx context.Context, id string) (*doctor.Doctor, error)
}

type Service struct {
	bookings Repository
	services ServiceRepository
	slots    SlotRepository
	doctors  DoctorDirectory
	now      func() time.Time
}

func NewService(bookings Repository, services ServiceRepository, slots SlotRepository, doctors DoctorDirectory) *Service {
	return &Service{
		bookings: bookings,
		services: services,
		slots:    slots,
		doctors:  doctors,
		now:      time.Now,
	}
}

// resolve fills denormalized fields and runs the cross-entity checks
// shared by create and update.
func (s *Service) resolve(ctx context.Context, b *Booking) error {
	if err := validate.AsError(validate.Check(b.fields(), bookingRules)); err != nil {
		return err
	}
	if !seqid.Valid(b.DoctorID, doctor.IDPrefix) {
		return validate.NewError("doctor_id", "invalid doctor id")
	}
	doc, err := s.doctors.Get(ctx, b.DoctorID)
	if errors.Is(err, doctor.ErrNotFound) {
		return validate.NewError("doctor_id", "doctor does not exist")
	}
	if err != nil {
		return err
	}
	b.DoctorName = doc.Name

	if b.DateTime.IsZero() || !ValidateBookingTime(b.DateTime, s.now()) {
		return validate.NewError("date_time", "booking time must be in the future")
	}

	if b.ServiceID != "" {
		if !seqid.Valid(b.ServiceID, ServiceIDPrefix) {
			return validate.NewError("service_id", "invalid service id")
		}
		svc, err := s.services.GetByID(ctx, b.ServiceID)
		if errors.Is(err, ErrServiceNotFound) {
			return validate.NewError("service_id", "service does not exist")
		}
		if err != nil {
			return err
		}
		b.ServiceName = svc.Name
	}

	if len(doc.Schedule) > 0 {
		clock := SlotStart(b.TimeSlot)
		if !timeofday.IsValid(clock) {
			clock = b.DateTime.Format("3:04 PM")
		}
		if !doctor.IsWithinSchedule(doc.Schedule, int(b.DateTime.Weekday()), clock) {
			return validate.NewError("time_slot", "doctor is not available at the selected time")
		}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, b *Booking) error {
	if err := s.resolve(ctx, b); err != nil {
		return err
	}
	b.ID = seqid.New(BookingIDPrefix)
	return s.bookings.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id string) (*Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, b *Booking) error {
	if err := s.resolve(ctx, b); err != nil {
		return err
	}
	return s.bookings.Update(ctx, b)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.bookings.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, pg pagination.Params) ([]*Booking, int, error) {
	return s.bookings.List(ctx, pg)
}

func (s *Service) SearchByPatient(ctx context.Context, q string, pg pagination.Params) ([]*Booking, int, error) {
	return s.bookings.SearchByPatient(ctx, q, pg)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.bookings.Count(ctx)
}

func (s *Service) CreateService(ctx context.Context, cs *ClinicService) error {
	if err := validate.AsError(validate.Check(cs.fields(), serviceRules)); err != nil {
		return err
	}
	cs.ID = seqid.New(ServiceIDPrefix)
	return s.services.Create(ctx, cs)
}

func (s *Service) GetService(ctx context.Context, id string) (*ClinicService, error) {
	return s.services.GetByID(ctx, id)
}

func (s *Service) UpdateService(ctx context.Context, cs *ClinicService) error {
	if err := validate.AsError(validate.Check(cs.fields(), serviceRules)); err != nil {
		return err
	}
	return s.services.Update(ctx, cs)
}

func (s *Service) DeleteService(ctx context.Context, id string) error {
	return s.services.Delete(ctx, id)
}

func (s *Service) ListServices(ctx context.Context, pg pagination.Params) ([]*ClinicService, int, error) {
	return s.services.List(ctx, pg)
}

func (s *Service) CountServices(ctx context.Context) (int, error) {
	return s.services.Count(ctx)
}

// SeedTimeSlots installs the default half-hour catalog. Safe to call on
// every startup.
func (s *Service) SeedTimeSlots(ctx context.Context) error {
	return s.slots.Seed(ctx, DefaultSlotLabels())
}

func (s *Service) ListTimeSlots(ctx context.Context) ([]*TimeSlot, error) {
	return s.slots.List(ctx)
}
