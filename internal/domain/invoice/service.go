package invoice

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/internal/domain/booking"
	"github.com/pharmadesk/pharmadesk/internal/domain/doctor"
	"github.com/pharmadesk/pharmadesk/internal/domain/employee"
	"github.com/pharmadesk/pharmadesk/internal/domain/inventory"
	"github.com/pharmadesk/pharmadesk/internal/domain/patient"
	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// The directories below are satisfied by the corresponding domain
// services; invoices only need lookups, never mutation.
type EmployeeDirectory interface {
	Get(ctx context.Context, id string) (*employee.Employee, error)
}

type PatientDirectory interface {
	Get(ctx context.Context, id string) (*patient.Patient, error)
}

type DoctorDirectory interface {
	Get(ctx context.Context, id string) (*doctor.Doctor, error)
}

type ServiceCatalog interface {
	GetService(ctx context.Context, id string) (*booking.ClinicService, error)
}

// Stock resolves cart lines and applies the guarded decrement.
// Satisfied by inventory.Service.
type Stock interface {
	GetMedicineByProductNumber(ctx context.Context, pn string) (*inventory.Medicine, error)
	CheckoutAll(ctx context.Context, lines []inventory.CheckoutLine) error
}

type Service struct {
	pharmacy  PharmacyRepository
	clinic    ClinicRepository
	employees EmployeeDirectory
	patients  PatientDirectory
	doctors   DoctorDirectory
	services  ServiceCatalog
	stock     Stock
}

func NewService(pharmacy PharmacyRepository, clinic ClinicRepository,
	employees EmployeeDirectory, patients PatientDirectory,
	doctors DoctorDirectory, services ServiceCatalog, stock Stock) *Service {
	return &Service{
		pharmacy:  pharmacy,
		clinic:    clinic,
		employees: employees,
		patients:  patients,
		doctors:   doctors,
		services:  services,
		stock:     stock,
	}
}

func (s *Service) checkEmployee(ctx context.Context, id string) (*employee.Employee, error) {
	if !seqid.Valid(id, employee.IDPrefix) {
		return nil, validate.NewError("employee_id", "invalid employee id")
	}
	emp, err := s.employees.Get(ctx, id)
	if errors.Is(err, employee.ErrNotFound) {
		return nil, validate.NewError("employee_id", "employee does not exist")
	}
	return emp, err
}

// CreatePharmacy validates the invoice, resolves every cart line by
// product number and takes the whole cart off stock in one
// transactional checkout, so a cart that cannot fully succeed leaves
// no line decremented.
func (s *Service) CreatePharmacy(ctx context.Context, inv *PharmacyInvoice) error {
	if err := validate.AsError(validate.Check(inv.fields(), pharmacyRules)); err != nil {
		return err
	}
	emp, err := s.checkEmployee(ctx, inv.EmployeeID)
	if err != nil {
		return err
	}
	if inv.Cashier == "" {
		inv.Cashier = emp.Name
	}
	if len(inv.Items) == 0 {
		return validate.NewError("items", "cart must not be empty")
	}

	if _, err := s.pharmacy.GetByNumber(ctx, inv.InvoiceNumber); err == nil {
		return ErrDuplicateNumber
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	lines := make([]inventory.CheckoutLine, len(inv.Items))
	for i := range inv.Items {
		item := &inv.Items[i]
		if item.Qty < 1 {
			return validate.NewError("items", "item quantity must be at least 1")
		}
		m, err := s.stock.GetMedicineByProductNumber(ctx, item.ProductNumber)
		if errors.Is(err, inventory.ErrNotFound) {
			return validate.NewError("items", "unknown product number "+item.ProductNumber)
		}
		if err != nil {
			return err
		}
		if res := inventory.ValidateCheckout(m.Qty, item.Qty); !res.OK {
			return &inventory.CheckoutRejectedError{Item: m.Name, Reason: res.Reason}
		}
		item.Name = m.Name
		if item.Price == 0 {
			item.Price = m.Price
		}
		lines[i] = inventory.CheckoutLine{MedicineID: m.ID, Qty: item.Qty}
	}
	if err := s.stock.CheckoutAll(ctx, lines); err != nil {
		return err
	}

	inv.ID = seqid.New(PharmacyIDPrefix)
	return s.pharmacy.Create(ctx, inv)
}

func (s *Service) GetPharmacy(ctx context.Context, id string) (*PharmacyInvoice, error) {
	return s.pharmacy.GetByID(ctx, id)
}

func (s *Service) DeletePharmacy(ctx context.Context, id string) error {
	return s.pharmacy.Delete(ctx, id)
}

func (s *Service) ListPharmacy(ctx context.Context, pg pagination.Params) ([]*PharmacyInvoice, int, error) {
	return s.pharmacy.List(ctx, pg)
}

func (s *Service) SearchPharmacy(ctx context.Context, q string, pg pagination.Params) ([]*PharmacyInvoice, int, error) {
	return s.pharmacy.SearchByNumber(ctx, q, pg)
}

func (s *Service) CountPharmacy(ctx context.Context) (int, error) {
	return s.pharmacy.Count(ctx)
}

// CreateClinic validates the invoice and checks that the employee,
// patient, doctor and every referenced service exist.
func (s *Service) CreateClinic(ctx context.Context, inv *ClinicInvoice) error {
	if err := validate.AsError(validate.Check(inv.fields(), clinicRules)); err != nil {
		return err
	}
	if _, err := s.checkEmployee(ctx, inv.EmployeeID); err != nil {
		return err
	}
	if !seqid.Valid(inv.PatientID, patient.IDPrefix) {
		return validate.NewError("patient_id", "invalid patient id")
	}
	if _, err := s.patients.Get(ctx, inv.PatientID); errors.Is(err, patient.ErrNotFound) {
		return validate.NewError("patient_id", "patient does not exist")
	} else if err != nil {
		return err
	}
	if !seqid.Valid(inv.DoctorID, doctor.IDPrefix) {
		return validate.NewError("doctor_id", "invalid doctor id")
	}
	if _, err := s.doctors.Get(ctx, inv.DoctorID); errors.Is(err, doctor.ErrNotFound) {
		return validate.NewError("doctor_id", "doctor does not exist")
	} else if err != nil {
		return err
	}
	if len(inv.ServiceIDs) == 0 {
		return validate.NewError("service_ids", "at least one service is required")
	}
	for _, sid := range inv.ServiceIDs {
		if !seqid.Valid(sid, booking.ServiceIDPrefix) {
			return validate.NewError("service_ids", "invalid service id "+sid)
		}
		if _, err := s.services.GetService(ctx, sid); errors.Is(err, booking.ErrServiceNotFound) {
			return validate.NewError("service_ids", "service does not exist: "+sid)
		} else if err != nil {
			return err
		}
	}

	if _, err := s.clinic.GetByNumber(ctx, inv.InvoiceNumber); err == nil {
		return ErrDuplicateNumber
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	inv.ID = seqid.New(ClinicIDPrefix)
	return s.clinic.Create(ctx, inv)
}

func (s *Service) GetClinic(ctx context.Context, id string) (*ClinicInvoice, error) {
	return s.clinic.GetByID(ctx, id)
}

func (s *Service) DeleteClinic(ctx context.Context, id string) error {
	return s.clinic.Delete(ctx, id)
}

func (s *Service) ListClinic(ctx context.Context, pg pagination.Params) ([]*ClinicInvoice, int, error) {
	return s.clinic.List(ctx, pg)
}

func (s *Service) SearchClinic(ctx context.Context, q string, pg pagination.Params) ([]*ClinicInvoice, int, error) {
	return s.clinic.SearchByNumber(ctx, q, pg)
}

func (s *Service) CountClinic(ctx context.Context) (int, error) {
	return s.clinic.Count(ctx)
}
