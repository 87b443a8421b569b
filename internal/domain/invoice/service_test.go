package invoice

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pharmadesk/pharmadesk/internal/domain/booking"
	"github.com/pharmadesk/pharmadesk/internal/domain/doctor"
	"github.com/pharmadesk/pharmadesk/internal/domain/employee"
	"github.com/pharmadesk/pharmadesk/internal/domain/inventory"
	"github.com/pharmadesk/pharmadesk/internal/domain/patient"
	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

type mockPharmacyRepo struct {
	invoices map[string]*PharmacyInvoice
}

func newMockPharmacyRepo() *mockPharmacyRepo {
	return &mockPharmacyRepo{invoices: make(map[string]*PharmacyInvoice)}
}

func (m *mockPharmacyRepo) Create(_ context.Context, inv *PharmacyInvoice) error {
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return ErrDuplicateNumber
		}
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockPharmacyRepo) GetByID(_ context.Context, id string) (*PharmacyInvoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *mockPharmacyRepo) GetByNumber(_ context.Context, number string) (*PharmacyInvoice, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockPharmacyRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *mockPharmacyRepo) List(_ context.Context, _ pagination.Params) ([]*PharmacyInvoice, int, error) {
	var items []*PharmacyInvoice
	for _, inv := range m.invoices {
		items = append(items, inv)
	}
	return items, len(items), nil
}

func (m *mockPharmacyRepo) SearchByNumber(_ context.Context, q string, _ pagination.Params) ([]*PharmacyInvoice, int, error) {
	var items []*PharmacyInvoice
	for _, inv := range m.invoices {
		if strings.Contains(inv.InvoiceNumber, q) {
			items = append(items, inv)
		}
	}
	return items, len(items), nil
}

func (m *mockPharmacyRepo) Count(_ context.Context) (int, error) { return len(m.invoices), nil }

type mockClinicRepo struct {
	invoices map[string]*ClinicInvoice
}

func newMockClinicRepo() *mockClinicRepo {
	return &mockClinicRepo{invoices: make(map[string]*ClinicInvoice)}
}

func (m *mockClinicRepo) Create(_ context.Context, inv *ClinicInvoice) error {
	for _, existing := range m.invoices {
		if existing.InvoiceNumber == inv.InvoiceNumber {
			return ErrDuplicateNumber
		}
	}
	m.invoices[inv.ID] = inv
	return nil
}

func (m *mockClinicRepo) GetByID(_ context.Context, id string) (*ClinicInvoice, error) {
	inv, ok := m.invoices[id]
	if !ok {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *mockClinicRepo) GetByNumber(_ context.Context, number string) (*ClinicInvoice, error) {
	for _, inv := range m.invoices {
		if inv.InvoiceNumber == number {
			return inv, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockClinicRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.invoices[id]; !ok {
		return ErrNotFound
	}
	delete(m.invoices, id)
	return nil
}

func (m *mockClinicRepo) List(_ context.Context, _ pagination.Params) ([]*ClinicInvoice, int, error) {
	var items []*ClinicInvoice
	for _, inv := range m.invoices {
		items = append(items, inv)
	}
	return items, len(items), nil
}

func (m *mockClinicRepo) SearchByNumber(_ context.Context, q string, _ pagination.Params) ([]*ClinicInvoice, int, error) {
	var items []*ClinicInvoice
	for _, inv := range m.invoices {
		if strings.Contains(inv.InvoiceNumber, q) {
			items = append(items, inv)
		}
	}
	return items, len(items), nil
}

func (m *mockClinicRepo) Count(_ context.Context) (int, error) { return len(m.invoices), nil }

type mockEmployees struct{ m map[string]*employee.Employee }

func (d *mockEmployees) Get(_ context.Context, id string) (*employee.Employee, error) {
	e, ok := d.m[id]
	if !ok {
		return nil, employee.ErrNotFound
	}
	return e, nil
}

type mockPatients struct{ m map[string]*patient.Patient }

func (d *mockPatients) Get(_ context.Context, id string) (*patient.Patient, error) {
	p, ok := d.m[id]
	if !ok {
		return nil, patient.ErrNotFound
	}
	return p, nil
}

type mockDoctors struct{ m map[string]*doctor.Doctor }

func (d *mockDoctors) Get(_ context.Context, id string) (*doctor.Doctor, error) {
	doc, ok := d.m[id]
	if !ok {
		return nil, doctor.ErrNotFound
	}
	return doc, nil
}

type mockCatalog struct{ m map[string]*booking.ClinicService }

func (d *mockCatalog) GetService(_ context.Context, id string) (*booking.ClinicService, error) {
	s, ok := d.m[id]
	if !ok {
		return nil, booking.ErrServiceNotFound
	}
	return s, nil
}

type mockStock struct {
	byPN map[string]*inventory.Medicine
	byID map[string]*inventory.Medicine
	// drainTo overrides stored quantities when CheckoutAll runs,
	// simulating concurrent sales after the cart was resolved.
	drainTo map[string]int
}

func newMockStock(meds ...*inventory.Medicine) *mockStock {
	s := &mockStock{
		byPN: make(map[string]*inventory.Medicine),
		byID: make(map[string]*inventory.Medicine),
	}
	for _, m := range meds {
		s.byPN[m.ProductNumber] = m
		s.byID[m.ID] = m
	}
	return s
}

func (s *mockStock) GetMedicineByProductNumber(_ context.Context, pn string) (*inventory.Medicine, error) {
	m, ok := s.byPN[pn]
	if !ok {
		return nil, inventory.ErrNotFound
	}
	return m, nil
}

func (s *mockStock) CheckoutAll(_ context.Context, lines []inventory.CheckoutLine) error {
	for id, qty := range s.drainTo {
		if m, ok := s.byID[id]; ok {
			m.Qty = qty
		}
	}
	s.drainTo = nil
	for _, ln := range lines {
		m, ok := s.byID[ln.MedicineID]
		if !ok {
			return inventory.ErrNotFound
		}
		if res := inventory.ValidateCheckout(m.Qty, ln.Qty); !res.OK {
			return &inventory.CheckoutRejectedError{Item: m.Name, Reason: res.Reason}
		}
	}
	for _, ln := range lines {
		s.byID[ln.MedicineID].Qty -= ln.Qty
	}
	return nil
}

const (
	empID  = "emp_20240101120000000"
	patID  = "p_20240101120000000"
	docID  = "doc_20240101120000000"
	svcID  = "s_20240101120000000"
	pnPara = "PN-100"
	pnIbu  = "PN-200"
)

type fixture struct {
	svc      *Service
	pharmacy *mockPharmacyRepo
	clinic   *mockClinicRepo
	stock    *mockStock
}

func newFixture() *fixture {
	pharmacy := newMockPharmacyRepo()
	clinic := newMockClinicRepo()
	stock := newMockStock(
		&inventory.Medicine{ID: "med_20240101120000000", ProductNumber: pnPara, Name: "Paracetamol", Qty: 10, Price: 2.5},
		&inventory.Medicine{ID: "med_20240101120000001", ProductNumber: pnIbu, Name: "Ibuprofen", Qty: 4, Price: 3.75},
	)
	svc := NewService(pharmacy, clinic,
		&mockEmployees{m: map[string]*employee.Employee{empID: {ID: empID, Name: "Rita"}}},
		&mockPatients{m: map[string]*patient.Patient{patID: {ID: patID, Name: "Amina"}}},
		&mockDoctors{m: map[string]*doctor.Doctor{docID: {ID: docID, Name: "Dr. Osei"}}},
		&mockCatalog{m: map[string]*booking.ClinicService{svcID: {ID: svcID, Name: "Consultation", Price: 150}}},
		stock)
	return &fixture{svc: svc, pharmacy: pharmacy, clinic: clinic, stock: stock}
}

func pharmacyInvoice() *PharmacyInvoice {
	return &PharmacyInvoice{
		InvoiceNumber: "INV-001",
		EmployeeID:    empID,
		Payable:       7.5,
		Given:         10,
		Change:        2.5,
		Items:         []CartItem{{ProductNumber: pnPara, Qty: 3}},
	}
}

func TestCreatePharmacyInvoice(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	if err := f.svc.CreatePharmacy(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(inv.ID, "pinv_") {
		t.Errorf("expected pinv_ id, got %q", inv.ID)
	}
	if inv.Cashier != "Rita" {
		t.Errorf("cashier not resolved from employee, got %q", inv.Cashier)
	}
	if inv.Items[0].Name != "Paracetamol" || inv.Items[0].Price != 2.5 {
		t.Errorf("cart line not resolved: %+v", inv.Items[0])
	}
	if got := f.stock.byPN[pnPara].Qty; got != 7 {
		t.Errorf("stock not decremented, qty = %d", got)
	}
}

func TestCreatePharmacyInvoice_EmptyCart(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	inv.Items = nil
	var vErr *validate.Error
	if !errors.As(f.svc.CreatePharmacy(context.Background(), inv), &vErr) {
		t.Fatal("expected validation error for empty cart")
	}
}

func TestCreatePharmacyInvoice_UnknownEmployee(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	inv.EmployeeID = "emp_20990101120000000"
	var vErr *validate.Error
	if !errors.As(f.svc.CreatePharmacy(context.Background(), inv), &vErr) {
		t.Fatal("expected validation error for unknown employee")
	}
}

func TestCreatePharmacyInvoice_UnknownProduct(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	inv.Items = []CartItem{{ProductNumber: "PN-999", Qty: 1}}
	err := f.svc.CreatePharmacy(context.Background(), inv)
	var vErr *validate.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(vErr.Error(), "PN-999") {
		t.Errorf("message should name the product number, got %q", vErr.Error())
	}
}

func TestCreatePharmacyInvoice_InsufficientStock(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	inv.Items = []CartItem{{ProductNumber: pnPara, Qty: 11}}
	err := f.svc.CreatePharmacy(context.Background(), inv)
	var cErr *inventory.CheckoutRejectedError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected checkout rejection, got %v", err)
	}
	if got := f.stock.byPN[pnPara].Qty; got != 10 {
		t.Errorf("stock must be untouched on rejection, qty = %d", got)
	}
}

func TestCreatePharmacyInvoice_RacingLaterLine(t *testing.T) {
	f := newFixture()

	inv := pharmacyInvoice()
	inv.Items = []CartItem{
		{ProductNumber: pnPara, Qty: 3},
		{ProductNumber: pnIbu, Qty: 4},
	}
	// A concurrent sale drains the second item after the cart was
	// resolved; the whole cart must fail with no line decremented.
	f.stock.drainTo = map[string]int{"med_20240101120000001": 1}
	err := f.svc.CreatePharmacy(context.Background(), inv)
	var cErr *inventory.CheckoutRejectedError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected checkout rejection, got %v", err)
	}
	if got := f.stock.byPN[pnPara].Qty; got != 10 {
		t.Errorf("first line must stay untouched, qty = %d", got)
	}
	if got := f.stock.byPN[pnIbu].Qty; got != 1 {
		t.Errorf("second line must only reflect the concurrent sale, qty = %d", got)
	}
}

func TestCreatePharmacyInvoice_DuplicateNumber(t *testing.T) {
	f := newFixture()

	if err := f.svc.CreatePharmacy(context.Background(), pharmacyInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := f.svc.CreatePharmacy(context.Background(), pharmacyInvoice())
	if !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}
	if got := f.stock.byPN[pnPara].Qty; got != 7 {
		t.Errorf("duplicate must not decrement stock again, qty = %d", got)
	}
}

func clinicInvoice() *ClinicInvoice {
	return &ClinicInvoice{
		InvoiceNumber: "CINV-001",
		EmployeeID:    empID,
		PatientID:     patID,
		DoctorID:      docID,
		ServiceIDs:    []string{svcID},
		Payable:       150,
		Given:         150,
	}
}

func TestCreateClinicInvoice(t *testing.T) {
	f := newFixture()

	inv := clinicInvoice()
	if err := f.svc.CreateClinic(context.Background(), inv); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(inv.ID, "cinv_") {
		t.Errorf("expected cinv_ id, got %q", inv.ID)
	}
}

func TestCreateClinicInvoice_UnknownPatient(t *testing.T) {
	f := newFixture()

	inv := clinicInvoice()
	inv.PatientID = "p_20990101120000000"
	var vErr *validate.Error
	if !errors.As(f.svc.CreateClinic(context.Background(), inv), &vErr) {
		t.Fatal("expected validation error for unknown patient")
	}
}

func TestCreateClinicInvoice_UnknownService(t *testing.T) {
	f := newFixture()

	inv := clinicInvoice()
	inv.ServiceIDs = []string{"s_20990101120000000"}
	var vErr *validate.Error
	if !errors.As(f.svc.CreateClinic(context.Background(), inv), &vErr) {
		t.Fatal("expected validation error for unknown service")
	}
}

func TestCreateClinicInvoice_DuplicateNumber(t *testing.T) {
	f := newFixture()

	if err := f.svc.CreateClinic(context.Background(), clinicInvoice()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := f.svc.CreateClinic(context.Background(), clinicInvoice()); !errors.Is(err, ErrDuplicateNumber) {
		t.Fatalf("expected ErrDuplicateNumber, got %v", err)
	}
}
