package inventory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// -- Mock Repositories --

type mockMedicineRepo struct {
	meds map[string]*Medicine
	tags *mockTagRepo
	// decrementTo overrides the stored qty just before Decrement runs,
	// simulating a concurrent checkout between read and write.
	decrementTo *int
	// drainTo overrides stored quantities just before DecrementAll
	// runs, simulating concurrent checkouts after the snapshot guard.
	drainTo map[string]int
}

func newMockMedicineRepo(tags *mockTagRepo) *mockMedicineRepo {
	return &mockMedicineRepo{meds: make(map[string]*Medicine), tags: tags}
}

func (m *mockMedicineRepo) Create(_ context.Context, med *Medicine) error {
	med.CreatedAt = time.Now()
	med.UpdatedAt = time.Now()
	m.meds[med.ID] = med
	return nil
}

func (m *mockMedicineRepo) GetByID(_ context.Context, id string) (*Medicine, error) {
	med, ok := m.meds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockMedicineRepo) GetByProductNumber(_ context.Context, pn string) (*Medicine, error) {
	for _, med := range m.meds {
		if med.ProductNumber == pn {
			cp := *med
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockMedicineRepo) Update(_ context.Context, med *Medicine) error {
	if _, ok := m.meds[med.ID]; !ok {
		return ErrNotFound
	}
	m.meds[med.ID] = med
	return nil
}

func (m *mockMedicineRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.meds[id]; !ok {
		return ErrNotFound
	}
	delete(m.meds, id)
	return nil
}

func (m *mockMedicineRepo) List(_ context.Context, _ pagination.Params) ([]*Medicine, int, error) {
	var items []*Medicine
	for _, med := range m.meds {
		items = append(items, med)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, len(items), nil
}

func (m *mockMedicineRepo) SearchByName(_ context.Context, q string, _ pagination.Params) ([]*Medicine, int, error) {
	var items []*Medicine
	for _, med := range m.meds {
		if strings.Contains(strings.ToLower(med.Name), strings.ToLower(q)) {
			items = append(items, med)
		}
	}
	return items, len(items), nil
}

func (m *mockMedicineRepo) Count(_ context.Context) (int, error) { return len(m.meds), nil }

func (m *mockMedicineRepo) Decrement(_ context.Context, id string, qty int) (int, error) {
	med, ok := m.meds[id]
	if !ok {
		return 0, ErrNotFound
	}
	if m.decrementTo != nil {
		med.Qty = *m.decrementTo
		m.decrementTo = nil
	}
	if med.Qty < qty {
		return 0, ErrInsufficientStock
	}
	med.Qty -= qty
	return med.Qty, nil
}

func (m *mockMedicineRepo) DecrementAll(_ context.Context, lines []CheckoutLine) (string, error) {
	for id, qty := range m.drainTo {
		if med, ok := m.meds[id]; ok {
			med.Qty = qty
		}
	}
	m.drainTo = nil
	for _, ln := range lines {
		med, ok := m.meds[ln.MedicineID]
		if !ok || med.Qty < ln.Qty {
			return ln.MedicineID, ErrInsufficientStock
		}
	}
	for _, ln := range lines {
		m.meds[ln.MedicineID].Qty -= ln.Qty
	}
	return "", nil
}

func (m *mockMedicineRepo) LowStock(_ context.Context) ([]*Medicine, error) {
	var items []*Medicine
	for _, med := range m.meds {
		tag, err := m.tags.GetByName(context.Background(), med.Tag)
		if err != nil {
			continue
		}
		if med.Qty <= tag.LowQtyAlert {
			items = append(items, med)
		}
	}
	return items, nil
}

func (m *mockMedicineRepo) Expiring(_ context.Context, cutoff time.Time) ([]*Medicine, error) {
	var items []*Medicine
	for _, med := range m.meds {
		if !med.Expiry.After(cutoff) {
			items = append(items, med)
		}
	}
	return items, nil
}

type mockTagRepo struct {
	tags map[string]*Tag
}

func newMockTagRepo() *mockTagRepo {
	return &mockTagRepo{tags: make(map[string]*Tag)}
}

func (m *mockTagRepo) Create(_ context.Context, t *Tag) error {
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.tags[t.ID] = t
	return nil
}

func (m *mockTagRepo) GetByID(_ context.Context, id string) (*Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, ErrNotFound
	}
	return t, nil
}

func (m *mockTagRepo) GetByName(_ context.Context, name string) (*Tag, error) {
	for _, t := range m.tags {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockTagRepo) Update(_ context.Context, t *Tag) error {
	if _, ok := m.tags[t.ID]; !ok {
		return ErrNotFound
	}
	m.tags[t.ID] = t
	return nil
}

func (m *mockTagRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.tags[id]; !ok {
		return ErrNotFound
	}
	delete(m.tags, id)
	return nil
}

func (m *mockTagRepo) List(_ context.Context, _ pagination.Params) ([]*Tag, int, error) {
	var items []*Tag
	for _, t := range m.tags {
		items = append(items, t)
	}
	return items, len(items), nil
}

func (m *mockTagRepo) Count(_ context.Context) (int, error) { return len(m.tags), nil }

// -- Helpers --

func setupService() (*Service, *mockMedicineRepo, *mockTagRepo) {
	tags := newMockTagRepo()
	meds := newMockMedicineRepo(tags)
	return NewService(meds, tags), meds, tags
}

func seedTag(t *testing.T, svc *Service, name string) *Tag {
	t.Helper()
	tag := &Tag{Name: name, LowQtyAlert: 5, ExpiryDateAlert: 30}
	if err := svc.CreateTag(context.Background(), tag); err != nil {
		t.Fatalf("seeding tag: %v", err)
	}
	return tag
}

func seedMedicine(t *testing.T, svc *Service, name string, qty int) *Medicine {
	t.Helper()
	m := &Medicine{
		ProductNumber: "PN-" + name,
		Name:          name,
		Tag:           "shelf-a",
		Qty:           qty,
		Price:         9.5,
		Expiry:        time.Now().AddDate(1, 0, 0),
	}
	if err := svc.CreateMedicine(context.Background(), m); err != nil {
		t.Fatalf("seeding medicine: %v", err)
	}
	return m
}

// -- Tests --

func TestCreateMedicine(t *testing.T) {
	svc, _, _ := setupService()
	seedTag(t, svc, "shelf-a")

	m := seedMedicine(t, svc, "Paracetamol", 20)
	if !strings.HasPrefix(m.ID, "med_") {
		t.Errorf("expected med_ id, got %q", m.ID)
	}
}

func TestCreateMedicine_UnknownTag(t *testing.T) {
	svc, _, _ := setupService()

	m := &Medicine{ProductNumber: "PN-1", Name: "Paracetamol", Tag: "nope", Qty: 20}
	err := svc.CreateMedicine(context.Background(), m)
	var vErr *validate.Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected validation error for unknown tag, got %v", err)
	}
	if !strings.Contains(vErr.Error(), "nope") {
		t.Errorf("expected tag name in message, got %q", vErr.Error())
	}
}

func TestCreateMedicine_NegativeQty(t *testing.T) {
	svc, _, _ := setupService()
	seedTag(t, svc, "shelf-a")

	m := &Medicine{ProductNumber: "PN-1", Name: "Paracetamol", Tag: "shelf-a", Qty: -1}
	var vErr *validate.Error
	if !errors.As(svc.CreateMedicine(context.Background(), m), &vErr) {
		t.Fatal("expected validation error for negative qty")
	}
}

func TestCheckout(t *testing.T) {
	svc, _, _ := setupService()
	seedTag(t, svc, "shelf-a")
	m := seedMedicine(t, svc, "Paracetamol", 5)

	got, err := svc.Checkout(context.Background(), m.ID, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Qty != 2 {
		t.Errorf("expected qty 2 after checkout, got %d", got.Qty)
	}
}

func TestCheckout_ExactStock(t *testing.T) {
	svc, _, _ := setupService()
	seedTag(t, svc, "shelf-a")
	m := seedMedicine(t, svc, "Paracetamol", 5)

	got, err := svc.Checkout(context.Background(), m.ID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Qty != 0 {
		t.Errorf("expected qty 0, got %d", got.Qty)
	}
}

func TestCheckout_Insufficient(t *testing.T) {
	svc, meds, _ := setupService()
	seedTag(t, svc, "shelf-a")
	m := seedMedicine(t, svc, "Paracetamol", 5)

	_, err := svc.Checkout(context.Background(), m.ID, 6)
	var cErr *CheckoutRejectedError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected CheckoutRejectedError, got %v", err)
	}
	if !strings.Contains(cErr.Error(), "Paracetamol") {
		t.Errorf("expected item name in message, got %q", cErr.Error())
	}
	if meds.meds[m.ID].Qty != 5 {
		t.Error("rejected checkout must not mutate stock")
	}
}

func TestCheckout_RacingDecrement(t *testing.T) {
	svc, meds, _ := setupService()
	seedTag(t, svc, "shelf-a")
	m := seedMedicine(t, svc, "Paracetamol", 5)

	// A concurrent checkout empties the shelf between this caller's
	// read and its write; the conditional decrement must refuse.
	drained := 1
	meds.decrementTo = &drained
	_, err := svc.Checkout(context.Background(), m.ID, 3)
	var cErr *CheckoutRejectedError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected CheckoutRejectedError from racing decrement, got %v", err)
	}
}

func TestCheckoutAll(t *testing.T) {
	svc, meds, _ := setupService()
	seedTag(t, svc, "shelf-a")
	a := seedMedicine(t, svc, "Paracetamol", 10)
	b := seedMedicine(t, svc, "Aspirin", 4)

	err := svc.CheckoutAll(context.Background(), []CheckoutLine{
		{MedicineID: a.ID, Qty: 3},
		{MedicineID: b.ID, Qty: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if meds.meds[a.ID].Qty != 7 || meds.meds[b.ID].Qty != 0 {
		t.Errorf("expected 7 and 0 after checkout, got %d and %d",
			meds.meds[a.ID].Qty, meds.meds[b.ID].Qty)
	}
}

func TestCheckoutAll_RacingSecondLine(t *testing.T) {
	svc, meds, _ := setupService()
	seedTag(t, svc, "shelf-a")
	a := seedMedicine(t, svc, "Paracetamol", 10)
	b := seedMedicine(t, svc, "Aspirin", 4)

	// A concurrent sale drains the second item after the snapshot guard
	// passed; the whole cart must be refused with the first item's
	// stock untouched.
	meds.drainTo = map[string]int{b.ID: 1}
	err := svc.CheckoutAll(context.Background(), []CheckoutLine{
		{MedicineID: a.ID, Qty: 3},
		{MedicineID: b.ID, Qty: 4},
	})
	var cErr *CheckoutRejectedError
	if !errors.As(err, &cErr) {
		t.Fatalf("expected CheckoutRejectedError, got %v", err)
	}
	if !strings.Contains(cErr.Error(), "Aspirin") {
		t.Errorf("expected failing item name in message, got %q", cErr.Error())
	}
	if meds.meds[a.ID].Qty != 10 {
		t.Errorf("first line must stay untouched, got qty %d", meds.meds[a.ID].Qty)
	}
}

func TestCheckout_UnknownMedicine(t *testing.T) {
	svc, _, _ := setupService()

	_, err := svc.Checkout(context.Background(), "med_20240101120000000", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlerts(t *testing.T) {
	svc, _, _ := setupService()
	seedTag(t, svc, "shelf-a") // LowQtyAlert 5
	low := seedMedicine(t, svc, "Aspirin", 3)
	seedMedicine(t, svc, "Paracetamol", 50)

	expiringSoon := &Medicine{
		ProductNumber: "PN-ExpiringSoon", Name: "Ibuprofen", Tag: "shelf-a",
		Qty: 40, Expiry: time.Now().AddDate(0, 0, 7),
	}
	if err := svc.CreateMedicine(context.Background(), expiringSoon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lows, expiring, err := svc.Alerts(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lows) != 1 || lows[0].ID != low.ID {
		t.Errorf("expected only Aspirin in low stock, got %d items", len(lows))
	}
	if len(expiring) != 1 || expiring[0].ID != expiringSoon.ID {
		t.Errorf("expected only Ibuprofen expiring, got %d items", len(expiring))
	}
}

func TestCreateTag(t *testing.T) {
	svc, _, _ := setupService()

	tag := seedTag(t, svc, "shelf-a")
	if !strings.HasPrefix(tag.ID, "tag_") {
		t.Errorf("expected tag_ id, got %q", tag.ID)
	}
}

func TestCreateTag_NameRequired(t *testing.T) {
	svc, _, _ := setupService()

	var vErr *validate.Error
	if !errors.As(svc.CreateTag(context.Background(), &Tag{}), &vErr) {
		t.Fatal("expected validation error for missing name")
	}
}
