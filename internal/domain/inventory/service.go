package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// CheckoutRejectedError marks a checkout refused by the quantity guard.
// The message names the item so handlers can surface it directly.
type CheckoutRejectedError struct {
	Item   string
	Reason string
}

func (e *CheckoutRejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Item, e.Reason)
}

type Service struct {
	medicines MedicineRepository
	tags      TagRepository
}

func NewService(medicines MedicineRepository, tags TagRepository) *Service {
	return &Service{medicines: medicines, tags: tags}
}

// -- Medicine --

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if err := validate.AsError(validate.Check(m.fields(), medicineRules)); err != nil {
		return err
	}
	if _, err := s.tags.GetByName(ctx, m.Tag); err != nil {
		if errors.Is(err, ErrNotFound) {
			return validate.NewError("tag", fmt.Sprintf("tag %q does not exist", m.Tag))
		}
		return err
	}
	m.ID = seqid.New(MedicineIDPrefix)
	return s.medicines.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id string) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) GetMedicineByProductNumber(ctx context.Context, pn string) (*Medicine, error) {
	return s.medicines.GetByProductNumber(ctx, pn)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if err := validate.AsError(validate.Check(m.fields(), medicineRules)); err != nil {
		return err
	}
	return s.medicines.Update(ctx, m)
}

func (s *Service) DeleteMedicine(ctx context.Context, id string) error {
	return s.medicines.Delete(ctx, id)
}

func (s *Service) ListMedicines(ctx context.Context, pg pagination.Params) ([]*Medicine, int, error) {
	return s.medicines.List(ctx, pg)
}

func (s *Service) SearchMedicines(ctx context.Context, q string, pg pagination.Params) ([]*Medicine, int, error) {
	return s.medicines.SearchByName(ctx, q, pg)
}

func (s *Service) CountMedicines(ctx context.Context) (int, error) {
	return s.medicines.Count(ctx)
}

// Checkout takes qty units off the given medicine. The pure guard runs
// first against a snapshot for a precise rejection message; the
// conditional decrement in the repository is authoritative and may
// still refuse when a concurrent checkout got there first.
func (s *Service) Checkout(ctx context.Context, medicineID string, qty int) (*Medicine, error) {
	m, err := s.medicines.GetByID(ctx, medicineID)
	if err != nil {
		return nil, err
	}

	if res := ValidateCheckout(m.Qty, qty); !res.OK {
		return nil, &CheckoutRejectedError{Item: m.Name, Reason: res.Reason}
	}

	newQty, err := s.medicines.Decrement(ctx, medicineID, qty)
	if errors.Is(err, ErrInsufficientStock) {
		return nil, &CheckoutRejectedError{Item: m.Name, Reason: "insufficient quantity"}
	}
	if err != nil {
		return nil, err
	}
	m.Qty = newQty
	return m, nil
}

// CheckoutAll takes a whole cart off stock at once. Every line passes
// the snapshot guard first, then the repository applies the decrements
// transactionally, so a cart that loses a concurrent race on a later
// line leaves the earlier lines untouched.
func (s *Service) CheckoutAll(ctx context.Context, lines []CheckoutLine) error {
	names := make(map[string]string, len(lines))
	for _, ln := range lines {
		m, err := s.medicines.GetByID(ctx, ln.MedicineID)
		if err != nil {
			return err
		}
		names[ln.MedicineID] = m.Name
		if res := ValidateCheckout(m.Qty, ln.Qty); !res.OK {
			return &CheckoutRejectedError{Item: m.Name, Reason: res.Reason}
		}
	}

	failedID, err := s.medicines.DecrementAll(ctx, lines)
	if errors.Is(err, ErrInsufficientStock) {
		return &CheckoutRejectedError{Item: names[failedID], Reason: "insufficient quantity"}
	}
	return err
}

// Alerts returns medicines at or under their tag's low-stock threshold
// and those expiring within the given number of days.
func (s *Service) Alerts(ctx context.Context, expiryDays int) (low, expiring []*Medicine, err error) {
	low, err = s.medicines.LowStock(ctx)
	if err != nil {
		return nil, nil, err
	}
	expiring, err = s.medicines.Expiring(ctx, time.Now().AddDate(0, 0, expiryDays))
	if err != nil {
		return nil, nil, err
	}
	return low, expiring, nil
}

// -- Tag --

func (s *Service) CreateTag(ctx context.Context, t *Tag) error {
	if err := validate.AsError(validate.Check(t.fields(), tagRules)); err != nil {
		return err
	}
	t.ID = seqid.New(TagIDPrefix)
	return s.tags.Create(ctx, t)
}

func (s *Service) GetTag(ctx context.Context, id string) (*Tag, error) {
	return s.tags.GetByID(ctx, id)
}

func (s *Service) UpdateTag(ctx context.Context, t *Tag) error {
	if err := validate.AsError(validate.Check(t.fields(), tagRules)); err != nil {
		return err
	}
	return s.tags.Update(ctx, t)
}

func (s *Service) DeleteTag(ctx context.Context, id string) error {
	return s.tags.Delete(ctx, id)
}

func (s *Service) ListTags(ctx context.Context, pg pagination.Params) ([]*Tag, int, error) {
	return s.tags.List(ctx, pg)
}

func (s *Service) CountTags(ctx context.Context) (int, error) {
	return s.tags.Count(ctx)
}
