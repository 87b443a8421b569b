package doctor

import (
	"context"
	"errors"
	"fmt"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/timeofday"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// ConflictError marks a schedule mutation rejected by CheckConflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// casAttempts bounds the optimistic-lock retry loop on schedule writes.
const casAttempts = 3

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if res := validate.Check(d.fields(), doctorRules); !res.Valid {
		return &validate.Error{Result: res}
	}
	for _, e := range d.Schedule {
		if res := validate.Check(e.fields(), scheduleEntryRules); !res.Valid {
			return &validate.Error{Result: res}
		}
	}
	d.ID = seqid.New(IDPrefix)
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id string) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if res := validate.Check(d.fields(), doctorRules); !res.Valid {
		return &validate.Error{Result: res}
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, pg pagination.Params) ([]*Doctor, int, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Doctor, int, error) {
	return s.repo.SearchByName(ctx, q, pg)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// AddSchedule appends a validated, non-conflicting entry to the
// doctor's schedule. The read-check-write cycle is retried when a
// concurrent writer bumps the version first.
func (s *Service) AddSchedule(ctx context.Context, id string, entry WorkingScheduleEntry) (*Doctor, error) {
	if res := validate.Check(entry.fields(), scheduleEntryRules); !res.Valid {
		return nil, &validate.Error{Result: res}
	}

	for attempt := 0; attempt < casAttempts; attempt++ {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if res := CheckConflict(d.Schedule, entry); res.Conflict {
			return nil, &ConflictError{Message: res.Message}
		}
		d.Schedule = append(d.Schedule, entry)
		err = s.repo.UpdateSchedule(ctx, d)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("adding schedule for %s: %w", id, ErrVersionConflict)
}

// RemoveSchedule drops every entry structurally equal to the target.
func (s *Service) RemoveSchedule(ctx context.Context, id string, entry WorkingScheduleEntry) (*Doctor, error) {
	for attempt := 0; attempt < casAttempts; attempt++ {
		d, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		d.Schedule = RemoveScheduleEntry(d.Schedule, entry)
		err = s.repo.UpdateSchedule(ctx, d)
		if errors.Is(err, ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("removing schedule for %s: %w", id, ErrVersionConflict)
}

// CheckSchedule reports whether the doctor is available at the given
// day and time of day.
func (s *Service) CheckSchedule(ctx context.Context, id string, day int, timeOfDay string) (bool, error) {
	if day < 0 || day > 6 {
		return false, validate.NewError("day", "day must be between 0 and 6")
	}
	if !timeofday.IsValid(timeOfDay) {
		return false, validate.NewError("time", "time has an invalid format")
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return IsWithinSchedule(d.Schedule, day, timeOfDay), nil
}
