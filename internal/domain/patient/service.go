package patient

import (
	"context"

	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validate.AsError(validate.Check(p.fields(), patientRules)); err != nil {
		return err
	}
	p.ID = seqid.New(IDPrefix)
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if err := validate.AsError(validate.Check(p.fields(), patientRules)); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, pg pagination.Params) ([]*Patient, int, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Patient, int, error) {
	return s.repo.SearchByName(ctx, q, pg)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
