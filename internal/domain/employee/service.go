package employee

import (
	"context"
	"errors"

	"github.com/pharmadesk/pharmadesk/internal/platform/auth"
	"github.com/pharmadesk/pharmadesk/pkg/pagination"
	"github.com/pharmadesk/pharmadesk/pkg/seqid"
	"github.com/pharmadesk/pharmadesk/pkg/validate"
)

// ErrBadCredentials is returned for a failed login. Unknown username
// and wrong password are deliberately indistinguishable.
var ErrBadCredentials = errors.New("invalid username or password")

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Create hashes the given plaintext password and stores the employee.
func (s *Service) Create(ctx context.Context, e *Employee, password string) error {
	if err := validate.AsError(validate.Check(e.fields(), employeeRules)); err != nil {
		return err
	}
	if err := validate.AsError(validate.Check(map[string]interface{}{"password": password}, passwordRule)); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	e.ID = seqid.New(IDPrefix)
	e.PasswordHash = hash
	return s.repo.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	return s.repo.GetByID(ctx, id)
}

// Update changes profile fields; password changes only when a new one
// is supplied.
func (s *Service) Update(ctx context.Context, e *Employee, newPassword string) error {
	if err := validate.AsError(validate.Check(e.fields(), employeeRules)); err != nil {
		return err
	}
	stored, err := s.repo.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	e.PasswordHash = stored.PasswordHash
	if newPassword != "" {
		if err := validate.AsError(validate.Check(map[string]interface{}{"password": newPassword}, passwordRule)); err != nil {
			return err
		}
		hash, err := auth.HashPassword(newPassword)
		if err != nil {
			return err
		}
		e.PasswordHash = hash
	}
	return s.repo.Update(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, pg pagination.Params) ([]*Employee, int, error) {
	return s.repo.List(ctx, pg)
}

func (s *Service) SearchByName(ctx context.Context, q string, pg pagination.Params) ([]*Employee, int, error) {
	return s.repo.SearchByName(ctx, q, pg)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Login checks the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, username, password string) (*Employee, string, error) {
	e, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !auth.CheckPassword(e.PasswordHash, password) {
		return nil, "", ErrBadCredentials
	}
	token, err := s.issuer.Issue(e.ID, e.Name, e.Role)
	if err != nil {
		return nil, "", err
	}
	return e, token, nil
}
