package patient

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/apperr"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Create(ctx context.Context, p *Patient) error {
	if err := validate(p); err != nil {
		return err
	}

	unique, err := s.repo.IsEmailUnique(ctx, p.Email, 0)
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if !unique {
		return apperr.Validationf("Email already exists")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	s.logger.Info().Int64("patient_id", p.ID).Msg("patient created")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("Patient with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get patient: %w", err)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context) ([]*Patient, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Patient, error) {
	if term == "" {
		return nil, apperr.Validationf("Search term cannot be empty")
	}
	return s.repo.SearchByName(ctx, term)
}

func (s *Service) Update(ctx context.Context, id int64, in *Patient) (*Patient, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	unique, err := s.repo.IsEmailUnique(ctx, in.Email, id)
	if err != nil {
		return nil, fmt.Errorf("check email uniqueness: %w", err)
	}
	if !unique {
		return nil, apperr.Validationf("Email already exists")
	}

	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.DateOfBirth = in.DateOfBirth
	existing.Gender = in.Gender
	existing.Address = in.Address

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete patient: %w", err)
	}
	s.logger.Info().Int64("patient_id", id).Msg("patient deleted")
	return nil
}

func validate(p *Patient) error {
	if p.FirstName == "" {
		return apperr.Validationf("first name is required")
	}
	if len(p.FirstName) > 100 {
		return apperr.Validationf("first name must be at most 100 characters")
	}
	if p.LastName == "" {
		return apperr.Validationf("last name is required")
	}
	if len(p.LastName) > 100 {
		return apperr.Validationf("last name must be at most 100 characters")
	}
	if p.Email == "" {
		return apperr.Validationf("email is required")
	}
	if len(p.Email) > 200 {
		return apperr.Validationf("email must be at most 200 characters")
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return apperr.Validationf("invalid email address")
	}
	if p.Phone != nil && len(*p.Phone) > 20 {
		return apperr.Validationf("phone must be at most 20 characters")
	}
	if p.DateOfBirth.IsZero() {
		return apperr.Validationf("date of birth is required")
	}
	if p.DateOfBirth.After(time.Now()) {
		return apperr.Validationf("date of birth cannot be in the future")
	}
	if p.Gender != nil && len(*p.Gender) > 10 {
		return apperr.Validationf("gender must be at most 10 characters")
	}
	if p.Address != nil && len(*p.Address) > 500 {
		return apperr.Validationf("address must be at most 500 characters")
	}
	return nil
}
