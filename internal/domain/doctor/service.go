package doctor

import (
	"context"
	"errors"
	"fmt"
	"net/mail"

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

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if err := validate(d); err != nil {
		return err
	}
	if err := s.checkUniqueness(ctx, d, 0); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return fmt.Errorf("create doctor: %w", err)
	}

	s.logger.Info().Int64("doctor_id", d.ID).Str("specialization", d.Specialization).Msg("doctor created")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("Doctor with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get doctor: %w", err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context) ([]*Doctor, error) {
	return s.repo.GetAll(ctx)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Doctor, error) {
	if term == "" {
		return nil, apperr.Validationf("Search term cannot be empty")
	}
	return s.repo.SearchByName(ctx, term)
}

func (s *Service) BySpecialization(ctx context.Context, specialization string) ([]*Doctor, error) {
	if specialization == "" {
		return nil, apperr.Validationf("specialization cannot be empty")
	}
	return s.repo.GetBySpecialization(ctx, specialization)
}

func (s *Service) Update(ctx context.Context, id int64, in *Doctor) (*Doctor, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validate(in); err != nil {
		return nil, err
	}
	if err := s.checkUniqueness(ctx, in, id); err != nil {
		return nil, err
	}

	existing.FirstName = in.FirstName
	existing.LastName = in.LastName
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Specialization = in.Specialization
	existing.LicenseNumber = in.LicenseNumber
	existing.Qualifications = in.Qualifications
	existing.ExperienceYears = in.ExperienceYears

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update doctor: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete doctor: %w", err)
	}
	s.logger.Info().Int64("doctor_id", id).Msg("doctor deleted")
	return nil
}

func (s *Service) checkUniqueness(ctx context.Context, d *Doctor, excludeID int64) error {
	unique, err := s.repo.IsEmailUnique(ctx, d.Email, excludeID)
	if err != nil {
		return fmt.Errorf("check email uniqueness: %w", err)
	}
	if !unique {
		return apperr.Validationf("Email already exists")
	}

	if d.LicenseNumber != nil && *d.LicenseNumber != "" {
		unique, err := s.repo.IsLicenseUnique(ctx, *d.LicenseNumber, excludeID)
		if err != nil {
			return fmt.Errorf("check license uniqueness: %w", err)
		}
		if !unique {
			return apperr.Validationf("License number already exists")
		}
	}
	return nil
}

func validate(d *Doctor) error {
	if d.FirstName == "" {
		return apperr.Validationf("first name is required")
	}
	if len(d.FirstName) > 100 {
		return apperr.Validationf("first name must be at most 100 characters")
	}
	if d.LastName == "" {
		return apperr.Validationf("last name is required")
	}
	if len(d.LastName) > 100 {
		return apperr.Validationf("last name must be at most 100 characters")
	}
	if d.Email == "" {
		return apperr.Validationf("email is required")
	}
	if len(d.Email) > 200 {
		return apperr.Validationf("email must be at most 200 characters")
	}
	if _, err := mail.ParseAddress(d.Email); err != nil {
		return apperr.Validationf("invalid email address")
	}
	if d.Phone != nil && len(*d.Phone) > 20 {
		return apperr.Validationf("phone must be at most 20 characters")
	}
	if d.Specialization == "" {
		return apperr.Validationf("specialization is required")
	}
	if len(d.Specialization) > 200 {
		return apperr.Validationf("specialization must be at most 200 characters")
	}
	if d.LicenseNumber != nil && len(*d.LicenseNumber) > 50 {
		return apperr.Validationf("license number must be at most 50 characters")
	}
	if d.Qualifications != nil && len(*d.Qualifications) > 500 {
		return apperr.Validationf("qualifications must be at most 500 characters")
	}
	if d.ExperienceYears < 0 {
		return apperr.Validationf("experience years cannot be negative")
	}
	return nil
}
