package medicine

import (
	"context"
	"errors"
	"fmt"
	"strconv"

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

func (s *Service) Create(ctx context.Context, m *Medicine) error {
	if err := validate(m); err != nil {
		return err
	}

	unique, err := s.repo.IsNameUnique(ctx, m.Name, 0)
	if err != nil {
		return fmt.Errorf("check name uniqueness: %w", err)
	}
	if !unique {
		return apperr.Validationf("Medicine name already exists")
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return fmt.Errorf("create medicine: %w", err)
	}

	s.logger.Info().Int64("medicine_id", m.ID).Str("name", m.Name).Msg("medicine created")
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Medicine, error) {
	m, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFoundf("Medicine with ID %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get medicine: %w", err)
	}
	return m, nil
}

// ListActive returns the catalog entries available for prescribing.
func (s *Service) ListActive(ctx context.Context) ([]*Medicine, error) {
	return s.repo.GetAll(ctx, true)
}

// ListAll returns every non-deleted medicine, active or not.
func (s *Service) ListAll(ctx context.Context) ([]*Medicine, error) {
	return s.repo.GetAll(ctx, false)
}

func (s *Service) Search(ctx context.Context, term string) ([]*Medicine, error) {
	if term == "" {
		return nil, apperr.Validationf("Search term cannot be empty")
	}
	return s.repo.SearchByName(ctx, term)
}

func (s *Service) ByCategory(ctx context.Context, category string) ([]*Medicine, error) {
	if category == "" {
		return nil, apperr.Validationf("category cannot be empty")
	}
	return s.repo.GetByCategory(ctx, category)
}

func (s *Service) Update(ctx context.Context, id int64, in *Medicine) (*Medicine, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validate(in); err != nil {
		return nil, err
	}

	unique, err := s.repo.IsNameUnique(ctx, in.Name, id)
	if err != nil {
		return nil, fmt.Errorf("check name uniqueness: %w", err)
	}
	if !unique {
		return nil, apperr.Validationf("Medicine name already exists")
	}

	existing.Name = in.Name
	existing.GenericName = in.GenericName
	existing.Manufacturer = in.Manufacturer
	existing.Description = in.Description
	existing.Category = in.Category
	existing.Strength = in.Strength
	existing.Form = in.Form
	existing.Price = in.Price
	existing.IsActive = in.IsActive

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update medicine: %w", err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return fmt.Errorf("delete medicine: %w", err)
	}
	s.logger.Info().Int64("medicine_id", id).Msg("medicine deleted")
	return nil
}

func validate(m *Medicine) error {
	if m.Name == "" {
		return apperr.Validationf("medicine name is required")
	}
	if len(m.Name) > 200 {
		return apperr.Validationf("medicine name must be at most 200 characters")
	}
	if m.GenericName != nil && len(*m.GenericName) > 200 {
		return apperr.Validationf("generic name must be at most 200 characters")
	}
	if m.Manufacturer != nil && len(*m.Manufacturer) > 200 {
		return apperr.Validationf("manufacturer must be at most 200 characters")
	}
	if m.Description != nil && len(*m.Description) > 1000 {
		return apperr.Validationf("description must be at most 1000 characters")
	}
	if m.Category != nil && len(*m.Category) > 100 {
		return apperr.Validationf("category must be at most 100 characters")
	}
	if m.Strength != nil && len(*m.Strength) > 50 {
		return apperr.Validationf("strength must be at most 50 characters")
	}
	if m.Form != nil && len(*m.Form) > 50 {
		return apperr.Validationf("form must be at most 50 characters")
	}
	if m.Price == "" {
		m.Price = "0"
	}
	price, err := strconv.ParseFloat(m.Price, 64)
	if err != nil {
		return apperr.Validationf("price must be a decimal number")
	}
	if price < 0 {
		return apperr.Validationf("price cannot be negative")
	}
	return nil
}
