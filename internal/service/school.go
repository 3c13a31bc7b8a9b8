package service

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
)

type SchoolRepository interface {
	Create(ctx context.Context, school domain.School) (domain.School, error)
	FindByID(ctx context.Context, id uint) (domain.School, error)
	FindByIDs(ctx context.Context, ids []uint) ([]domain.School, error)
	FindAll(ctx context.Context) ([]domain.School, error)
	Update(ctx context.Context, school domain.School) (domain.School, error)
	Delete(ctx context.Context, id uint) error
}

type SchoolService struct {
	repo SchoolRepository
}

func NewSchoolService(repo SchoolRepository) *SchoolService {
	return &SchoolService{repo: repo}
}

func (s *SchoolService) CreateSchool(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := s.repo.Create(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// GetSchool returns the school when the caller's scope covers it. A school
// outside the scope reads as not found rather than forbidden.
func (s *SchoolService) GetSchool(ctx context.Context, id uint, scope domain.Scope) (domain.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domain.School{}, ErrSchoolNotFound
		}

		return domain.School{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if !scope.Contains(school.ID) {
		return domain.School{}, ErrSchoolNotFound
	}

	return school, nil
}

func (s *SchoolService) ListSchools(ctx context.Context, scope domain.Scope) ([]domain.School, error) {
	if scope.All {
		schools, err := s.repo.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
		}

		return schools, nil
	}

	if scope.IsEmpty() {
		return []domain.School{}, nil
	}

	schools, err := s.repo.FindByIDs(ctx, scope.SchoolIDs)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByIDs -> %w", err)
	}

	return schools, nil
}

func (s *SchoolService) UpdateSchool(ctx context.Context, id uint, name, address, city string, scope domain.Scope) (domain.School, error) {
	school, err := s.GetSchool(ctx, id, scope)
	if err != nil {
		return domain.School{}, err
	}

	if name != "" {
		school.Name = name
	}
	if address != "" {
		school.Address = address
	}
	if city != "" {
		school.City = city
	}

	updated, err := s.repo.Update(ctx, school)
	if err != nil {
		return domain.School{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *SchoolService) DeleteSchool(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrSchoolNotFound
		}

		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
