package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindByRoleAndSchool(ctx context.Context, role string, schoolID uint) ([]domain.User, error)
	Delete(ctx context.Context, id uint) error
}

type UserSchoolRepository interface {
	FindByAdminID(ctx context.Context, adminID uint) (domain.School, error)
}

type UserService struct {
	repo       UserRepository
	schoolRepo UserSchoolRepository
}

func NewUserService(repo UserRepository, schoolRepo UserSchoolRepository) *UserService {
	return &UserService{
		repo:       repo,
		schoolRepo: schoolRepo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

// ListCanteenManagers returns the managers of the calling school admin's
// school. An admin without a school sees nothing.
func (s *UserService) ListCanteenManagers(ctx context.Context, principal domain.User) ([]domain.User, error) {
	school, err := s.schoolRepo.FindByAdminID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return []domain.User{}, nil
		}

		return nil, fmt.Errorf("s.schoolRepo.FindByAdminID -> %w", err)
	}

	managers, err := s.repo.FindByRoleAndSchool(ctx, domain.RoleCanteenManager, school.ID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByRoleAndSchool -> %w", err)
	}

	return managers, nil
}

// DeleteCanteenManager removes a manager belonging to the caller's school.
// Back-references on students and schools are nulled, never cascaded.
func (s *UserService) DeleteCanteenManager(ctx context.Context, principal domain.User, managerID uint) error {
	school, err := s.schoolRepo.FindByAdminID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, repository.ErrSchoolNotFound) {
			return ErrUserNotFound
		}

		return fmt.Errorf("s.schoolRepo.FindByAdminID -> %w", err)
	}

	manager, err := s.repo.FindByID(ctx, managerID)
	if err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}
	if manager.Role != domain.RoleCanteenManager || manager.SchoolID == nil || *manager.SchoolID != school.ID {
		return ErrUserNotFound
	}

	if err = s.repo.Delete(ctx, managerID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}
