package service

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
)

type AccessSchoolRepository interface {
	FindByID(ctx context.Context, id uint) (domain.School, error)
	FindByAdminID(ctx context.Context, adminID uint) (domain.School, error)
}

type AccessStudentRepository interface {
	DistinctSchoolIDsByParent(ctx context.Context, parentID uint) ([]uint, error)
}

// AccessService computes which schools a principal may see or mutate. Every
// resolution failure collapses to the empty scope: access control fails closed.
type AccessService struct {
	schoolRepo  AccessSchoolRepository
	studentRepo AccessStudentRepository
}

func NewAccessService(schoolRepo AccessSchoolRepository, studentRepo AccessStudentRepository) *AccessService {
	return &AccessService{
		schoolRepo:  schoolRepo,
		studentRepo: studentRepo,
	}
}

func (s *AccessService) ResolveSchools(ctx context.Context, principal domain.User) (domain.Scope, error) {
	switch principal.Role {
	case domain.RoleSuperAdmin:
		return domain.ScopeAll(), nil

	case domain.RoleSchoolAdmin:
		school, err := s.schoolRepo.FindByAdminID(ctx, principal.ID)
		if err != nil {
			if isNotFound(err) {
				return domain.Scope{}, nil
			}

			return domain.Scope{}, fmt.Errorf("s.schoolRepo.FindByAdminID -> %w", err)
		}

		return domain.ScopeOf(school.ID), nil

	case domain.RoleCanteenManager:
		if principal.SchoolID == nil {
			return domain.Scope{}, nil
		}

		return domain.ScopeOf(*principal.SchoolID), nil

	case domain.RoleParent:
		schoolIDs, err := s.studentRepo.DistinctSchoolIDsByParent(ctx, principal.ID)
		if err != nil {
			return domain.Scope{}, fmt.Errorf("s.studentRepo.DistinctSchoolIDsByParent -> %w", err)
		}

		return domain.ScopeOf(schoolIDs...), nil
	}

	return domain.Scope{}, nil
}

// CanWriteMenu re-derives the owning school's admin or manager and compares
// identity. Any ambiguity, including lookup failure, yields false; the caller
// translates false into a 403.
func (s *AccessService) CanWriteMenu(ctx context.Context, menu domain.Menu, principal domain.User) bool {
	switch principal.Role {
	case domain.RoleSuperAdmin:
		return true

	case domain.RoleSchoolAdmin:
		school, err := s.schoolRepo.FindByID(ctx, menu.SchoolID)
		if err != nil {
			return false
		}

		return school.AdminID != nil && *school.AdminID == principal.ID

	case domain.RoleCanteenManager:
		return principal.SchoolID != nil && *principal.SchoolID == menu.SchoolID
	}

	return false
}
