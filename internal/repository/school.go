package repository

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var ErrSchoolNotFound = dao.ErrSchoolNotFound

type SchoolDAO interface {
	Insert(ctx context.Context, school dao.School) (dao.School, error)
	FindByID(ctx context.Context, id uint) (dao.School, error)
	FindByIDs(ctx context.Context, ids []uint) ([]dao.School, error)
	FindAll(ctx context.Context) ([]dao.School, error)
	FindByAdminID(ctx context.Context, adminID uint) (dao.School, error)
	Update(ctx context.Context, school dao.School) (dao.School, error)
	SetAdmin(ctx context.Context, schoolID, adminID uint) error
	Delete(ctx context.Context, id uint) error
}

type SchoolRepository struct {
	dao SchoolDAO
}

func NewSchoolRepository(dao SchoolDAO) *SchoolRepository {
	return &SchoolRepository{
		dao: dao,
	}
}

func (r *SchoolRepository) Create(ctx context.Context, school domain.School) (domain.School, error) {
	created, err := r.dao.Insert(ctx, dao.School{
		Name:    school.Name,
		Address: school.Address,
		City:    school.City,
	})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SchoolRepository) FindByID(ctx context.Context, id uint) (domain.School, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SchoolRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.School, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *SchoolRepository) FindAll(ctx context.Context) ([]domain.School, error) {
	found, err := r.dao.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daoToDomainSlice(found), nil
}

func (r *SchoolRepository) FindByAdminID(ctx context.Context, adminID uint) (domain.School, error) {
	found, err := r.dao.FindByAdminID(ctx, adminID)
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.FindByAdminID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SchoolRepository) Update(ctx context.Context, school domain.School) (domain.School, error) {
	updated, err := r.dao.Update(ctx, dao.School{
		ID:        school.ID,
		Name:      school.Name,
		Address:   school.Address,
		City:      school.City,
		AdminID:   school.AdminID,
		CreatedAt: school.CreatedAt,
	})
	if err != nil {
		return domain.School{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *SchoolRepository) SetAdmin(ctx context.Context, schoolID, adminID uint) error {
	if err := r.dao.SetAdmin(ctx, schoolID, adminID); err != nil {
		return fmt.Errorf("r.dao.SetAdmin -> %w", err)
	}

	return nil
}

func (r *SchoolRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SchoolRepository) daoToDomain(s dao.School) domain.School {
	return domain.School{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		City:      s.City,
		AdminID:   s.AdminID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (r *SchoolRepository) daoToDomainSlice(found []dao.School) []domain.School {
	schools := make([]domain.School, 0, len(found))
	for _, s := range found {
		schools = append(schools, r.daoToDomain(s))
	}

	return schools
}
