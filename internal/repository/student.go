package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var (
	ErrStudentNotFound   = dao.ErrStudentNotFound
	ErrStudentCodeExists = dao.ErrStudentCodeExists
	ErrStudentNoMatch    = dao.ErrStudentZeroMatches
)

type StudentDAO interface {
	Insert(ctx context.Context, student dao.Student) (dao.Student, error)
	FindByID(ctx context.Context, id uint) (dao.Student, error)
	Find(ctx context.Context, filter dao.StudentFilter) ([]dao.Student, error)
	FindByIdentity(ctx context.Context, schoolID uint, studentCode *string, firstName, lastName string, birthDate *time.Time, className string) (dao.Student, error)
	Update(ctx context.Context, student dao.Student) (dao.Student, error)
	Delete(ctx context.Context, id uint) error
	DistinctSchoolIDsByParent(ctx context.Context, parentID uint) ([]uint, error)
	Count(ctx context.Context, schoolIDs []uint) (int64, error)
	FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error)
}

type StudentRepository struct {
	dao StudentDAO
}

func NewStudentRepository(dao StudentDAO) *StudentRepository {
	return &StudentRepository{
		dao: dao,
	}
}

func (r *StudentRepository) Create(ctx context.Context, student domain.Student) (domain.Student, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(student))
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id uint) (domain.Student, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StudentRepository) Find(ctx context.Context, schoolIDs []uint, className string, parentID *uint) ([]domain.Student, error) {
	found, err := r.dao.Find(ctx, dao.StudentFilter{
		SchoolIDs: schoolIDs,
		ClassName: className,
		ParentID:  parentID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	students := make([]domain.Student, 0, len(found))
	for _, s := range found {
		students = append(students, r.daoToDomain(s))
	}

	return students, nil
}

func (r *StudentRepository) FindByIdentity(ctx context.Context, identity domain.StudentIdentity) (domain.Student, error) {
	found, err := r.dao.FindByIdentity(ctx, identity.SchoolID, identity.StudentCode,
		identity.FirstName, identity.LastName, identity.BirthDate, identity.ClassName)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.FindByIdentity -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *StudentRepository) Update(ctx context.Context, student domain.Student) (domain.Student, error) {
	toUpdate := r.domainToDAO(student)
	toUpdate.ID = student.ID
	toUpdate.CreatedAt = student.CreatedAt

	updated, err := r.dao.Update(ctx, toUpdate)
	if err != nil {
		return domain.Student{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *StudentRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *StudentRepository) DistinctSchoolIDsByParent(ctx context.Context, parentID uint) ([]uint, error) {
	ids, err := r.dao.DistinctSchoolIDsByParent(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.DistinctSchoolIDsByParent -> %w", err)
	}

	return ids, nil
}

func (r *StudentRepository) Count(ctx context.Context, schoolIDs []uint) (int64, error) {
	count, err := r.dao.Count(ctx, schoolIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *StudentRepository) FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error) {
	ids, err := r.dao.FindIDsBySchools(ctx, schoolIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindIDsBySchools -> %w", err)
	}

	return ids, nil
}

func (r *StudentRepository) daoToDomain(s dao.Student) domain.Student {
	return domain.Student{
		ID:          s.ID,
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		ClassName:   s.ClassName,
		BirthDate:   s.BirthDate,
		StudentCode: s.StudentCode,
		SchoolID:    s.SchoolID,
		ParentID:    s.ParentID,
		ClaimedAt:   s.ClaimedAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (r *StudentRepository) domainToDAO(s domain.Student) dao.Student {
	return dao.Student{
		FirstName:   s.FirstName,
		LastName:    s.LastName,
		ClassName:   s.ClassName,
		BirthDate:   s.BirthDate,
		StudentCode: s.StudentCode,
		SchoolID:    s.SchoolID,
		ParentID:    s.ParentID,
		ClaimedAt:   s.ClaimedAt,
	}
}
