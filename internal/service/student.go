package service

import (
	"context"
	"fmt"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
)

type StudentRepository interface {
	Create(ctx context.Context, student domain.Student) (domain.Student, error)
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	Find(ctx context.Context, schoolIDs []uint, className string, parentID *uint) ([]domain.Student, error)
	FindByIdentity(ctx context.Context, identity domain.StudentIdentity) (domain.Student, error)
	Update(ctx context.Context, student domain.Student) (domain.Student, error)
	Delete(ctx context.Context, id uint) error
}

// ImportResult summarizes a bulk student import. Rows matching an existing
// student are skipped rather than duplicated.
type ImportResult struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

type StudentService struct {
	repo StudentRepository
}

func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{repo: repo}
}

func (s *StudentService) CreateStudent(ctx context.Context, student domain.Student, scope domain.Scope) (domain.Student, error) {
	if !scope.Contains(student.SchoolID) {
		return domain.Student{}, ErrSchoolNotFound
	}

	created, err := s.repo.Create(ctx, student)
	if err != nil {
		if isNotFound(err) {
			return domain.Student{}, err
		}

		return domain.Student{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return domain.Student{}, ErrStudentNotFound
		}

		return domain.Student{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if principal.Role == domain.RoleParent {
		if student.ParentID == nil || *student.ParentID != principal.ID {
			return domain.Student{}, ErrStudentNotFound
		}

		return student, nil
	}

	if !scope.Contains(student.SchoolID) {
		return domain.Student{}, ErrStudentNotFound
	}

	return student, nil
}

// ListStudents returns the students visible to the caller: parents see only
// the children they have claimed, everyone else sees their school scope.
func (s *StudentService) ListStudents(ctx context.Context, principal domain.User, scope domain.Scope, className string) ([]domain.Student, error) {
	if principal.Role == domain.RoleParent {
		parentID := principal.ID
		students, err := s.repo.Find(ctx, nil, className, &parentID)
		if err != nil {
			return nil, fmt.Errorf("s.repo.Find -> %w", err)
		}

		return students, nil
	}

	if !scope.All && scope.IsEmpty() {
		return []domain.Student{}, nil
	}

	students, err := s.repo.Find(ctx, scope.SchoolIDs, className, nil)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return students, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, id uint, update domain.Student, principal domain.User, scope domain.Scope) (domain.Student, error) {
	student, err := s.GetStudent(ctx, id, principal, scope)
	if err != nil {
		return domain.Student{}, err
	}

	if update.FirstName != "" {
		student.FirstName = update.FirstName
	}
	if update.LastName != "" {
		student.LastName = update.LastName
	}
	if update.ClassName != "" {
		student.ClassName = update.ClassName
	}
	if update.BirthDate != nil {
		student.BirthDate = update.BirthDate
	}
	if update.StudentCode != nil {
		student.StudentCode = update.StudentCode
	}

	updated, err := s.repo.Update(ctx, student)
	if err != nil {
		if isNotFound(err) {
			return domain.Student{}, err
		}

		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *StudentService) DeleteStudent(ctx context.Context, id uint, principal domain.User, scope domain.Scope) error {
	if _, err := s.GetStudent(ctx, id, principal, scope); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// ClaimStudent links a parent to an existing student matched by code or by
// name and birth date. A student already linked to a parent cannot be claimed
// again, even by the same parent.
func (s *StudentService) ClaimStudent(ctx context.Context, identity domain.StudentIdentity, parentID uint) (domain.Student, error) {
	student, err := s.repo.FindByIdentity(ctx, identity)
	if err != nil {
		if isNotFound(err) {
			return domain.Student{}, ErrStudentNotFound
		}

		return domain.Student{}, fmt.Errorf("s.repo.FindByIdentity -> %w", err)
	}

	if student.ParentID != nil {
		return domain.Student{}, ErrStudentAlreadyClaimed
	}

	now := time.Now()
	student.ParentID = &parentID
	student.ClaimedAt = &now

	claimed, err := s.repo.Update(ctx, student)
	if err != nil {
		return domain.Student{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return claimed, nil
}

// ImportStudents creates the given students, skipping rows whose identity
// already matches an existing student in the school. Re-running the same
// import is a no-op.
func (s *StudentService) ImportStudents(ctx context.Context, schoolID uint, rows []domain.Student, scope domain.Scope) (ImportResult, error) {
	if !scope.Contains(schoolID) {
		return ImportResult{}, ErrSchoolNotFound
	}

	var result ImportResult
	for _, row := range rows {
		row.SchoolID = schoolID

		identity := domain.StudentIdentity{
			SchoolID:    schoolID,
			StudentCode: row.StudentCode,
			FirstName:   row.FirstName,
			LastName:    row.LastName,
			BirthDate:   row.BirthDate,
			ClassName:   row.ClassName,
		}

		_, err := s.repo.FindByIdentity(ctx, identity)
		if err == nil {
			result.Skipped++

			continue
		}
		if !isNotFound(err) {
			return ImportResult{}, fmt.Errorf("s.repo.FindByIdentity -> %w", err)
		}

		if _, err := s.repo.Create(ctx, row); err != nil {
			return ImportResult{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
		result.Created++
	}

	return result, nil
}
