package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrStudentNotFound    = errors.New("student not found")
	ErrStudentCodeExists  = errors.New("student code already exists in this school")
	ErrStudentZeroMatches = errors.New("no student matches the given identity")
)

type Student struct {
	ID uint `gorm:"primaryKey"`

	FirstName string `gorm:"not null"`
	LastName  string `gorm:"not null"`
	ClassName string
	BirthDate *time.Time

	// Unique within a school, not globally.
	StudentCode *string `gorm:"uniqueIndex:idx_students_school_code"`
	SchoolID    uint    `gorm:"not null;index;uniqueIndex:idx_students_school_code"`

	ParentID  *uint `gorm:"index"`
	ClaimedAt *time.Time

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type StudentFilter struct {
	SchoolIDs []uint
	ClassName string
	ParentID  *uint
}

type StudentDAO struct {
	db *gorm.DB
}

func NewStudentDAO(db *gorm.DB) *StudentDAO {
	return &StudentDAO{
		db: db,
	}
}

func (d *StudentDAO) Insert(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Create(&student)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Student{}, ErrStudentCodeExists
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) FindByID(ctx context.Context, id uint) (Student, error) {
	var student Student

	result := d.db.WithContext(ctx).First(&student, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentNotFound
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) Find(ctx context.Context, filter StudentFilter) ([]Student, error) {
	query := d.db.WithContext(ctx).Model(&Student{})

	if len(filter.SchoolIDs) > 0 {
		query = query.Where("school_id IN ?", filter.SchoolIDs)
	}
	if filter.ClassName != "" {
		query = query.Where("class_name = ?", filter.ClassName)
	}
	if filter.ParentID != nil {
		query = query.Where("parent_id = ?", *filter.ParentID)
	}

	var students []Student
	result := query.Order("last_name asc, first_name asc").Find(&students)
	if result.Error != nil {
		return nil, result.Error
	}

	return students, nil
}

// FindByIdentity resolves the import/claim matching key: the school-scoped
// student code when given, otherwise (first, last, birth date) plus the class
// name when supplied.
func (d *StudentDAO) FindByIdentity(ctx context.Context, schoolID uint, studentCode *string, firstName, lastName string, birthDate *time.Time, className string) (Student, error) {
	query := d.db.WithContext(ctx).Where("school_id = ?", schoolID)

	if studentCode != nil && *studentCode != "" {
		query = query.Where("student_code = ?", *studentCode)
	} else {
		if birthDate == nil {
			return Student{}, ErrStudentZeroMatches
		}
		query = query.Where("LOWER(first_name) = LOWER(?) AND LOWER(last_name) = LOWER(?) AND birth_date = ?",
			firstName, lastName, *birthDate)
		if className != "" {
			query = query.Where("class_name = ?", className)
		}
	}

	var student Student
	result := query.First(&student)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Student{}, ErrStudentZeroMatches
		}

		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) Update(ctx context.Context, student Student) (Student, error) {
	result := d.db.WithContext(ctx).Save(&student)
	if result.Error != nil {
		return Student{}, result.Error
	}

	return student, nil
}

func (d *StudentDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Student{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStudentNotFound
	}

	return nil
}

func (d *StudentDAO) DistinctSchoolIDsByParent(ctx context.Context, parentID uint) ([]uint, error) {
	var schoolIDs []uint

	result := d.db.WithContext(ctx).Model(&Student{}).
		Where("parent_id = ?", parentID).
		Distinct().
		Pluck("school_id", &schoolIDs)
	if result.Error != nil {
		return nil, result.Error
	}

	return schoolIDs, nil
}

func (d *StudentDAO) Count(ctx context.Context, schoolIDs []uint) (int64, error) {
	query := d.db.WithContext(ctx).Model(&Student{})
	if schoolIDs != nil {
		query = query.Where("school_id IN ?", schoolIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (d *StudentDAO) FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error) {
	var ids []uint

	result := d.db.WithContext(ctx).Model(&Student{}).
		Where("school_id IN ?", schoolIDs).
		Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}

	return ids, nil
}
