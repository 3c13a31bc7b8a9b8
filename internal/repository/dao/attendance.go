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
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance already marked for this student and menu")
)

type Attendance struct {
	ID uint `gorm:"primaryKey"`

	// At most one record per (student, menu) pair, enforced by the store.
	StudentID uint `gorm:"not null;uniqueIndex:idx_attendance_student_menu"`
	MenuID    uint `gorm:"not null;uniqueIndex:idx_attendance_student_menu"`

	Date                time.Time `gorm:"not null;index"`
	Present             bool      `gorm:"not null"`
	Justified           bool      `gorm:"not null;default:false"`
	JustificationReason string
	MarkedBy            uint `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type AttendanceFilter struct {
	StudentIDs []uint
	MenuID     *uint
	Date       *time.Time
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

func (d *AttendanceDAO) Insert(ctx context.Context, attendance Attendance) (Attendance, error) {
	result := d.db.WithContext(ctx).Create(&attendance)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) && err.Code == pgerrcode.UniqueViolation {
			return Attendance{}, ErrAttendanceExists
		}

		return Attendance{}, result.Error
	}

	return attendance, nil
}

func (d *AttendanceDAO) Find(ctx context.Context, filter AttendanceFilter) ([]Attendance, error) {
	query := d.db.WithContext(ctx).Model(&Attendance{})

	if len(filter.StudentIDs) > 0 {
		query = query.Where("student_id IN ?", filter.StudentIDs)
	}
	if filter.MenuID != nil {
		query = query.Where("menu_id = ?", *filter.MenuID)
	}
	if filter.Date != nil {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		query = query.Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	var records []Attendance
	result := query.Order("date desc").Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}

	return records, nil
}

func (d *AttendanceDAO) Count(ctx context.Context, studentIDs []uint) (int64, error) {
	query := d.db.WithContext(ctx).Model(&Attendance{})
	if studentIDs != nil {
		query = query.Where("student_id IN ?", studentIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (d *AttendanceDAO) CountForDay(ctx context.Context, studentIDs []uint, day time.Time) (int64, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	query := d.db.WithContext(ctx).Model(&Attendance{}).
		Where("date >= ? AND date < ?", dayStart, dayStart.AddDate(0, 0, 1))
	if studentIDs != nil {
		query = query.Where("student_id IN ?", studentIDs)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
