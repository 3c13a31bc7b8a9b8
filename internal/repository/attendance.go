package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var (
	ErrAttendanceNotFound = dao.ErrAttendanceNotFound
	ErrAttendanceExists   = dao.ErrAttendanceExists
)

type AttendanceDAO interface {
	Insert(ctx context.Context, attendance dao.Attendance) (dao.Attendance, error)
	Find(ctx context.Context, filter dao.AttendanceFilter) ([]dao.Attendance, error)
	Count(ctx context.Context, studentIDs []uint) (int64, error)
	CountForDay(ctx context.Context, studentIDs []uint, day time.Time) (int64, error)
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

func (r *AttendanceRepository) Create(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error) {
	created, err := r.dao.Insert(ctx, dao.Attendance{
		StudentID:           attendance.StudentID,
		MenuID:              attendance.MenuID,
		Date:                attendance.Date,
		Present:             attendance.Present,
		Justified:           attendance.Justified,
		JustificationReason: attendance.JustificationReason,
		MarkedBy:            attendance.MarkedBy,
	})
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendanceRepository) Find(ctx context.Context, studentIDs []uint, menuID *uint, date *time.Time) ([]domain.Attendance, error) {
	found, err := r.dao.Find(ctx, dao.AttendanceFilter{
		StudentIDs: studentIDs,
		MenuID:     menuID,
		Date:       date,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	records := make([]domain.Attendance, 0, len(found))
	for _, a := range found {
		records = append(records, r.daoToDomain(a))
	}

	return records, nil
}

func (r *AttendanceRepository) Count(ctx context.Context, studentIDs []uint) (int64, error) {
	count, err := r.dao.Count(ctx, studentIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *AttendanceRepository) CountForDay(ctx context.Context, studentIDs []uint, day time.Time) (int64, error) {
	count, err := r.dao.CountForDay(ctx, studentIDs, day)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountForDay -> %w", err)
	}

	return count, nil
}

func (r *AttendanceRepository) daoToDomain(a dao.Attendance) domain.Attendance {
	return domain.Attendance{
		ID:                  a.ID,
		StudentID:           a.StudentID,
		MenuID:              a.MenuID,
		Date:                a.Date,
		Present:             a.Present,
		Justified:           a.Justified,
		JustificationReason: a.JustificationReason,
		MarkedBy:            a.MarkedBy,
		CreatedAt:           a.CreatedAt,
		UpdatedAt:           a.UpdatedAt,
	}
}
