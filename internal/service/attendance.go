package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type AttendanceRepository interface {
	Create(ctx context.Context, attendance domain.Attendance) (domain.Attendance, error)
	Find(ctx context.Context, studentIDs []uint, menuID *uint, date *time.Time) ([]domain.Attendance, error)
}

type AttendanceStudentRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	Find(ctx context.Context, schoolIDs []uint, className string, parentID *uint) ([]domain.Student, error)
	FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error)
}

type AttendanceMenuRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Menu, error)
}

type AttendanceSubscriptionRepository interface {
	FindLatestByStudent(ctx context.Context, studentID uint) (domain.Subscription, error)
}

type AttendancePaymentRepository interface {
	FindLatestPayerBySubscription(ctx context.Context, subscriptionID uint) (domain.Payment, error)
}

type AttendanceNotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) (domain.Notification, error)
}

type AttendanceService struct {
	repo             AttendanceRepository
	studentRepo      AttendanceStudentRepository
	menuRepo         AttendanceMenuRepository
	subRepo          AttendanceSubscriptionRepository
	paymentRepo      AttendancePaymentRepository
	notificationRepo AttendanceNotificationRepository
}

func NewAttendanceService(
	repo AttendanceRepository,
	studentRepo AttendanceStudentRepository,
	menuRepo AttendanceMenuRepository,
	subRepo AttendanceSubscriptionRepository,
	paymentRepo AttendancePaymentRepository,
	notificationRepo AttendanceNotificationRepository,
) *AttendanceService {
	return &AttendanceService{
		repo:             repo,
		studentRepo:      studentRepo,
		menuRepo:         menuRepo,
		subRepo:          subRepo,
		paymentRepo:      paymentRepo,
		notificationRepo: notificationRepo,
	}
}

// MarkAttendance records one attendance per (student, menu) pair and then
// tries to notify the responsible parent. Student and menu must belong to
// the marker's school scope. Notification dispatch is an independent
// outcome: its failure never rolls back the attendance write.
func (s *AttendanceService) MarkAttendance(ctx context.Context, attendance domain.Attendance, marker domain.User, scope domain.Scope) (domain.AttendanceResult, error) {
	student, err := s.studentRepo.FindByID(ctx, attendance.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domain.AttendanceResult{}, ErrStudentNotFound
		}

		return domain.AttendanceResult{}, fmt.Errorf("s.studentRepo.FindByID -> %w", err)
	}
	if !scope.Contains(student.SchoolID) {
		return domain.AttendanceResult{}, ErrStudentNotFound
	}

	menu, err := s.menuRepo.FindByID(ctx, attendance.MenuID)
	if err != nil {
		if errors.Is(err, repository.ErrMenuNotFound) {
			return domain.AttendanceResult{}, ErrMenuNotFound
		}

		return domain.AttendanceResult{}, fmt.Errorf("s.menuRepo.FindByID -> %w", err)
	}
	if menu.SchoolID != student.SchoolID {
		return domain.AttendanceResult{}, ErrMenuNotFound
	}

	attendance.MarkedBy = marker.ID
	if attendance.Date.IsZero() {
		attendance.Date = menu.Date
	}

	created, err := s.repo.Create(ctx, attendance)
	if err != nil {
		if errors.Is(err, repository.ErrAttendanceExists) {
			return domain.AttendanceResult{}, ErrAttendanceExists
		}

		return domain.AttendanceResult{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	result := domain.AttendanceResult{Attendance: created}

	parentID, ok := s.resolveParent(ctx, student)
	if !ok {
		zap.L().Info("no parent resolved for attendance notification",
			zap.Uint("student_id", student.ID),
			zap.Uint("attendance_id", created.ID))

		return result, nil
	}

	if err = s.notifyParent(ctx, parentID, student, created); err != nil {
		zap.L().Error("failed to send attendance notification",
			zap.Uint("parent_id", parentID),
			zap.Uint("attendance_id", created.ID),
			zap.Error(err))

		return result, nil
	}

	result.NotificationSent = true

	return result, nil
}

// ListAttendance scopes like the sibling list endpoints: parents see only
// their own children's records, everyone else sees their school scope.
func (s *AttendanceService) ListAttendance(ctx context.Context, principal domain.User, scope domain.Scope, studentID, menuID *uint, date *time.Time) ([]domain.Attendance, error) {
	var studentIDs []uint
	if principal.Role == domain.RoleParent {
		parentID := principal.ID
		children, err := s.studentRepo.Find(ctx, nil, "", &parentID)
		if err != nil {
			return nil, fmt.Errorf("s.studentRepo.Find -> %w", err)
		}
		if len(children) == 0 {
			return []domain.Attendance{}, nil
		}
		studentIDs = make([]uint, 0, len(children))
		for _, child := range children {
			studentIDs = append(studentIDs, child.ID)
		}
	} else if !scope.All {
		if scope.IsEmpty() {
			return []domain.Attendance{}, nil
		}

		ids, err := s.studentRepo.FindIDsBySchools(ctx, scope.SchoolIDs)
		if err != nil {
			return nil, fmt.Errorf("s.studentRepo.FindIDsBySchools -> %w", err)
		}
		if len(ids) == 0 {
			return []domain.Attendance{}, nil
		}
		studentIDs = ids
	}

	if studentID != nil {
		if studentIDs != nil && !containsID(studentIDs, *studentID) {
			return []domain.Attendance{}, nil
		}
		studentIDs = []uint{*studentID}
	}

	records, err := s.repo.Find(ctx, studentIDs, menuID, date)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return records, nil
}

// resolveParent walks the fallback chain: the student's direct parent, else
// the payer of the most recent payment on the student's most recent
// subscription. Returns false when nobody can be resolved.
func (s *AttendanceService) resolveParent(ctx context.Context, student domain.Student) (uint, bool) {
	if student.ParentID != nil {
		return *student.ParentID, true
	}

	sub, err := s.subRepo.FindLatestByStudent(ctx, student.ID)
	if err != nil {
		return 0, false
	}

	payment, err := s.paymentRepo.FindLatestPayerBySubscription(ctx, sub.ID)
	if err != nil || payment.ParentID == nil {
		return 0, false
	}

	return *payment.ParentID, true
}

func (s *AttendanceService) notifyParent(ctx context.Context, parentID uint, student domain.Student, attendance domain.Attendance) error {
	day := attendance.Date.Format("2006-01-02")
	name := fmt.Sprintf("%v %v", student.FirstName, student.LastName)

	title := "Canteen attendance"
	message := fmt.Sprintf("%v was present at the canteen on %v.", name, day)
	if !attendance.Present {
		message = fmt.Sprintf("%v was absent from the canteen on %v.", name, day)
		if attendance.Justified && attendance.JustificationReason != "" {
			message = fmt.Sprintf("%v Reason: %v", message, attendance.JustificationReason)
		}
	}

	studentID := student.ID
	menuID := attendance.MenuID
	_, err := s.notificationRepo.Create(ctx, domain.Notification{
		UserID:    parentID,
		Title:     title,
		Message:   message,
		Type:      domain.NotificationTypeAttendance,
		StudentID: &studentID,
		MenuID:    &menuID,
	})

	return err
}
