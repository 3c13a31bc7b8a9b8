package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dabali-bf/canteen-api/internal/domain"
)

type ReportStudentRepository interface {
	Count(ctx context.Context, schoolIDs []uint) (int64, error)
	FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error)
}

type ReportSubscriptionRepository interface {
	CountActive(ctx context.Context, studentIDs []uint) (int64, error)
	FindIDsByStudents(ctx context.Context, studentIDs []uint) ([]uint, error)
}

type ReportPaymentRepository interface {
	Count(ctx context.Context, subscriptionIDs []uint) (int64, error)
	SumCompletedBetween(ctx context.Context, subscriptionIDs []uint, from, to time.Time) (float64, error)
}

type ReportAttendanceRepository interface {
	Count(ctx context.Context, studentIDs []uint) (int64, error)
	CountForDay(ctx context.Context, studentIDs []uint, day time.Time) (int64, error)
}

// ReportService computes live dashboard snapshots; there is no cache.
type ReportService struct {
	studentRepo    ReportStudentRepository
	subRepo        ReportSubscriptionRepository
	paymentRepo    ReportPaymentRepository
	attendanceRepo ReportAttendanceRepository
}

func NewReportService(
	studentRepo ReportStudentRepository,
	subRepo ReportSubscriptionRepository,
	paymentRepo ReportPaymentRepository,
	attendanceRepo ReportAttendanceRepository,
) *ReportService {
	return &ReportService{
		studentRepo:    studentRepo,
		subRepo:        subRepo,
		paymentRepo:    paymentRepo,
		attendanceRepo: attendanceRepo,
	}
}

// Dashboard aggregates counts and the current month's payment total. The
// statistics are independent reads and are fetched concurrently. Payments and
// attendance carry no school_id, so a school scope resolves student and
// subscription IDs first and filters indirectly through them.
func (s *ReportService) Dashboard(ctx context.Context, scope domain.Scope) (domain.DashboardStats, error) {
	now := time.Now()

	var (
		studentIDs      []uint
		subscriptionIDs []uint
		schoolIDs       []uint
	)
	if !scope.All {
		if scope.IsEmpty() {
			return domain.DashboardStats{LastUpdated: now}, nil
		}
		schoolIDs = scope.SchoolIDs

		var err error
		studentIDs, err = s.studentRepo.FindIDsBySchools(ctx, schoolIDs)
		if err != nil {
			return domain.DashboardStats{}, fmt.Errorf("s.studentRepo.FindIDsBySchools -> %w", err)
		}
		if len(studentIDs) == 0 {
			return domain.DashboardStats{LastUpdated: now}, nil
		}

		subscriptionIDs, err = s.subRepo.FindIDsByStudents(ctx, studentIDs)
		if err != nil {
			return domain.DashboardStats{}, fmt.Errorf("s.subRepo.FindIDsByStudents -> %w", err)
		}
		if len(subscriptionIDs) == 0 {
			subscriptionIDs = []uint{0}
		}
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	nextMonth := monthStart.AddDate(0, 1, 0)

	stats := domain.DashboardStats{LastUpdated: now}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.studentRepo.Count(gctx, schoolIDs)
		if err != nil {
			return fmt.Errorf("s.studentRepo.Count -> %w", err)
		}
		stats.TotalStudents = count

		return nil
	})

	g.Go(func() error {
		count, err := s.paymentRepo.Count(gctx, subscriptionIDs)
		if err != nil {
			return fmt.Errorf("s.paymentRepo.Count -> %w", err)
		}
		stats.TotalPayments = count

		return nil
	})

	g.Go(func() error {
		count, err := s.attendanceRepo.Count(gctx, studentIDs)
		if err != nil {
			return fmt.Errorf("s.attendanceRepo.Count -> %w", err)
		}
		stats.TotalAttendance = count

		return nil
	})

	g.Go(func() error {
		count, err := s.subRepo.CountActive(gctx, studentIDs)
		if err != nil {
			return fmt.Errorf("s.subRepo.CountActive -> %w", err)
		}
		stats.ActiveSubscriptions = count

		return nil
	})

	g.Go(func() error {
		count, err := s.attendanceRepo.CountForDay(gctx, studentIDs, now)
		if err != nil {
			return fmt.Errorf("s.attendanceRepo.CountForDay -> %w", err)
		}
		stats.TodayAttendance = count

		return nil
	})

	g.Go(func() error {
		total, err := s.paymentRepo.SumCompletedBetween(gctx, subscriptionIDs, monthStart, nextMonth)
		if err != nil {
			return fmt.Errorf("s.paymentRepo.SumCompletedBetween -> %w", err)
		}
		stats.MonthPaymentTotal = total

		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, err
	}

	return stats, nil
}
