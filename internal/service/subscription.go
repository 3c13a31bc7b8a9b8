package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error)
	FindByID(ctx context.Context, id uint) (domain.Subscription, error)
	Find(ctx context.Context, studentIDs []uint, status string) ([]domain.Subscription, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

type SubscriptionStudentRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Student, error)
	Find(ctx context.Context, schoolIDs []uint, className string, parentID *uint) ([]domain.Student, error)
	FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error)
}

type SubscriptionPaymentCounter interface {
	CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error)
}

type SubscriptionService struct {
	repo        SubscriptionRepository
	studentRepo SubscriptionStudentRepository
	payments    SubscriptionPaymentCounter
}

func NewSubscriptionService(repo SubscriptionRepository, studentRepo SubscriptionStudentRepository, payments SubscriptionPaymentCounter) *SubscriptionService {
	return &SubscriptionService{
		repo:        repo,
		studentRepo: studentRepo,
		payments:    payments,
	}
}

// CreateSubscription starts a subscription awaiting its first payment. A
// parent may only subscribe a student they have claimed.
func (s *SubscriptionService) CreateSubscription(ctx context.Context, sub domain.Subscription, creator domain.User) (domain.Subscription, error) {
	student, err := s.studentRepo.FindByID(ctx, sub.StudentID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return domain.Subscription{}, ErrStudentNotFound
		}

		return domain.Subscription{}, fmt.Errorf("s.studentRepo.FindByID -> %w", err)
	}

	if creator.Role == domain.RoleParent {
		if student.ParentID == nil || *student.ParentID != creator.ID {
			return domain.Subscription{}, ErrNotParentOfStudent
		}
	}

	sub.Status = domain.SubscriptionStatusPendingPayment

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SubscriptionService) GetSubscription(ctx context.Context, id uint, principal domain.User, scope domain.Scope) (domain.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	student, err := s.studentRepo.FindByID(ctx, sub.StudentID)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("s.studentRepo.FindByID -> %w", err)
	}

	if principal.Role == domain.RoleParent {
		if student.ParentID == nil || *student.ParentID != principal.ID {
			return domain.Subscription{}, ErrNotParentOfStudent
		}
	} else if !scope.Contains(student.SchoolID) {
		return domain.Subscription{}, ErrSubscriptionNotFound
	}

	return sub, nil
}

func (s *SubscriptionService) ListSubscriptions(ctx context.Context, principal domain.User, scope domain.Scope, studentID *uint, status string) ([]domain.Subscription, error) {
	studentIDs, restricted, err := s.visibleStudentIDs(ctx, principal, scope)
	if err != nil {
		return nil, err
	}
	if restricted && len(studentIDs) == 0 {
		return []domain.Subscription{}, nil
	}

	if studentID != nil {
		if restricted && !containsID(studentIDs, *studentID) {
			return []domain.Subscription{}, nil
		}
		studentIDs = []uint{*studentID}
	}

	subs, err := s.repo.Find(ctx, studentIDs, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return subs, nil
}

// OverrideStatus is the manual escape hatch; everything else derives the
// status from the payment flow.
func (s *SubscriptionService) OverrideStatus(ctx context.Context, id uint, status string) (domain.Subscription, error) {
	switch status {
	case domain.SubscriptionStatusActive,
		domain.SubscriptionStatusPendingPayment,
		domain.SubscriptionStatusExpired,
		domain.SubscriptionStatusSuspended,
		domain.SubscriptionStatusCancelled:
	default:
		return domain.Subscription{}, ErrInvalidSubscriptionState
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return domain.Subscription{}, fmt.Errorf("s.repo.UpdateStatus -> %w", err)
	}

	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return sub, nil
}

// DeleteSubscription refuses while any payment still references the
// subscription. Referential guard, not a cascade.
func (s *SubscriptionService) DeleteSubscription(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	count, err := s.payments.CountBySubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("s.payments.CountBySubscription -> %w", err)
	}
	if count > 0 {
		return ErrSubscriptionHasPayments
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

// visibleStudentIDs returns the students a principal may see subscriptions
// for, and whether that list actually restricts the query (a super admin's
// does not).
func (s *SubscriptionService) visibleStudentIDs(ctx context.Context, principal domain.User, scope domain.Scope) ([]uint, bool, error) {
	if principal.Role == domain.RoleParent {
		parentID := principal.ID
		students, err := s.studentRepo.Find(ctx, nil, "", &parentID)
		if err != nil {
			return nil, true, fmt.Errorf("s.studentRepo.Find -> %w", err)
		}

		ids := make([]uint, 0, len(students))
		for _, st := range students {
			ids = append(ids, st.ID)
		}

		return ids, true, nil
	}

	if scope.All {
		return nil, false, nil
	}
	if scope.IsEmpty() {
		return []uint{}, true, nil
	}

	ids, err := s.studentRepo.FindIDsBySchools(ctx, scope.SchoolIDs)
	if err != nil {
		return nil, true, fmt.Errorf("s.studentRepo.FindIDsBySchools -> %w", err)
	}

	return ids, true, nil
}

func containsID(ids []uint, id uint) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}

	return false
}
