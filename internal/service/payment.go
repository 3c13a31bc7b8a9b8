package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/pkg/credgen"
	"github.com/dabali-bf/canteen-api/internal/repository"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByID(ctx context.Context, id uint) (domain.Payment, error)
	Find(ctx context.Context, subscriptionIDs []uint, parentID *uint, status string) ([]domain.Payment, error)
	Update(ctx context.Context, payment domain.Payment) (domain.Payment, error)
}

type PaymentSubscriptionRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Subscription, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	FindIDsByStudents(ctx context.Context, studentIDs []uint) ([]uint, error)
}

type PaymentStudentRepository interface {
	FindIDsBySchools(ctx context.Context, schoolIDs []uint) ([]uint, error)
}

// PaymentService keeps a subscription's status consistent with its payments'
// validation state.
type PaymentService struct {
	repo        PaymentRepository
	subRepo     PaymentSubscriptionRepository
	studentRepo PaymentStudentRepository
	creds       credgen.Generator
}

func NewPaymentService(repo PaymentRepository, subRepo PaymentSubscriptionRepository, studentRepo PaymentStudentRepository, creds credgen.Generator) *PaymentService {
	return &PaymentService{
		repo:        repo,
		subRepo:     subRepo,
		studentRepo: studentRepo,
		creds:       creds,
	}
}

// CreatePayment records a payment. Cash completes instantly; mobile-money
// methods wait for admin validation behind a 4-digit verification code.
// The owning subscription's status is recomputed either way.
func (s *PaymentService) CreatePayment(ctx context.Context, subscriptionID uint, amount float64, method string, payer domain.User) (domain.Payment, error) {
	if _, err := s.subRepo.FindByID(ctx, subscriptionID); err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return domain.Payment{}, ErrSubscriptionNotFound
		}

		return domain.Payment{}, fmt.Errorf("s.subRepo.FindByID -> %w", err)
	}

	payment := domain.Payment{
		SubscriptionID: subscriptionID,
		Amount:         amount,
		Method:         method,
	}
	if payer.Role == domain.RoleParent {
		parentID := payer.ID
		payment.ParentID = &parentID
	}

	switch method {
	case domain.PaymentMethodCash:
		now := time.Now()
		payment.Status = domain.PaymentStatusCompleted
		payment.PaidAt = &now

	case domain.PaymentMethodOrangeMoney, domain.PaymentMethodMoovMoney:
		code, err := s.creds.VerificationCode()
		if err != nil {
			return domain.Payment{}, fmt.Errorf("s.creds.VerificationCode -> %w", err)
		}
		payment.Status = domain.PaymentStatusWaitingAdminValidation
		payment.VerificationCode = &code

	default:
		return domain.Payment{}, ErrInvalidPaymentMethod
	}

	created, err := s.repo.Create(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	if err = s.resyncSubscription(ctx, created); err != nil {
		return domain.Payment{}, err
	}

	return created, nil
}

// VerifyPayment settles a payment to COMPLETED or FAILED. A supplied code
// must match exactly for non-cash methods; an absent code passes through,
// which is the admin-override path. Only admin callers resync the owning
// subscription; a parent confirming their own payment marks the payment only.
func (s *PaymentService) VerifyPayment(ctx context.Context, paymentID uint, rawStatus string, code *string, caller domain.User) (domain.Payment, error) {
	status, err := normalizePaymentOutcome(rawStatus)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if payment.Method != domain.PaymentMethodCash && code != nil {
		if payment.VerificationCode == nil || *code != *payment.VerificationCode {
			return domain.Payment{}, ErrWrongVerificationCode
		}
	}

	payment.Status = status
	if status == domain.PaymentStatusCompleted && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}

	updated, err := s.repo.Update(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if caller.IsAdminRole() {
		if err = s.resyncSubscription(ctx, updated); err != nil {
			return domain.Payment{}, err
		}
	}

	return updated, nil
}

// ValidatePayment is the admin-only settlement path; it always resyncs.
func (s *PaymentService) ValidatePayment(ctx context.Context, paymentID uint, rawStatus string) (domain.Payment, error) {
	status, err := normalizePaymentOutcome(rawStatus)
	if err != nil {
		return domain.Payment{}, err
	}

	payment, err := s.repo.FindByID(ctx, paymentID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	switch payment.Status {
	case domain.PaymentStatusWaitingAdminValidation,
		domain.PaymentStatusPending,
		domain.PaymentStatusCompleted,
		domain.PaymentStatusFailed:
	default:
		return domain.Payment{}, ErrInvalidPaymentStatus
	}

	payment.Status = status
	if status == domain.PaymentStatusCompleted && payment.PaidAt == nil {
		now := time.Now()
		payment.PaidAt = &now
	}

	updated, err := s.repo.Update(ctx, payment)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	if err = s.resyncSubscription(ctx, updated); err != nil {
		return domain.Payment{}, err
	}

	return updated, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint, principal domain.User) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if principal.Role == domain.RoleParent {
		if payment.ParentID == nil || *payment.ParentID != principal.ID {
			return domain.Payment{}, ErrPaymentNotFound
		}
	}

	return payment, nil
}

// ListPayments scopes indirectly: payments carry no school_id, so a school
// filter resolves the school's students, then their subscriptions.
func (s *PaymentService) ListPayments(ctx context.Context, principal domain.User, scope domain.Scope, status string) ([]domain.Payment, error) {
	if principal.Role == domain.RoleParent {
		parentID := principal.ID
		payments, err := s.repo.Find(ctx, nil, &parentID, status)
		if err != nil {
			return nil, fmt.Errorf("s.repo.Find -> %w", err)
		}

		return payments, nil
	}

	var subscriptionIDs []uint
	if !scope.All {
		if scope.IsEmpty() {
			return []domain.Payment{}, nil
		}

		studentIDs, err := s.studentRepo.FindIDsBySchools(ctx, scope.SchoolIDs)
		if err != nil {
			return nil, fmt.Errorf("s.studentRepo.FindIDsBySchools -> %w", err)
		}
		if len(studentIDs) == 0 {
			return []domain.Payment{}, nil
		}

		subscriptionIDs, err = s.subRepo.FindIDsByStudents(ctx, studentIDs)
		if err != nil {
			return nil, fmt.Errorf("s.subRepo.FindIDsByStudents -> %w", err)
		}
		if len(subscriptionIDs) == 0 {
			return []domain.Payment{}, nil
		}
	}

	payments, err := s.repo.Find(ctx, subscriptionIDs, nil, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.Find -> %w", err)
	}

	return payments, nil
}

// resyncSubscription recomputes the owning subscription's status from the
// payment's validation outcome. Identical whether triggered by creation,
// verification or admin validation, and safe to re-run.
func (s *PaymentService) resyncSubscription(ctx context.Context, payment domain.Payment) error {
	status := domain.SubscriptionStatusPendingPayment
	if payment.Status == domain.PaymentStatusCompleted {
		status = domain.SubscriptionStatusActive
	}

	if err := s.subRepo.UpdateStatus(ctx, payment.SubscriptionID, status); err != nil {
		return fmt.Errorf("s.subRepo.UpdateStatus -> %w", err)
	}

	return nil
}

// normalizePaymentOutcome maps caller-supplied status strings onto exactly
// {COMPLETED, FAILED}; anything else is rejected.
func normalizePaymentOutcome(raw string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case domain.PaymentStatusCompleted:
		return domain.PaymentStatusCompleted, nil
	case domain.PaymentStatusFailed:
		return domain.PaymentStatusFailed, nil
	}

	return "", ErrInvalidPaymentStatus
}
