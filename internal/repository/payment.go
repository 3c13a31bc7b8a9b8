package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var ErrPaymentNotFound = dao.ErrPaymentNotFound

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByID(ctx context.Context, id uint) (dao.Payment, error)
	Find(ctx context.Context, filter dao.PaymentFilter) ([]dao.Payment, error)
	Update(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error)
	FindLatestPayerBySubscription(ctx context.Context, subscriptionID uint) (dao.Payment, error)
	Count(ctx context.Context, subscriptionIDs []uint) (int64, error)
	SumCompletedBetween(ctx context.Context, subscriptionIDs []uint, from, to time.Time) (float64, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, r.domainToDAO(payment))
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id uint) (domain.Payment, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) Find(ctx context.Context, subscriptionIDs []uint, parentID *uint, status string) ([]domain.Payment, error) {
	found, err := r.dao.Find(ctx, dao.PaymentFilter{
		SubscriptionIDs: subscriptionIDs,
		ParentID:        parentID,
		Status:          status,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	payments := make([]domain.Payment, 0, len(found))
	for _, p := range found {
		payments = append(payments, r.daoToDomain(p))
	}

	return payments, nil
}

func (r *PaymentRepository) Update(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	toUpdate := r.domainToDAO(payment)
	toUpdate.ID = payment.ID
	toUpdate.CreatedAt = payment.CreatedAt

	updated, err := r.dao.Update(ctx, toUpdate)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PaymentRepository) CountBySubscription(ctx context.Context, subscriptionID uint) (int64, error) {
	count, err := r.dao.CountBySubscription(ctx, subscriptionID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountBySubscription -> %w", err)
	}

	return count, nil
}

func (r *PaymentRepository) FindLatestPayerBySubscription(ctx context.Context, subscriptionID uint) (domain.Payment, error) {
	found, err := r.dao.FindLatestPayerBySubscription(ctx, subscriptionID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindLatestPayerBySubscription -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) Count(ctx context.Context, subscriptionIDs []uint) (int64, error) {
	count, err := r.dao.Count(ctx, subscriptionIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.Count -> %w", err)
	}

	return count, nil
}

func (r *PaymentRepository) SumCompletedBetween(ctx context.Context, subscriptionIDs []uint, from, to time.Time) (float64, error) {
	total, err := r.dao.SumCompletedBetween(ctx, subscriptionIDs, from, to)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumCompletedBetween -> %w", err)
	}

	return total, nil
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:               p.ID,
		SubscriptionID:   p.SubscriptionID,
		ParentID:         p.ParentID,
		Amount:           p.Amount,
		Method:           p.Method,
		Status:           p.Status,
		VerificationCode: p.VerificationCode,
		PaidAt:           p.PaidAt,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *PaymentRepository) domainToDAO(p domain.Payment) dao.Payment {
	return dao.Payment{
		SubscriptionID:   p.SubscriptionID,
		ParentID:         p.ParentID,
		Amount:           p.Amount,
		Method:           p.Method,
		Status:           p.Status,
		VerificationCode: p.VerificationCode,
		PaidAt:           p.PaidAt,
	}
}
