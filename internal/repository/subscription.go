package repository

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var ErrSubscriptionNotFound = dao.ErrSubscriptionNotFound

type SubscriptionDAO interface {
	Insert(ctx context.Context, sub dao.Subscription) (dao.Subscription, error)
	FindByID(ctx context.Context, id uint) (dao.Subscription, error)
	Find(ctx context.Context, filter dao.SubscriptionFilter) ([]dao.Subscription, error)
	FindLatestByStudent(ctx context.Context, studentID uint) (dao.Subscription, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	FindIDsByStudents(ctx context.Context, studentIDs []uint) ([]uint, error)
	CountActive(ctx context.Context, studentIDs []uint) (int64, error)
}

type SubscriptionRepository struct {
	dao SubscriptionDAO
}

func NewSubscriptionRepository(dao SubscriptionDAO) *SubscriptionRepository {
	return &SubscriptionRepository{
		dao: dao,
	}
}

func (r *SubscriptionRepository) Create(ctx context.Context, sub domain.Subscription) (domain.Subscription, error) {
	created, err := r.dao.Insert(ctx, dao.Subscription{
		StudentID: sub.StudentID,
		StartDate: sub.StartDate,
		EndDate:   sub.EndDate,
		MealPlan:  sub.MealPlan,
		Price:     sub.Price,
		Status:    sub.Status,
	})
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SubscriptionRepository) FindByID(ctx context.Context, id uint) (domain.Subscription, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubscriptionRepository) Find(ctx context.Context, studentIDs []uint, status string) ([]domain.Subscription, error) {
	found, err := r.dao.Find(ctx, dao.SubscriptionFilter{
		StudentIDs: studentIDs,
		Status:     status,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.Find -> %w", err)
	}

	subs := make([]domain.Subscription, 0, len(found))
	for _, s := range found {
		subs = append(subs, r.daoToDomain(s))
	}

	return subs, nil
}

func (r *SubscriptionRepository) FindLatestByStudent(ctx context.Context, studentID uint) (domain.Subscription, error) {
	found, err := r.dao.FindLatestByStudent(ctx, studentID)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("r.dao.FindLatestByStudent -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	if err := r.dao.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("r.dao.UpdateStatus -> %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *SubscriptionRepository) FindIDsByStudents(ctx context.Context, studentIDs []uint) ([]uint, error) {
	ids, err := r.dao.FindIDsByStudents(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindIDsByStudents -> %w", err)
	}

	return ids, nil
}

func (r *SubscriptionRepository) CountActive(ctx context.Context, studentIDs []uint) (int64, error) {
	count, err := r.dao.CountActive(ctx, studentIDs)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountActive -> %w", err)
	}

	return count, nil
}

func (r *SubscriptionRepository) daoToDomain(s dao.Subscription) domain.Subscription {
	return domain.Subscription{
		ID:        s.ID,
		StudentID: s.StudentID,
		StartDate: s.StartDate,
		EndDate:   s.EndDate,
		MealPlan:  s.MealPlan,
		Price:     s.Price,
		Status:    s.Status,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
