package repository

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
	"github.com/dabali-bf/canteen-api/internal/repository/dao"
)

var ErrNotificationNotFound = dao.ErrNotificationNotFound

type NotificationDAO interface {
	Insert(ctx context.Context, notification dao.Notification) (dao.Notification, error)
	FindByUser(ctx context.Context, userID uint, unreadOnly bool) ([]dao.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type NotificationRepository struct {
	dao NotificationDAO
}

func NewNotificationRepository(dao NotificationDAO) *NotificationRepository {
	return &NotificationRepository{
		dao: dao,
	}
}

func (r *NotificationRepository) Create(ctx context.Context, notification domain.Notification) (domain.Notification, error) {
	created, err := r.dao.Insert(ctx, dao.Notification{
		UserID:    notification.UserID,
		Title:     notification.Title,
		Message:   notification.Message,
		Type:      notification.Type,
		StudentID: notification.StudentID,
		MenuID:    notification.MenuID,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	found, err := r.dao.FindByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByUser -> %w", err)
	}

	notifications := make([]domain.Notification, 0, len(found))
	for _, n := range found {
		notifications = append(notifications, r.daoToDomain(n))
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	if err := r.dao.MarkRead(ctx, id, userID); err != nil {
		return fmt.Errorf("r.dao.MarkRead -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) error {
	if err := r.dao.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.MarkAllRead -> %w", err)
	}

	return nil
}

func (r *NotificationRepository) daoToDomain(n dao.Notification) domain.Notification {
	return domain.Notification{
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		StudentID: n.StudentID,
		MenuID:    n.MenuID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
