package service

import (
	"context"
	"fmt"

	"github.com/dabali-bf/canteen-api/internal/domain"
)

type NotificationRepository interface {
	FindByUser(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	MarkAllRead(ctx context.Context, userID uint) error
}

type NotificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID uint, unreadOnly bool) ([]domain.Notification, error) {
	notifications, err := s.repo.FindByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByUser -> %w", err)
	}

	return notifications, nil
}

// MarkRead flags one of the caller's notifications as read. Another user's
// notification reads as not found.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID uint) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if isNotFound(err) {
			return ErrNotificationNotFound
		}

		return fmt.Errorf("s.repo.MarkRead -> %w", err)
	}

	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.MarkAllRead -> %w", err)
	}

	return nil
}
