package service

import (
	"context"

	"plume/internal/middleware"
	"plume/internal/models"
	"plume/internal/repository"
)

// NotificationService mediates the recipient-scoped notification inbox.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationService(notificationRepo repository.NotificationRepository) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo}
}

// Emit appends a notification record. There is no deduplication and no
// throttling; every call produces a row.
func (s *NotificationService) Emit(ctx context.Context, fromID, toID uint, typ models.NotificationType) error {
	if err := s.notificationRepo.Create(ctx, &models.Notification{
		FromID: fromID,
		ToID:   toID,
		Type:   typ,
	}); err != nil {
		return err
	}
	middleware.NotificationsEmitted.WithLabelValues(string(typ)).Inc()
	return nil
}

// ListForUser returns the user's notifications in storage order.
func (s *NotificationService) ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID)
}

// DeleteAllForUser clears the user's inbox.
func (s *NotificationService) DeleteAllForUser(ctx context.Context, userID uint) error {
	return s.notificationRepo.DeleteAllForUser(ctx, userID)
}

// DeleteOneForUser deletes a single notification. Only the recipient may
// delete it.
func (s *NotificationService) DeleteOneForUser(ctx context.Context, userID, notificationID uint) error {
	notification, err := s.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.ToID != userID {
		return models.NewUnauthorizedError("You can only delete your own notifications")
	}
	return s.notificationRepo.Delete(ctx, notificationID)
}
