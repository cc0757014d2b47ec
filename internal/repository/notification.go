package repository

import (
	"context"
	"errors"

	"plume/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository defines persistence operations for notifications.
// Creation is a pure append: no deduplication, no rate limiting.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetByID(ctx context.Context, id uint) (*models.Notification, error)
	// ListForUser returns notifications addressed to the user in storage order.
	ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error)
	DeleteAllForUser(ctx context.Context, userID uint) error
	Delete(ctx context.Context, id uint) error
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository returns a new NotificationRepository implementation.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.WithContext(ctx).First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Notification", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &notification, nil
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID uint) ([]*models.Notification, error) {
	var notifications []*models.Notification
	if err := r.db.WithContext(ctx).
		Preload("From").
		Where("to_id = ?", userID).
		Order("id ASC").
		Find(&notifications).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return notifications, nil
}

func (r *notificationRepository) DeleteAllForUser(ctx context.Context, userID uint) error {
	if err := r.db.WithContext(ctx).
		Where("to_id = ?", userID).
		Delete(&models.Notification{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Notification{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
