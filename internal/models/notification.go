package models

import (
	"time"
)

// NotificationType enumerates interaction kinds that produce notifications.
type NotificationType string

const (
	NotificationTypeLike NotificationType = "like"
)

// Notification is an ephemeral, one-way interaction record. It is appended as
// a side effect of a like and is read and deleted only by its recipient.
// There is no update operation and no deduplication.
type Notification struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	FromID    uint             `gorm:"not null;index" json:"from_id"`
	ToID      uint             `gorm:"not null;index" json:"to_id"`
	Type      NotificationType `gorm:"size:30;not null" json:"type"`
	CreatedAt time.Time        `json:"created_at"`

	From User `gorm:"foreignKey:FromID" json:"from,omitempty"`
}
