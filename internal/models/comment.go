package models

import (
	"time"

	"gorm.io/gorm"
)

// Comment represents a comment on a post. Only the comment's own author may
// remove it; ownership of the parent post grants no rights over it.
type Comment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Text      string         `gorm:"not null" json:"text"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	PostID    uint           `gorm:"not null;index" json:"post_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
