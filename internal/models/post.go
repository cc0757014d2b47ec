package models

import (
	"time"

	"gorm.io/gorm"
)

// Post represents a post in the Plume application. A post must carry text,
// a media reference, or both; the service layer enforces that at creation.
type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`
	Text     string `gorm:"type:text" json:"text"`
	MediaURL string `json:"media_url,omitempty"`
	// Comments are returned in insertion order.
	Comments []Comment `gorm:"foreignKey:PostID" json:"comments"`
	// LikesCount is not persisted; computed at query time
	LikesCount int `gorm:"->" json:"likes_count"`
	// Liked indicates whether the current requesting user liked this post (computed)
	Liked     bool           `gorm:"->" json:"liked"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
