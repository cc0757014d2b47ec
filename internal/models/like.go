package models

import (
	"time"
)

// Like represents a user's like on a post. A single row is both sides of the
// like relation: membership in the post's like set and in the user's
// liked-post index. The composite unique index makes concurrent toggles by
// the same user collapse into conflict-checked inserts and deletes.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"user_id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_user_post" json:"post_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post Post `gorm:"foreignKey:PostID" json:"post,omitempty"`
}
