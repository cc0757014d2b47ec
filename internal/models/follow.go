package models

import (
	"time"
)

// Follow is a directed edge in the follow graph: FollowerID follows
// FolloweeID. The combination is unique; re-follows are no-ops.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee;index" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
