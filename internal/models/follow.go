package models

import (
	"time"
)

// Follow is a directed edge: follower watches following.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FollowerID  uint      `gorm:"not null;index;uniqueIndex:idx_follow_edge" json:"followerId"`
	FollowingID uint      `gorm:"not null;index;uniqueIndex:idx_follow_edge" json:"followingId"`
	CreatedAt   time.Time `json:"createdAt"`
}
