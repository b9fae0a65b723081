package models

import (
	"time"
)

// Repost mirrors Like's unique pair but carries its own CreatedAt, which is
// the timeline sort key for repost entries.
type Repost struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_repost_user_post" json:"userId"`
	User      *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_repost_user_post" json:"postId"`
	Post      *Post     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
