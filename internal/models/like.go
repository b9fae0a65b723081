package models

import (
	"time"
)

// Like is boolean engagement state: at most one row per (user, post).
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_like_user_post" json:"userId"`
	PostID    uint      `gorm:"not null;index;uniqueIndex:idx_like_user_post" json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}
