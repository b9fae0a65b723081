package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Content  string `gorm:"type:text;not null" json:"content"`
	MediaURL string `json:"mediaUrl,omitempty"` // optional
	AuthorID uint   `gorm:"not null;index" json:"authorId"`
	Author   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"author,omitempty"`
	ParentID *uint  `gorm:"index" json:"parentId"` // nullable, replies point at their parent
	Replies  []Post `gorm:"foreignKey:ParentID" json:"replies,omitempty"`
	Likes    []Like `gorm:"foreignKey:PostID" json:"likes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Filled by batched count queries, not stored.
	ReplyCount  int `gorm:"-" json:"replyCount"`
	LikeCount   int `gorm:"-" json:"likeCount"`
	RepostCount int `gorm:"-" json:"repostCount"`
}
