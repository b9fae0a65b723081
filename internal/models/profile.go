package models

import (
	"time"
)

// Profile is created together with its User at registration and stays 1:1.
type Profile struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"uniqueIndex;not null" json:"userId"`
	User            *User     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user,omitempty"`
	Bio             string    `gorm:"size:200" json:"bio"`
	ProfileImageURL string    `gorm:"type:text" json:"profileImageUrl"` // identicon data URI by default
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
