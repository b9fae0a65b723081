package store

import (
	"errors"

	"chirp/internal/models"
)

var (
	// ErrNotFound means the referenced row does not exist.
	ErrNotFound = errors.New("store: record not found")
	// ErrConflict means a uniqueness constraint rejected the write.
	ErrConflict = errors.New("store: duplicate record")
)

// Store is the database handle handed to handlers. It exists so tests can
// substitute the in-memory implementation for the GORM one.
type Store interface {
	// Users and profiles.
	CreateUserWithProfile(user *models.User) error
	UserByID(id uint) (*models.User, error)
	UserByEmail(email string) (*models.User, error)
	ProfileByUserID(userID uint) (*models.Profile, error)
	UpdateProfile(userID uint, username, bio, imageURL string) (*models.Profile, error)

	// Posts.
	CreatePost(post *models.Post) error
	PostByID(id uint) (*models.Post, error)
	PostsByAuthor(authorID uint, limit int) ([]models.Post, error)
	DeletePost(postID, authorID uint, content string) (*models.Post, error)

	// Timeline fetches. authorIDs/userIDs nil means no filter (global feed);
	// results are hydrated with authors, profiles, replies and likes, and
	// the posts carry filled reply/like/repost counts.
	LatestPosts(limit int, authorIDs []uint) ([]models.Post, error)
	LatestReposts(limit int, userIDs []uint) ([]models.Repost, error)

	// Engagement.
	LikeByUserAndPost(userID, postID uint) (*models.Like, error)
	CreateLike(like *models.Like) error
	DeleteLike(userID, postID uint) error
	RepostByUserAndPost(userID, postID uint) (*models.Repost, error)
	CreateRepost(repost *models.Repost) error
	DeleteRepost(userID, postID uint) error
	RepostByID(id uint) (*models.Repost, error)
	LikesForPosts(userID uint, postIDs []uint) ([]models.Like, error)
	RepostsForPosts(userID uint, postIDs []uint) ([]models.Repost, error)
	PostsWithCounts(postIDs []uint) ([]models.Post, error)

	// Follow graph.
	FollowExists(followerID, followingID uint) (bool, error)
	CreateFollow(follow *models.Follow) error
	DeleteFollow(followerID, followingID uint) error
	FollowingIDs(userID uint) ([]uint, error)
	FollowCounts(userID uint) (following int64, followers int64, err error)
}
