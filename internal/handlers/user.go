package handlers

import (
	"errors"
	"net/http"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/store"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	store store.Store
}

func NewUserHandler(s store.Store) *UserHandler {
	return &UserHandler{store: s}
}

// Find handles GET /api/users/find: the authenticated caller's own record.
func (h *UserHandler) Find(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	user, err := h.store.UserByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした"})
			return
		}
		serverError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"username": user.Username,
		},
	})
}

// Profile handles GET /api/users/profile/:userId.
func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "プロフィールが見つかりませんでした。"})
		return
	}

	profile, err := h.store.ProfileByUserID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "プロフィールが見つかりませんでした。"})
			return
		}
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, profile)
}

type editProfileRequest struct {
	Username        string `json:"username"`
	Bio             string `json:"bio"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// EditProfile handles PUT /api/users/profile/edit.
func (h *UserHandler) EditProfile(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req editProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	profile, err := h.store.UpdateProfile(userID, req.Username, req.Bio, req.ProfileImageURL)
	if err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// FollowCount handles GET /api/users/follow_count/:userId. The relationship
// flags are only meaningful with an authenticated viewer, so they are added
// just when one is present.
func (h *UserHandler) FollowCount(c *gin.Context) {
	profileUserID, ok := parseUintParam(c, "userId")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした。"})
		return
	}

	if _, err := h.store.UserByID(profileUserID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした。"})
			return
		}
		serverError(c)
		return
	}

	following, followers, err := h.store.FollowCounts(profileUserID)
	if err != nil {
		serverError(c)
		return
	}

	resp := gin.H{
		"followingCount": following,
		"followersCount": followers,
	}

	if viewerID, authed := middleware.CurrentUserID(c); authed {
		isFollowing, err := h.store.FollowExists(viewerID, profileUserID)
		if err != nil {
			serverError(c)
			return
		}
		isFollowed, err := h.store.FollowExists(profileUserID, viewerID)
		if err != nil {
			serverError(c)
			return
		}
		resp["isFollowing"] = isFollowing
		resp["isFollowed"] = isFollowed
		resp["isOwnProfile"] = viewerID == profileUserID
	}

	c.JSON(http.StatusOK, resp)
}

type followRequest struct {
	FollowingUserID uint `json:"followingUserId"`
}

// Follow handles POST /api/users/follow. Re-following is a no-op, not an
// error; following yourself is refused.
func (h *UserHandler) Follow(c *gin.Context) {
	followerID, _ := middleware.CurrentUserID(c)

	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	if req.FollowingUserID == followerID {
		c.JSON(http.StatusBadRequest, gin.H{"message": "自分をフォローすることはできません。"})
		return
	}

	if _, err := h.store.UserByID(followerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした。"})
		return
	}
	if _, err := h.store.UserByID(req.FollowingUserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした。"})
		return
	}

	exists, err := h.store.FollowExists(followerID, req.FollowingUserID)
	if err != nil {
		serverError(c)
		return
	}
	if exists {
		c.JSON(http.StatusOK, gin.H{"message": "既にフォローしています。"})
		return
	}

	follow := models.Follow{FollowerID: followerID, FollowingID: req.FollowingUserID}
	if err := h.store.CreateFollow(&follow); err != nil {
		if errors.Is(err, store.ErrConflict) {
			// A concurrent follow for the same edge got there first.
			c.JSON(http.StatusOK, gin.H{"message": "既にフォローしています。"})
			return
		}
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "フォローしました。"})
}

// Unfollow handles POST /api/users/unfollow. Removing an absent edge is a
// no-op 200 as well.
func (h *UserHandler) Unfollow(c *gin.Context) {
	followerID, _ := middleware.CurrentUserID(c)

	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	if _, err := h.store.UserByID(req.FollowingUserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "ユーザーが見つかりませんでした。"})
		return
	}

	exists, err := h.store.FollowExists(followerID, req.FollowingUserID)
	if err != nil {
		serverError(c)
		return
	}
	if !exists {
		c.JSON(http.StatusOK, gin.H{"message": "フォローしていません。"})
		return
	}

	if err := h.store.DeleteFollow(followerID, req.FollowingUserID); err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "フォロー解除しました。"})
}

// IsFollowing handles GET /api/users/is-following/:followerId/:followingId.
func (h *UserHandler) IsFollowing(c *gin.Context) {
	followerID, ok1 := parseUintParam(c, "followerId")
	followingID, ok2 := parseUintParam(c, "followingId")
	if !ok1 || !ok2 {
		serverError(c)
		return
	}

	exists, err := h.store.FollowExists(followerID, followingID)
	if err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isFollowing": exists})
}
