package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/store"
	"chirp/internal/timeline"

	"github.com/gin-gonic/gin"
)

// defaultTimelineLimit bounds each of the two feed fetches when the client
// does not pass ?length=. The merged result may still exceed it.
const defaultTimelineLimit = 20

const userPostsLimit = 10

type PostHandler struct {
	store    store.Store
	timeline *timeline.Assembler
}

func NewPostHandler(s store.Store) *PostHandler {
	return &PostHandler{
		store:    s,
		timeline: timeline.NewAssembler(s),
	}
}

type createPostRequest struct {
	Content  string `json:"content"`
	MediaURL string `json:"mediaUrl"`
}

// Create handles POST /api/posts/post.
func (h *PostHandler) Create(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "投稿内容がありません"})
		return
	}

	post := models.Post{
		Content:  req.Content,
		MediaURL: req.MediaURL,
		AuthorID: userID,
	}
	if err := h.store.CreatePost(&post); err != nil {
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, timeline.Entry{
		Type:      timeline.KindPost,
		CreatedAt: post.CreatedAt,
		Post:      post,
	})
}

// Reply handles POST /api/posts/reply/:parentId.
func (h *PostHandler) Reply(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	parentID, ok := parseUintParam(c, "parentId")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "投稿内容がありません"})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "投稿内容がありません"})
		return
	}

	post := models.Post{
		Content:  req.Content,
		AuthorID: userID,
		ParentID: &parentID,
	}
	if err := h.store.CreatePost(&post); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "親ポストが見つかりませんでした"})
			return
		}
		serverError(c)
		return
	}

	c.JSON(http.StatusCreated, timeline.Entry{
		Type:      timeline.KindPost,
		CreatedAt: post.CreatedAt,
		Post:      post,
	})
}

// Parent handles GET /api/posts/get_parent_post/:parentId.
func (h *PostHandler) Parent(c *gin.Context) {
	parentID, ok := parseUintParam(c, "parentId")
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "親ポストが見つかりませんでした"})
		return
	}

	post, err := h.store.PostByID(parentID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "親ポストが見つかりませんでした"})
			return
		}
		serverError(c)
		return
	}

	// Only what the reply context view needs; no email or timestamps
	// beyond the post's own.
	resp := gin.H{
		"id":        post.ID,
		"content":   post.Content,
		"createdAt": post.CreatedAt,
	}
	if post.Author != nil {
		author := gin.H{
			"id":       post.Author.ID,
			"username": post.Author.Username,
		}
		if post.Author.Profile != nil {
			author["profile"] = gin.H{
				"profileImageUrl": post.Author.Profile.ProfileImageURL,
			}
		}
		resp["author"] = author
	}
	c.JSON(http.StatusOK, resp)
}

func feedLimit(c *gin.Context) int {
	if v, err := strconv.Atoi(c.Query("length")); err == nil && v > 0 {
		return v
	}
	return defaultTimelineLimit
}

// Latest handles GET /api/posts/get_latest_post. Anonymous callers get the
// same global feed.
func (h *PostHandler) Latest(c *gin.Context) {
	entries, err := h.timeline.Latest(feedLimit(c))
	if err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// FollowingFeed handles GET /api/posts/get_following_post.
func (h *PostHandler) FollowingFeed(c *gin.Context) {
	userID, _ := middleware.CurrentUserID(c)

	entries, err := h.timeline.Following(userID, feedLimit(c))
	if err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// ByUser handles GET /api/posts/:userId.
func (h *PostHandler) ByUser(c *gin.Context) {
	userID, ok := parseUintParam(c, "userId")
	if !ok {
		serverError(c)
		return
	}

	posts, err := h.store.PostsByAuthor(userID, userPostsLimit)
	if err != nil {
		serverError(c)
		return
	}
	if posts == nil {
		posts = []models.Post{}
	}
	c.JSON(http.StatusOK, posts)
}

type engagementRequest struct {
	PostID uint `json:"postId"`
	UserID uint `json:"userId"`
}

// AddLike handles POST /api/posts/add_like: an idempotent flip, not a
// counter. The unique (userId, postId) index is what keeps concurrent
// toggles from doubling up.
func (h *PostHandler) AddLike(c *gin.Context) {
	var req engagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	if _, err := h.store.LikeByUserAndPost(req.UserID, req.PostID); err == nil {
		if err := h.store.DeleteLike(req.UserID, req.PostID); err != nil {
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "いいね解除しました", "isLiked": false})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(c)
		return
	}

	like := models.Like{UserID: req.UserID, PostID: req.PostID}
	if err := h.store.CreateLike(&like); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"message": "すでにいいね済みです"})
			return
		}
		serverError(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"newLike": like, "isLiked": true})
}

// AddRepost handles POST /api/posts/add_repost. The reposted branch returns
// the hydrated payload so the client can render the feed entry directly.
func (h *PostHandler) AddRepost(c *gin.Context) {
	var req engagementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	if _, err := h.store.RepostByUserAndPost(req.UserID, req.PostID); err == nil {
		if err := h.store.DeleteRepost(req.UserID, req.PostID); err != nil {
			serverError(c)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "リポストを解除しました", "isReposted": false})
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		serverError(c)
		return
	}

	repost := models.Repost{UserID: req.UserID, PostID: req.PostID}
	if err := h.store.CreateRepost(&repost); err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.JSON(http.StatusConflict, gin.H{"message": "すでにリポスト済みです"})
			return
		}
		serverError(c)
		return
	}

	hydrated, err := h.store.RepostByID(repost.ID)
	if err != nil {
		serverError(c)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"type":       timeline.KindRepost,
		"createdAt":  hydrated.CreatedAt,
		"post":       hydrated.Post,
		"repostedBy": hydrated.User,
		"isReposted": true,
	})
}

type statusRequest struct {
	PostIDs []uint `json:"postIds"`
	UserID  uint   `json:"userId"`
}

// Status handles POST /api/posts/get_post_status: one batched read for the
// caller's like/repost state and the per-post aggregate counts.
func (h *PostHandler) Status(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		serverError(c)
		return
	}

	likes, err := h.store.LikesForPosts(req.UserID, req.PostIDs)
	if err != nil {
		serverError(c)
		return
	}
	reposts, err := h.store.RepostsForPosts(req.UserID, req.PostIDs)
	if err != nil {
		serverError(c)
		return
	}
	statuses, err := h.store.PostsWithCounts(req.PostIDs)
	if err != nil {
		serverError(c)
		return
	}

	if likes == nil {
		likes = []models.Like{}
	}
	if reposts == nil {
		reposts = []models.Repost{}
	}
	if statuses == nil {
		statuses = []models.Post{}
	}
	c.JSON(http.StatusOK, gin.H{
		"likes":    likes,
		"reposts":  reposts,
		"statuses": statuses,
	})
}

// Delete handles DELETE /api/posts/delete_post. Id, author and content all
// have to match the stored row; anything else deletes nothing.
func (h *PostHandler) Delete(c *gin.Context) {
	postID, err1 := strconv.ParseUint(c.Query("postId"), 10, 32)
	userID, err2 := strconv.ParseUint(c.Query("userId"), 10, 32)
	content := c.Query("content")
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusUnauthorized, "ポストを削除できませんでした")
		return
	}

	post, err := h.store.DeletePost(uint(postID), uint(userID), content)
	if err != nil {
		c.JSON(http.StatusUnauthorized, "ポストを削除できませんでした")
		return
	}
	c.JSON(http.StatusCreated, post)
}
