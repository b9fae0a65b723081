package router

import (
	"net/http"

	"chirp/internal/handlers"
	"chirp/internal/middleware"
	"chirp/internal/store"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every API endpoint onto the engine. The store handle
// is passed in and threaded through the handlers; nothing global.
func RegisterRoutes(r *gin.Engine, s store.Store, secret []byte) {
	authHandler := handlers.NewAuthHandler(s, secret)
	postHandler := handlers.NewPostHandler(s)
	userHandler := handlers.NewUserHandler(s)

	requireAuth := middleware.RequireAuth(secret)
	optionalAuth := middleware.OptionalAuth(secret)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
	}

	posts := r.Group("/api/posts")
	{
		posts.POST("/post", requireAuth, postHandler.Create)
		posts.POST("/reply/:parentId", requireAuth, postHandler.Reply)
		posts.GET("/get_parent_post/:parentId", requireAuth, postHandler.Parent)
		posts.GET("/get_latest_post", optionalAuth, postHandler.Latest)
		posts.GET("/get_following_post", requireAuth, postHandler.FollowingFeed)
		posts.GET("/:userId", postHandler.ByUser)
		posts.POST("/add_like", postHandler.AddLike)
		posts.POST("/add_repost", postHandler.AddRepost)
		posts.POST("/get_post_status", postHandler.Status)
		posts.DELETE("/delete_post", requireAuth, postHandler.Delete)
	}

	users := r.Group("/api/users")
	{
		users.GET("/find", requireAuth, userHandler.Find)
		users.GET("/profile/:userId", userHandler.Profile)
		users.PUT("/profile/edit", requireAuth, userHandler.EditProfile)
		users.GET("/follow_count/:userId", optionalAuth, userHandler.FollowCount)
		users.POST("/follow", requireAuth, userHandler.Follow)
		users.POST("/unfollow", requireAuth, userHandler.Unfollow)
		users.GET("/is-following/:followerId/:followingId", requireAuth, userHandler.IsFollowing)
	}
}
