package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"pictora/auth"
	"pictora/content"
	"pictora/follow"
	"pictora/middleware"
	"pictora/ratelim"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/uploads/*filepath", http.Dir("static/uploads"))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))

	router.GET("/api/auth/profile", middleware.Authenticate(auth.GetProfile))
	router.PUT("/api/auth/profile", middleware.Authenticate(auth.UpdateProfile))

	router.GET("/api/auth/admin/users", middleware.Authenticate(middleware.RequireAdmin(auth.ListUsers)))
	router.GET("/api/auth/admin/users/:userId", middleware.Authenticate(middleware.RequireAdmin(auth.GetUser)))
	router.PUT("/api/auth/admin/users/:userId/role", middleware.Authenticate(middleware.RequireAdmin(auth.UpdateUserRole)))
	router.DELETE("/api/auth/admin/users/:userId", middleware.Authenticate(middleware.RequireAdmin(auth.DeleteUser)))
}

func AddContentRoutes(router *httprouter.Router) {
	// public share surface
	router.GET("/api/content/shared/:postId", content.GetSharedPost)
	router.GET("/api/content/shared/:postId/qr", content.SharedPostQR)

	router.POST("/api/content/upload", middleware.Authenticate(content.UploadPost))
	router.GET("/api/content", middleware.Authenticate(content.ListApproved))
	router.GET("/api/content/pending-moderation", middleware.Authenticate(middleware.RequireAdmin(content.PendingModeration)))

	router.GET("/api/content/post/:postId", middleware.Authenticate(content.GetPost))
	router.PUT("/api/content/post/:postId", middleware.Authenticate(content.UpdatePost))
	router.DELETE("/api/content/post/:postId", middleware.Authenticate(content.DeletePost))
	router.PUT("/api/content/post/:postId/moderate", middleware.Authenticate(middleware.RequireAdmin(content.ModeratePost)))

	router.POST("/api/content/post/:postId/comment", middleware.Authenticate(content.CreateComment))
	router.PUT("/api/content/comment/:commentId", middleware.Authenticate(content.UpdateComment))
	router.DELETE("/api/content/comment/:commentId", middleware.Authenticate(content.DeleteComment))

	router.POST("/api/content/post/:postId/like", middleware.Authenticate(content.LikePost))
	router.DELETE("/api/content/post/:postId/unlike", middleware.Authenticate(content.UnlikePost))
	router.POST("/api/content/post/:postId/share", middleware.Authenticate(content.SharePost))

	router.GET("/api/content/user/:userId", middleware.Authenticate(content.PostsByUser))
}

func AddFollowRoutes(router *httprouter.Router) {
	router.POST("/api/content/follow/:userId", middleware.Authenticate(follow.Follow))
	router.DELETE("/api/content/unfollow/:userId", middleware.Authenticate(follow.Unfollow))
	router.GET("/api/content/followers/:userId", middleware.Authenticate(follow.GetFollowers))
	router.GET("/api/content/following/:userId", middleware.Authenticate(follow.GetFollowing))
}
