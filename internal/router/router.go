package router

import (
	"bakuwaki/internal/handlers"
	"bakuwaki/internal/middleware"
	"bakuwaki/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, images *services.ImageStore) {
	// Handlers
	postHandler := handlers.NewPostHandler(images)
	replyHandler := handlers.NewReplyHandler(images)
	reactionHandler := handlers.NewReactionHandler()
	adminHandler := handlers.NewAdminHandler(images)

	// Uploaded images are plain static files
	r.Static("/images", images.Dir())

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/posts", postHandler.List)
		api.POST("/posts", postHandler.Create)
		api.POST("/posts/:id/replies", replyHandler.CreateForPost)
		api.POST("/replies/:id/replies", replyHandler.CreateForReply)
		api.POST("/posts/:id/reaction", reactionHandler.CreateForPost)
		api.POST("/replies/:id/reaction", reactionHandler.CreateForReply)

		api.POST("/admin/login", adminHandler.Login)
		api.POST("/admin/logout", adminHandler.Logout)
	}

	// Privileged routes, session-gated. Any 401 from here tells the
	// admin page its session has expired.
	admin := r.Group("/api")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/admin/check", adminHandler.Check)
		admin.PATCH("/posts/:id/label", adminHandler.UpdatePostLabel)
		admin.DELETE("/posts/:id", adminHandler.DeletePost)
		admin.DELETE("/replies/:id", adminHandler.DeleteReply)
	}
}
