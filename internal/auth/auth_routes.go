package auth

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/user"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, users user.Repository) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/register", middleware.RateLimitByIP(0.1, 2), handler.Register)
		auth.GET("/me", middleware.AuthMiddleware(users), middleware.RateLimitByUser(2, 5), handler.Me)
	}
}
