package leave

import (
	"leavedesk/internal/middleware"
	"leavedesk/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	users user.Repository,
	rdb *redis.Client,
) {
	leaves := r.Group("/leave")
	leaves.Use(middleware.AuthMiddleware(users))
	{
		leaves.POST("/apply", middleware.RateLimitByUser(2, 5), middleware.Idempotency(rdb), handler.Apply)
		leaves.GET("/pending", middleware.RoleMiddleware(user.RoleManager), handler.GetPending)
		leaves.POST("/approve/:id", middleware.RoleMiddleware(user.RoleManager), handler.Decide)
		leaves.GET("/my-requests", handler.MyRequests)
		leaves.GET("/all-requests", middleware.RoleMiddleware(user.RoleManager), handler.AllRequests)
		leaves.GET("/summary", handler.Summary)
	}
}
