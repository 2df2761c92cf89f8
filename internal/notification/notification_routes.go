package notification

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	notifications := r.Group("/notifications")
	{
		notifications.GET("",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.ListMine,
		)
		notifications.POST("/:id/read",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "notification", "read"),
			handler.MarkRead,
		)
	}
}
