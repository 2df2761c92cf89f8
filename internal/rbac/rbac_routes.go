package rbac

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, _ middleware.RBACService) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", middleware.RateLimitByUser(5, 20), handler.Enforce)
		group.GET("/permissions",
			middleware.RoleMiddleware(string(domain.RoleAdmin), string(domain.RoleHR)),
			handler.ListPermissions,
		)
	}
}
