package rollover

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	admin := r.Group("/admin/leave-rollover")
	{
		admin.GET("",
			middleware.RateLimitByUser(1, 5),
			middleware.RBACAuthorize(rbacService, "rollover", "preview"),
			handler.Preview,
		)
		admin.POST("",
			middleware.RateLimitByUser(0.2, 1),
			middleware.RBACAuthorize(rbacService, "rollover", "execute"),
			handler.Execute,
		)
	}
}
