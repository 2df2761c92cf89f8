package workflow

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	rules := r.Group("/admin/workflow-rules")
	{
		rules.GET("",
			middleware.RBACAuthorize(rbacService, "workflow_rule", "read"),
			handler.GetAll,
		)
		rules.GET("/:id",
			middleware.RBACAuthorize(rbacService, "workflow_rule", "read"),
			handler.GetByID,
		)
		rules.POST("",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "workflow_rule", "manage"),
			handler.Create,
		)
		rules.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "workflow_rule", "manage"),
			handler.Update,
		)
		rules.DELETE("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "workflow_rule", "manage"),
			handler.Delete,
		)
	}
}
