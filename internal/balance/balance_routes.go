package balance

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	r.GET("/leave-balances",
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, "leave_balance", "read"),
		handler.GetMine,
	)
	r.GET("/leave-types",
		middleware.RateLimitByUser(5, 20),
		middleware.RBACAuthorize(rbacService, "leave_type", "read"),
		handler.ListLeaveTypes,
	)
	r.POST("/admin/leave-types",
		middleware.RateLimitByUser(0.5, 2),
		middleware.RBACAuthorize(rbacService, "leave_type", "manage"),
		handler.CreateLeaveType,
	)
}
