package audit

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	r.GET("/admin/audit-logs",
		middleware.RateLimitByUser(2, 10),
		middleware.RBACAuthorize(rbacService, "audit_log", "read"),
		handler.List,
	)
}
