package leave

import (
	"go-leave/internal/domain"
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes expects r to already run the auth and context middleware.
// Mutating routes honour an Idempotency-Key header when rdb is set.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	idempotent := middleware.Idempotency(rdb)

	leaves := r.Group("/leave-requests")
	{
		leaves.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "leave_request", "create"),
			idempotent,
			handler.CreateLeave,
		)
		leaves.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.ListLeave,
		)
		leaves.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "leave_request", "read"),
			handler.GetByID,
		)
		leaves.POST("/:id/cancel",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "leave_request", "cancel"),
			idempotent,
			handler.Cancel,
		)
	}

	wfh := r.Group("/wfh-requests")
	{
		wfh.POST("",
			middleware.RateLimitByUser(1, 3),
			middleware.RBACAuthorize(rbacService, "wfh_request", "create"),
			idempotent,
			handler.CreateWFH,
		)
		wfh.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "wfh_request", "read"),
			handler.ListWFH,
		)
	}

	team := r.Group("/manager/team")
	{
		team.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "approval", "read"),
			handler.Team,
		)
		team.POST("/:requestId/approve",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "approval", "decide"),
			idempotent,
			handler.Approve,
		)
		team.POST("/:requestId/deny",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "approval", "decide"),
			idempotent,
			handler.Deny,
		)
	}

	r.POST("/executive/:requestId/deny",
		middleware.RoleMiddleware(string(domain.RoleExecutive)),
		middleware.RateLimitByUser(2, 5),
		middleware.RBACAuthorize(rbacService, "approval", "decide"),
		idempotent,
		handler.Deny,
	)
}
