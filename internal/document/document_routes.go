package document

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	docs := r.Group("/documents")
	docs.Use(middleware.RateLimitByUser(2, 10), middleware.RBACAuthorize(rbacService, "document", "read"))
	{
		docs.GET("/:id", handler.Get)
		docs.GET("/:id/pdf", handler.Download)
		docs.GET("/:id/qr", handler.VerificationQR)
	}
}
