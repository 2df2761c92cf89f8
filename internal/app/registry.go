package app

import (
	"go-leave/internal/audit"
	"go-leave/internal/balance"
	"go-leave/internal/document"
	"go-leave/internal/employee"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/middleware"
	"go-leave/internal/notification"
	"go-leave/internal/rbac"
	"go-leave/internal/rollover"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/counter"
	"go-leave/internal/sideeffect"
	"go-leave/internal/workflow"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sinks are the side-effect collaborators backed by this service's own tables.
type sinks struct {
	notifications notification.Service
	auditRepo     audit.Repository
	auditSink     *audit.Sink
	documents     document.Service
}

func newSinks(gormDB *gorm.DB, logger *zap.Logger) sinks {
	auditRepo := audit.NewRepository(gormDB)
	return sinks{
		notifications: notification.NewService(notification.NewRepository(gormDB), logger),
		auditRepo:     auditRepo,
		auditSink:     audit.NewSink(auditRepo),
		documents:     document.NewService(document.NewRepository(gormDB), logger),
	}
}

func (s sinks) handler(logger *zap.Logger) *sideeffect.Handler {
	return sideeffect.NewHandler(s.notifications, s.auditSink, s.documents, logger)
}

func newDispatcher(cfg *config.Config, outbox kafka.OutboxRepository, handler *sideeffect.Handler, logger *zap.Logger) sideeffect.Dispatcher {
	if cfg.SideEffects.Mode == config.SideEffectsInline {
		return sideeffect.NewInlineDispatcher(handler, logger)
	}
	return sideeffect.NewOutboxDispatcher(outbox)
}

func registerModules(router *gin.Engine, infra *Infra) error {
	cfg, logger := infra.Config, infra.Logger
	db, gormDB, rdb := infra.SQLDB, infra.GormDB, infra.Redis

	// --- Repositories ---
	balanceRepo := balance.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	rbacRepo := rbac.NewRepository(gormDB)
	rolloverRepo := rollover.NewRepository(gormDB)
	workflowRepo := workflow.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Side effects ---
	s := newSinks(gormDB, logger)
	dispatcher := newDispatcher(cfg, outboxRepo, s.handler(logger), logger)

	// --- Services ---
	ledger := balance.NewLedger(balanceRepo, logger)
	balanceService := balance.NewService(db, balanceRepo, employeeRepo, logger)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, outboxRepo, logger)
	workflowService := workflow.NewService(workflowRepo, rdb, cfg.Cache.WorkflowRulesTTL, logger)
	leaveService := leave.NewService(db, leaveRepo, leave.Dependencies{
		Employees:  employeeRepo,
		LeaveTypes: balanceRepo,
		Ledger:     ledger,
		Rules:      workflowService,
		Counters:   counterRepo,
		Dispatcher: dispatcher,
	}, logger)
	rolloverService := rollover.NewService(db, rolloverRepo, balanceRepo, employeeRepo, s.auditSink, logger)
	auditService := audit.NewService(s.auditRepo, logger)

	// --- Handlers ---
	auditHandler := audit.NewHandler(auditService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	documentHandler := document.NewHandler(s.documents, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandler(leaveService, logger)
	notificationHandler := notification.NewHandler(s.notifications, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)
	rolloverHandler := rollover.NewHandler(rolloverService, logger)
	workflowHandler := workflow.NewHandler(workflowService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.ContextLogger(logger))
	{
		audit.RegisterRoutes(api, auditHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		document.RegisterRoutes(api, documentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler, rbacService)
		rbac.RegisterRoutes(api, rbacHandler, rbacService)
		rollover.RegisterRoutes(api, rolloverHandler, rbacService)
		workflow.RegisterRoutes(api, workflowHandler, rbacService)
	}

	logger.Info("modules registered", zap.String("side_effects", cfg.SideEffects.Mode))
	return nil
}
