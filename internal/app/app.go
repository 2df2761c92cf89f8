package app

import (
	"context"
	"database/sql"
	"net/http"

	"go-leave/internal/middleware"
	"go-leave/internal/migration"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Infra holds the shared connections of one process.
type Infra struct {
	Config *config.Config
	Logger *zap.Logger
	GormDB *gorm.DB
	SQLDB  *sql.DB
	Redis  *redis.Client
}

func (i *Infra) Close() {
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	if i.SQLDB != nil {
		_ = i.SQLDB.Close()
	}
}

// ConnectDB opens postgres and, when db.auto_migrate is set, applies pending migrations.
func ConnectDB(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Infra, error) {
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DSN(), cfg.DB.MaxRetries, logger)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	infra := &Infra{Config: cfg, Logger: logger, GormDB: gormDB, SQLDB: sqlDB}

	if cfg.DB.AutoMigrate {
		if err := migration.Up(ctx, sqlDB); err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("database migrations applied")
	}
	return infra, nil
}

// BuildApp wires every HTTP module onto a new gin engine.
func BuildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*gin.Engine, *Infra, error) {
	infra, err := ConnectDB(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.MaxRetries, logger)
	if err != nil {
		infra.Close()
		return nil, nil, err
	}
	infra.Redis = rdb

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())
	router.GET("/healthz", middleware.RateLimitByIP(5, 10), func(c *gin.Context) {
		if err := infra.SQLDB.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	if err := registerModules(router, infra); err != nil {
		infra.Close()
		return nil, nil, err
	}
	return router, infra, nil
}
