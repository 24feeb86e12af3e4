package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/jcbcouch/dotnetwebapi/internal/config"
	"github.com/jcbcouch/dotnetwebapi/internal/identity"
	"github.com/jcbcouch/dotnetwebapi/internal/models"
	"github.com/jcbcouch/dotnetwebapi/internal/post"
	"github.com/jcbcouch/dotnetwebapi/internal/post/handler"
	"github.com/jcbcouch/dotnetwebapi/internal/post/repository"
	"github.com/jcbcouch/dotnetwebapi/internal/post/service"
	"github.com/jcbcouch/dotnetwebapi/pkg/logger"
	"github.com/jcbcouch/dotnetwebapi/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.Log.Level, cfg.Server.Environment)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zl.Sync()

	repo, cleanup, err := openRepository(cfg, zl)
	if err != nil {
		zl.Fatal("failed to open store", zap.Error(err))
	}
	defer cleanup()

	ver := identity.NewJWTVerifier(cfg.Auth.JWTSecret)
	svc := service.New(repo, cfg.Auth.Mode, zl)

	if cfg.Server.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handler.RegisterPostRoutes(r, svc, ver, cfg.Auth.Mode)

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	zl.Info("server listening", zap.String("addr", addr), zap.String("auth_mode", string(cfg.Auth.Mode)), zap.String("db_driver", cfg.Database.Driver))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		zl.Fatal("server failed", zap.Error(err))
	}
}

func openRepository(cfg *config.Config, zl *zap.Logger) (repository.Repository, func(), error) {
	if cfg.Database.Driver == "memory" {
		zl.Warn("using in-memory store; data will not survive a restart")
		return repository.NewMemory(), func() {}, nil
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &post.Post{}); err != nil {
		return nil, nil, err
	}
	zl.Info("database migrations completed")

	cleanup := func() {
		sqlDB, err := db.DB()
		if err != nil {
			zl.Error("failed to get raw DB handle", zap.Error(err))
			return
		}
		if err := sqlDB.Close(); err != nil {
			zl.Error("failed to close database connection", zap.Error(err))
		}
	}
	return repository.NewGorm(db), cleanup, nil
}
