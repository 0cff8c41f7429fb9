package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/AijiY/StudentManagement/api/swagger"
	"github.com/AijiY/StudentManagement/internal/handler"
	"github.com/AijiY/StudentManagement/internal/middleware"
	"github.com/AijiY/StudentManagement/internal/models"
	"github.com/AijiY/StudentManagement/internal/repository"
	"github.com/AijiY/StudentManagement/internal/service"
	"github.com/AijiY/StudentManagement/pkg/cache"
	"github.com/AijiY/StudentManagement/pkg/config"
	"github.com/AijiY/StudentManagement/pkg/database"
	"github.com/AijiY/StudentManagement/pkg/logger"
	corsmiddleware "github.com/AijiY/StudentManagement/pkg/middleware/cors"
	reqidmiddleware "github.com/AijiY/StudentManagement/pkg/middleware/requestid"
)

// @title Student Management API
// @version 1.0.0
// @description Students, courses and enrollment status transitions
// @BasePath /api/v1
// @schemes http

const cacheNamespace = "sm:"

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.Open(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err), zap.String("driver", cfg.Database.Driver))
	}
	defer db.Close()

	store := repository.NewStore(db)
	metrics := service.NewMetricsService()
	validate := validator.New()

	deps := map[string]handler.Pinger{"database": store}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer client.Close()
		cacheRepo = repository.NewCacheRepository(client, cacheNamespace)
		deps["redis"] = redisPinger{client: client}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	studentSvc := service.NewStudentService(store, cacheSvc, metrics, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(store, cacheSvc, metrics, logr)
	courseSvc := service.NewCourseService(store, validate, logr)
	exportSvc := service.NewExportService(studentSvc, cfg.Export.MaxRows, logr, nil, nil, nil)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterOpsRoutes(r, handler.NewMetricsHandler(metrics, deps))

	var writeGuard []gin.HandlerFunc
	if cfg.Auth.Enabled {
		auth := service.NewAuthService(cfg.Auth.JWTSecret)
		writeGuard = append(writeGuard, middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin))
	} else {
		logr.Warn("write endpoints are not authenticated", zap.String("env", cfg.Env))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Students:    handler.NewStudentHandler(studentSvc, exportSvc),
		Courses:     handler.NewCourseHandler(courseSvc),
		Enrollments: handler.NewEnrollmentHandler(enrollmentSvc),
	}, writeGuard...)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	logr.Info("server stopped")
}
