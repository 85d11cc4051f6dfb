package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"maidmatch_backend/database"
	_ "maidmatch_backend/docs"
	"maidmatch_backend/internal/config"
	"maidmatch_backend/internal/handlers"
	"maidmatch_backend/internal/logger"
	"maidmatch_backend/internal/middleware"
	"maidmatch_backend/internal/repositories"
	"maidmatch_backend/internal/routes"
	"maidmatch_backend/internal/services"
	"maidmatch_backend/internal/validator"
	"maidmatch_backend/internal/workers"
	"maidmatch_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// Run serves the API until ctx is cancelled, then drains HTTP and the
// notification queue.
func Run(ctx context.Context, cfg *config.Config) error {
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return fmt.Errorf("get *sql.DB from gorm: %w", err)
	}
	defer sqlDB.Close()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}
	logger.Info("Database connected")

	worker := workers.NewNotificationWorker(gormDB, repositories.NewNotificationRepository(), cfg)
	ginRouter := SetupRouter(cfg, gormDB, worker)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	worker.Start(workerCtx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server starting", "address", address)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		stopWorker()
		select {
		case <-worker.Done():
		case <-shutdownCtx.Done():
			logger.Warn("notification queue not drained before shutdown")
		}
		return nil
	})

	return g.Wait()
}

// SetupRouter builds the gin engine on top of db. notifier receives the
// events of committed state changes.
func SetupRouter(cfg *config.Config, db *gorm.DB, notifier services.NotificationGateway) *gin.Engine {
	configureErrorHandler(cfg)

	v := validator.New()
	serviceContainer := services.NewServiceContainer(notifier, v, services.Options{
		QueryTimeout: cfg.QueryTimeout(),
	})
	appHandlers := handlers.NewAppHandlers(serviceContainer, v)

	ginRouter := initializeGinRouter(cfg, db)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg.JWT.Secret)

	return ginRouter
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Env == "production" || cfg.Server.Env == "test" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func configureErrorHandler(cfg *config.Config) {
	apperrors.DefaultHandler.Debug = cfg.Server.Env != "production"
	apperrors.DefaultHandler.OnServerError = func(c *gin.Context, appErr *apperrors.AppError) {
		logger.CtxWithError(c.Request.Context(), "request failed", appErr,
			"code", appErr.Code, "path", c.Request.URL.Path)
	}
}
