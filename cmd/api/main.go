package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/bizcoach-api/internal/application/service"
	"github.com/sangkips/bizcoach-api/internal/config"
	"github.com/sangkips/bizcoach-api/internal/domain/enum"
	domainRepo "github.com/sangkips/bizcoach-api/internal/domain/repository"
	"github.com/sangkips/bizcoach-api/internal/infrastructure/database"
	"github.com/sangkips/bizcoach-api/internal/infrastructure/repository"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/handler"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/middleware"
	"github.com/sangkips/bizcoach-api/internal/presentation/http/routes"
	"github.com/sangkips/bizcoach-api/internal/scheduler"
	"github.com/sangkips/bizcoach-api/pkg/logger"
	"github.com/sangkips/bizcoach-api/pkg/utils"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	log := logger.Must(logger.New(cfg.App.Debug))
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to open record store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours, cfg.App.Name)

	// Initialize services
	dashboardService := service.NewDashboardService(store, cfg.Analytics, logger.Named(log, "svc.dashboard"))
	saleService := service.NewSaleService(store, logger.Named(log, "svc.sale"))
	reportService := service.NewReportService(dashboardService, cfg.App.Name, logger.Named(log, "svc.report"))

	defaultFrame := enum.ParseTimeFrame(cfg.Analytics.DefaultTimeFrame)
	handlers := &routes.Handlers{
		Analytics: handler.NewAnalyticsHandler(dashboardService, defaultFrame),
		Sale:      handler.NewSaleHandler(saleService),
		Report:    handler.NewReportHandler(reportService, defaultFrame),
	}

	rateLimiter := middleware.NewOwnerRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: float64(cfg.RateLimit.Requests) / float64(max(cfg.RateLimit.Duration, 1)),
		BurstSize:         cfg.RateLimit.Requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	})
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:  jwtManager,
		Cfg:         cfg,
		Logger:      logger.Named(log, "http"),
		RateLimiter: rateLimiter,
	})

	digest, err := scheduler.NewScheduler(cfg.Scheduler, dashboardService, logger.Named(log, "scheduler"))
	if err != nil {
		log.Fatal("failed to create scheduler", zap.Error(err))
	}
	if err := digest.Start(); err != nil {
		log.Fatal("failed to start scheduler", zap.Error(err))
	}

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server",
			zap.String("service", cfg.App.Name),
			zap.String("port", port),
			zap.String("env", cfg.App.Env),
			zap.String("store", cfg.Store.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	digest.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		log.Error("failed to close record store", zap.Error(err))
	}
}

// openStore connects the configured driver and prepares its schema
func openStore(cfg *config.Config, log *zap.Logger) (domainRepo.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := database.NewMongoDB(ctx, &cfg.Mongo, logger.Named(log, "mongo"))
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := database.EnsureMongoIndexes(ctx, db); err != nil {
				return nil, err
			}
		}
		return repository.NewMongoRecordRepository(db), nil

	default:
		db, err := database.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger.Named(log, "postgres"))
		if err != nil {
			return nil, err
		}
		if cfg.Store.AutoMigrate {
			if err := database.AutoMigrate(db, logger.Named(log, "postgres")); err != nil {
				return nil, err
			}
		}
		return repository.NewGormRecordRepository(db), nil
	}
}
