package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/voyago/trip-planner-api/api/swagger"
	"github.com/voyago/trip-planner-api/internal/handler"
	internalmiddleware "github.com/voyago/trip-planner-api/internal/middleware"
	"github.com/voyago/trip-planner-api/internal/provider"
	"github.com/voyago/trip-planner-api/internal/repository"
	"github.com/voyago/trip-planner-api/internal/scheduling"
	"github.com/voyago/trip-planner-api/internal/service"
	"github.com/voyago/trip-planner-api/pkg/cache"
	"github.com/voyago/trip-planner-api/pkg/config"
	"github.com/voyago/trip-planner-api/pkg/database"
	"github.com/voyago/trip-planner-api/pkg/jobs"
	"github.com/voyago/trip-planner-api/pkg/logger"
	corsmiddleware "github.com/voyago/trip-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/voyago/trip-planner-api/pkg/middleware/requestid"
)

// @title Trip Planner API
// @version 1.0.0
// @description Availability-aware itinerary planning over a booking provider catalog
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The planner degrades to provider-only fetches without redis.
		logr.Sugar().Warnw("redis unavailable, availability caching disabled", "error", err)
		redisClient = nil
	}

	destinationRepo := repository.NewDestinationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	providerClient := provider.NewClient(cfg.Provider, logr)
	fetcher := provider.NewFetcher(providerClient, logr)

	metricsSvc := service.NewMetricsService()
	tokenSvc := service.NewTokenService(cfg.JWT)
	catalogSvc := service.NewCatalogService(destinationRepo, activityRepo, logr)
	syncSvc := service.NewCatalogSyncService(destinationRepo, providerClient, activityRepo, cacheRepo, cfg.Catalog, logr)
	exportSvc := service.NewExportService(nil, nil, nil, logr)

	solver := scheduling.NewBranchBoundSolver(cfg.Planner.SolverTimeout)
	adapter, err := scheduling.NewAdapter(solver, cfg.Planner.BufferSlots, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to configure schedule solver", "error", err)
	}
	plannerSvc := service.NewPlannerService(
		destinationRepo, activityRepo, fetcher, cacheRepo, adapter, metricsSvc,
		cfg.Planner, cfg.Provider.AvailabilityTTL, nil, logr,
	)

	syncQueue := jobs.NewQueue("catalog-sync", func(ctx context.Context, job jobs.Job) error {
		switch job.Type {
		case "catalog_sync_all":
			_, err := syncSvc.SyncAll(ctx)
			return err
		case "catalog_sync_destination":
			destinationID, _ := job.Payload.(string)
			_, err := syncSvc.SyncDestination(ctx, destinationID)
			return err
		default:
			return fmt.Errorf("unknown job type %s", job.Type)
		}
	}, jobs.QueueConfig{Workers: cfg.Catalog.SyncWorkers, Logger: logr})
	syncQueue.Start(ctx)
	defer syncQueue.Stop()

	scheduler := cron.New()
	if cfg.Catalog.RefreshEnabled {
		_, err := scheduler.AddFunc(cfg.Catalog.RefreshCron, func() {
			if err := syncQueue.Enqueue(jobs.Job{Type: "catalog_sync_all"}); err != nil {
				logr.Warn("failed to enqueue scheduled catalog sync", zap.Error(err))
			}
		})
		if err != nil {
			logr.Sugar().Fatalw("invalid catalog refresh cron expression", "cron", cfg.Catalog.RefreshCron, "error", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	planHandler := handler.NewPlanHandler(plannerSvc, exportSvc)
	destinationHandler := handler.NewDestinationHandler(catalogSvc)
	syncHandler := handler.NewSyncHandler(syncQueue)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/destinations", destinationHandler.List)
		api.GET("/destinations/:id", destinationHandler.Get)
		api.GET("/destinations/:id/activities", destinationHandler.Activities)
		api.GET("/activities/:id", destinationHandler.GetActivity)
		api.POST("/plans", planHandler.Generate)
		api.POST("/plans/export", planHandler.Export)

		protected := api.Group("", internalmiddleware.JWT(tokenSvc))
		protected.POST("/sync", syncHandler.TriggerAll)
		protected.POST("/destinations/:id/sync", syncHandler.TriggerDestination)
	}

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
