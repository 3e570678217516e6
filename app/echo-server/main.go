package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharpPicks/app/echo-server/metrics"
	"sharpPicks/app/echo-server/router"
	"sharpPicks/business/generator"
	"sharpPicks/business/retrieval"
	"sharpPicks/internal/llm"
	"sharpPicks/internal/middleware"
	psqlRepo "sharpPicks/internal/repository/postgres"
	redisRepo "sharpPicks/internal/repository/redis"
	"sharpPicks/internal/rest"
	"sharpPicks/pkg/config"
	"sharpPicks/pkg/database"
	redisdb "sharpPicks/pkg/database/redis"
	"sharpPicks/pkg/logger"
	pickMetrics "sharpPicks/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	metrics.Init()
	pickMetrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer database.ClosePostgres(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	var rdb *goredis.Client
	if cfg.Redis.RedisEnabled {
		rdb, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			// picks are still served straight from postgres
			logger.Warn("Redis unavailable, continuing without cache", "error", err)
			rdb = nil
		} else {
			defer redisdb.CloseRedisClient(rdb)
		}
	}

	// Init repo
	pickRepo := psqlRepo.NewPickRepository(db)
	profileRepo := psqlRepo.NewProfileRepository(db)
	tierRepo := psqlRepo.NewTierPolicyRepository(db)
	runRepo := psqlRepo.NewGenerationRunRepository(db)

	var (
		pool        retrieval.PoolReader = pickRepo
		invalidator generator.PoolInvalidator
		publisher   generator.RunPublisher
	)
	if rdb != nil {
		cache := redisRepo.NewPoolCache(rdb, pickRepo, cfg.Retrieval.PoolCacheTTL)
		pool = cache
		invalidator = cache
		publisher = redisRepo.NewRunPublisher(rdb)
	}

	// Init service
	retrievalService := retrieval.NewService(pool, profileRepo, tierRepo)

	var adminGeneration *rest.GenerationAdminHandler
	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		logger.Warn("LLM client not configured, admin generation disabled", "error", err)
	} else {
		gen := generator.NewGenerator(llmClient, pickRepo, runRepo, invalidator, publisher, generator.ConfigFrom(cfg))
		adminGeneration = rest.NewGenerationAdminHandler(gen, runRepo, 0)
	}

	// Init handler
	picksHandler := rest.NewPicksHandler(retrievalService, cfg.Retrieval.RequestTimeout)
	tierHandler := rest.NewTierAdminHandler(retrievalService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.Trace())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddleware(cfg.JWT.SecretKey)
	adminOnly := middleware.AdminOnly()

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupPicksRoutes(api, picksHandler)
	router.SetupTierAdminRoutes(api, tierHandler, authRequired, adminOnly)
	if adminGeneration != nil {
		router.SetupGenerationAdminRoutes(api, adminGeneration, authRequired, adminOnly)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
