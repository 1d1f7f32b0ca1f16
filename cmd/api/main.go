package main

// @title Hotspot Explorer API
// @version 1.0.0
// @description Сервис анализа очагов ДТП: агрегирует геопривязанные инциденты по ячейкам сетки, ранжирует ячейки по метрикам риска, ограничивает выборку радиусом вокруг точки и раскрывает ячейку до разбивки по тяжести и постраничных записей.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/hotspot-explorer/docs"
	"github.com/hotspot-explorer/internal/config"
	httpDelivery "github.com/hotspot-explorer/internal/delivery/http"
	"github.com/hotspot-explorer/internal/delivery/http/handler"
	"github.com/hotspot-explorer/internal/domain"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/logger"
	"github.com/hotspot-explorer/internal/repository/cache"
	redisRepo "github.com/hotspot-explorer/internal/repository/redis"
	"github.com/hotspot-explorer/internal/repository/sqlstore"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/worker"
	"github.com/hotspot-explorer/internal/worker/facet"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New("hotspot-api", cfg.Log.Level)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Hotspot Explorer API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("db_driver", cfg.Database.Driver),
	)

	// 3. Connect to the record store
	store, err := sqlstore.New(&cfg.Database, log)
	if err != nil {
		log.Fatal("Failed to open record store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error("Failed to close record store", zap.Error(err))
		}
	}()

	// 4. Connect to Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	// 5. Health checks
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Health(ctx); err != nil {
		log.Fatal("Record store health check failed", zap.Error(err))
	}
	if err := redisClient.Health(ctx); err != nil {
		log.Fatal("Redis health check failed", zap.Error(err))
	}
	log.Info("All connections healthy")

	// 6. Use cases
	metrics := observability.NewMetrics()
	cacheRepo := cache.NewCacheRepository(redisClient)
	guard := usecase.NewSchemaGuard(store, log, metrics)

	// A missing table is not fatal: the ETL may provision it later.
	if err := guard.Check(ctx); err != nil {
		log.Warn("Record table not ready", zap.Error(err))
	}

	defaults := usecase.RadiusDefaults{
		Reference:   domain.Point{Lat: cfg.Hotspot.DefaultCenterLat, Lon: cfg.Hotspot.DefaultCenterLon},
		RadiusMiles: cfg.Hotspot.DefaultRadiusMiles,
	}

	hotspotUC := usecase.NewHotspotUseCase(store, guard, log, metrics, cfg.Hotspot.MaxTopK)
	drillDownUC := usecase.NewDrillDownUseCase(store, guard, log, metrics, cfg.Hotspot.MaxPageSize)
	facetUC := usecase.NewFacetUseCase(store, guard, cacheRepo, log, metrics, nil, cfg.Hotspot.FacetLimit)
	radiusUC := usecase.NewRadiusUseCase(cacheRepo, nil, cfg.Cache.RadiusSessionTTL, defaults, log)

	log.Info("Use cases initialized")

	// Every API instance keeps facet lists in memory, so each one reads the
	// refresh stream under its own consumer group.
	workerManager := worker.NewWorkerManager(log, 0)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	if cfg.Worker.Enabled {
		hostname, _ := os.Hostname()
		workerManager.Register(facet.NewRefreshWorker(
			redisRepo.NewStreamRepository(redisClient.Client(), log),
			facetUC,
			fmt.Sprintf("%s-api-%s", cfg.Worker.ConsumerGroup, hostname),
			cfg.Worker.BatchSize,
			cfg.Worker.PollInterval,
			nil,
			log,
		))
		if err := workerManager.Start(workerCtx); err != nil {
			log.Fatal("Failed to start workers", zap.Error(err))
		}
	}

	checks := map[string]handler.HealthChecker{
		"store": store,
		"redis": redisClient,
	}
	if cfg.Worker.Enabled {
		checks["refresh_worker"] = workerManager
	}

	// 7. HTTP server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Hotspot:   handler.NewHotspotHandler(hotspotUC, radiusUC, defaults, log),
		DrillDown: handler.NewDrillDownHandler(drillDownUC, log),
		Facet:     handler.NewFacetHandler(facetUC, log),
		Session:   handler.NewSessionHandler(radiusUC, log),
		Health:    handler.NewHealthHandler(checks, log),
	})

	go func() {
		if err := server.Start(); err != nil {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started successfully",
		zap.String("address", cfg.GetServerAddr()),
		zap.String("env", cfg.Server.Env),
	)

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	if cfg.Worker.Enabled {
		workerCancel()
		if err := workerManager.Stop(); err != nil {
			log.Error("Error stopping workers", zap.Error(err))
		}
	}

	log.Info("Server stopped successfully")
}
