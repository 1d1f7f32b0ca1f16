package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/hotspot-explorer/internal/config"
	"github.com/hotspot-explorer/internal/observability"
	"github.com/hotspot-explorer/internal/pkg/logger"
	"github.com/hotspot-explorer/internal/repository/cache"
	redisRepo "github.com/hotspot-explorer/internal/repository/redis"
	"github.com/hotspot-explorer/internal/repository/sqlstore"
	"github.com/hotspot-explorer/internal/usecase"
	"github.com/hotspot-explorer/internal/worker"
	"github.com/hotspot-explorer/internal/worker/facet"
)

// The standalone refresh worker reloads facet lists into Redis whenever the
// ETL announces a refreshed dataset. API instances consume the same stream
// under their own groups to drop their in-process copies.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		return
	}

	log, err := logger.New("hotspot-refresh-worker", cfg.Log.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("Worker exited with error", zap.Error(err))
		os.Exit(1)
	}
	log.Info("Worker stopped successfully")
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting facet refresh worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Duration("poll_interval", cfg.Worker.PollInterval))

	store, err := sqlstore.New(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer store.Close()

	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()

	metrics := observability.NewMetrics()
	guard := usecase.NewSchemaGuard(store, log, metrics)
	facetUC := usecase.NewFacetUseCase(
		store, guard, cache.NewCacheRepository(redisClient), log, metrics, nil, cfg.Hotspot.FacetLimit,
	)

	manager := worker.NewWorkerManager(log, 0)
	manager.Register(facet.NewRefreshWorker(
		redisRepo.NewStreamRepository(redisClient.Client(), log),
		facetUC,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		cfg.Worker.PollInterval,
		nil,
		log,
	))

	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	<-ctx.Done()
	log.Info("Received shutdown signal")

	if err := manager.Stop(); err != nil {
		return err
	}
	return manager.Health(context.Background())
}
