// API server entry point for the MSME matching and valuation engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/debnit/MsmeBazaar-sub003/internal/config"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/database/postgres"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/database/postgres/repositories"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/database/redis"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/messaging/kafka"
	"github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/logging"
	promcollector "github.com/debnit/MsmeBazaar-sub003/internal/infrastructure/monitoring/prometheus"
	httpserver "github.com/debnit/MsmeBazaar-sub003/internal/interfaces/http"
	"github.com/debnit/MsmeBazaar-sub003/internal/interfaces/http/handlers"
	"github.com/debnit/MsmeBazaar-sub003/internal/interfaces/http/middleware"
	"github.com/debnit/MsmeBazaar-sub003/internal/matching"
	"github.com/debnit/MsmeBazaar-sub003/internal/refdata"
	"github.com/debnit/MsmeBazaar-sub003/internal/valuation"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: using default configuration: %v\n", err)
		cfg = config.NewDefaultConfig()
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger initialization failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("starting matching and valuation engine",
		logging.String("version", config.Version),
		logging.Int("port", cfg.Server.Port),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tables := refdata.Default()

	// Postgres is the system of record for listings and buyers.
	db, err := postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	listingRepo := repositories.NewListingRepository(db.Pool(), logger)
	buyerRepo := repositories.NewBuyerRepository(db.Pool(), logger)

	// Redis caches match results and valuations.  The engine degrades to
	// uncached operation when it is unreachable at startup.
	var (
		cache       *redis.Cache
		cachePinger handlers.Pinger
	)
	redisClient, err := redis.NewClient(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, caching disabled", logging.Err(err))
	} else {
		defer redisClient.Close()
		var cacheOpts []redis.CacheOption
		if cfg.Redis.KeyPrefix != "" {
			cacheOpts = append(cacheOpts, redis.WithPrefix(cfg.Redis.KeyPrefix))
		}
		cache = redis.NewCache(redisClient, logger, cacheOpts...)
		cachePinger = redisClient
	}

	// Kafka publishes match and valuation events when enabled.
	var (
		matchEvents     matching.EventPublisher
		valuationEvents valuation.EventPublisher
	)
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, logger)
		defer producer.Close()
		matchEvents = producer.ForTopic(cfg.Kafka.MatchTopic)
		valuationEvents = producer.ForTopic(cfg.Kafka.ValuationTopic)
	}

	var (
		collector      *promcollector.Collector
		httpMetrics    middleware.HTTPMetrics
		matchMetrics   matching.MetricsCollector
		valMetrics     valuation.Metrics
		metricsHandler http.Handler
	)
	if cfg.Metrics.Enabled {
		collector = promcollector.NewCollector(cfg.Metrics.Namespace)
		httpMetrics = collector
		matchMetrics = collector
		valMetrics = collector
		metricsHandler = collector.Handler()
	}

	var (
		mlClient valuation.MLClient
		mlHealth handlers.HealthObserver
	)
	if cfg.MLService.BaseURL != "" {
		client := valuation.NewHTTPMLClient(valuation.MLClientOptions{
			BaseURL:      cfg.MLService.BaseURL,
			ModelVersion: cfg.MLService.ModelVersion,
			Timeout:      cfg.MLService.Timeout,
			Tables:       tables,
			Logger:       logger,
			Metrics:      valMetrics,
		})
		mlClient = client
		mlHealth = client
	}

	var engineCache matching.Cache
	var valuationCache valuation.Cache
	if cache != nil {
		engineCache = cache
		valuationCache = cache
	}

	engine := matching.NewEngine(
		listingRepo,
		buyerRepo,
		matching.NewScorer(tables),
		engineCache,
		matchEvents,
		matchMetrics,
		logger,
		&matching.EngineConfig{
			DefaultLimit: cfg.Matching.DefaultLimit,
			MaxLimit:     cfg.Matching.MaxLimit,
			Concurrency:  cfg.Matching.Concurrency,
			CacheTTL:     cfg.Matching.CacheTTL,
		},
	)

	orchestrator := valuation.NewOrchestrator(valuation.OrchestratorOptions{
		ML:       mlClient,
		Tables:   tables,
		Cache:    valuationCache,
		Events:   valuationEvents,
		Metrics:  valMetrics,
		Logger:   logger,
		CacheTTL: cfg.Valuation.CacheTTL,
	})

	router := httpserver.NewRouter(httpserver.RouterOptions{
		Mode:           cfg.Server.Mode,
		Version:        config.Version,
		Logger:         logger,
		Matcher:        engine,
		Valuator:       orchestrator,
		Database:       db,
		Cache:          cachePinger,
		ML:             mlHealth,
		Metrics:        httpMetrics,
		MetricsHandler: metricsHandler,
	})

	srv := httpserver.NewServer(cfg.Server, router, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
