// Package main implements the car price prediction API server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/autodeal-hq/go-pricer/internal/cache"
	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/metrics"
	"github.com/autodeal-hq/go-pricer/internal/normalizer"
	"github.com/autodeal-hq/go-pricer/internal/orchestrator"
	"github.com/autodeal-hq/go-pricer/internal/predictor"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
	"github.com/autodeal-hq/go-pricer/internal/scraper/adapters"
	"github.com/autodeal-hq/go-pricer/internal/server"
	"github.com/autodeal-hq/go-pricer/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Cache backend ---
	var backend cache.Backend
	switch cfg.Cache.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis ping: %w", err)
		}
		defer client.Close()
		backend = cache.NewRedisBackend(client, cfg.Redis.Prefix, cfg.Cache.TTL)
	default:
		mb, err := cache.NewMemoryBackend(cfg.Cache.Capacity)
		if err != nil {
			return fmt.Errorf("memory backend: %w", err)
		}
		backend = mb
	}
	cacheStore := cache.NewStore(backend, cfg.Cache.TTL)

	// --- Prediction model ---
	model, err := predictor.LoadModel(cfg.Predictor.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	engine := predictor.NewEngine(model)
	logger.Info("model loaded", "path", cfg.Predictor.ModelPath, "version", model.Version)

	// --- Scraper adapters ---
	registry, err := adapters.Build(cfg.Scraper)
	if err != nil {
		return fmt.Errorf("build scrapers: %w", err)
	}

	// --- Persistence ---
	var listingStore store.ListingStore
	switch cfg.Store.Backend {
	case "postgres":
		ps, err := store.NewPostgresStore(cfg.Store.PostgresURL, cfg.Store.PostgresTable)
		if err != nil {
			return fmt.Errorf("postgres store: %w", err)
		}
		listingStore = ps
	case "elasticsearch":
		es, err := store.NewElasticsearchStore(cfg.Store.ElasticAddresses, cfg.Store.ElasticIndex)
		if err != nil {
			return fmt.Errorf("elasticsearch store: %w", err)
		}
		if err := es.EnsureIndex(ctx); err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		listingStore = es
	default:
		listingStore = store.NopStore{}
	}
	defer listingStore.Close()

	m := metrics.NewMetrics()
	rates := normalizer.NewRates()
	norm := normalizer.New(rates)

	orch := orchestrator.New(registry, norm, engine, cacheStore, listingStore, m, orchestrator.Options{
		MaxBatchURLs: cfg.Batch.MaxURLs,
		Concurrency:  cfg.Batch.MaxConcurrency,
		Retry: scraper.RetryPolicy{
			MaxRetries: cfg.Scraper.MaxRetries,
			Backoff:    cfg.Scraper.RetryBackoff,
		},
	})

	// --- Periodic jobs ---
	scheduler := cron.New()
	if cfg.Rates.URL != "" {
		_, err := scheduler.AddFunc(cfg.Rates.RefreshSpec, func() {
			if err := rates.FetchRates(context.Background(), cfg.Rates.URL); err != nil {
				logger.Warn("rate refresh failed", "error", err)
			} else {
				logger.Info("currency rates refreshed")
			}
		})
		if err != nil {
			return fmt.Errorf("schedule rate refresh: %w", err)
		}
	}
	scheduler.Start()
	defer scheduler.Stop()

	// --- HTTP server ---
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      server.New(orch, m, logger, cfg).Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server starting", "port", cfg.Server.Port, "cache", cfg.Cache.Backend, "store", cfg.Store.Backend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutCtx)
}
