// Package main implements a one-shot CLI: evaluate listing URLs passed
// as arguments and print the results as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/autodeal-hq/go-pricer/internal/cache"
	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/metrics"
	"github.com/autodeal-hq/go-pricer/internal/normalizer"
	"github.com/autodeal-hq/go-pricer/internal/orchestrator"
	"github.com/autodeal-hq/go-pricer/internal/predictor"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
	"github.com/autodeal-hq/go-pricer/internal/scraper/adapters"
	"github.com/autodeal-hq/go-pricer/internal/store"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <listing-url> [<listing-url>...]\n", os.Args[0])
		os.Exit(2)
	}
	urls := os.Args[1:]

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, urls); err != nil {
		logger.Error("scrape failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, urls []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := predictor.LoadModel(cfg.Predictor.ModelPath)
	if err != nil {
		return fmt.Errorf("load model: %w", err)
	}

	registry, err := adapters.Build(cfg.Scraper)
	if err != nil {
		return fmt.Errorf("build scrapers: %w", err)
	}

	backend, err := cache.NewMemoryBackend(cfg.Cache.Capacity)
	if err != nil {
		return fmt.Errorf("memory backend: %w", err)
	}

	orch := orchestrator.New(
		registry,
		normalizer.New(normalizer.NewRates()),
		predictor.NewEngine(model),
		cache.NewStore(backend, cfg.Cache.TTL),
		store.NopStore{},
		metrics.NewMetrics(),
		orchestrator.Options{
			MaxBatchURLs: cfg.Batch.MaxURLs,
			Concurrency:  cfg.Batch.MaxConcurrency,
			Retry: scraper.RetryPolicy{
				MaxRetries: cfg.Scraper.MaxRetries,
				Backoff:    cfg.Scraper.RetryBackoff,
			},
		},
	)

	job, err := orch.RunBatch(ctx, urls)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(job); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}

	if job.Summary.Failed > 0 && job.Summary.Successful == 0 {
		os.Exit(1)
	}
	return nil
}
