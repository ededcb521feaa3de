// Package orchestrator runs the scrape, normalize, predict pipeline and
// fans batches out over a bounded worker pool.
package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/cache"
	"github.com/autodeal-hq/go-pricer/internal/cleaner"
	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/metrics"
	"github.com/autodeal-hq/go-pricer/internal/normalizer"
	"github.com/autodeal-hq/go-pricer/internal/platform"
	"github.com/autodeal-hq/go-pricer/internal/predictor"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
	"github.com/autodeal-hq/go-pricer/internal/store"
)

// Orchestrator wires the pipeline stages together. All stages are
// injected so tests can substitute any of them.
type Orchestrator struct {
	scrapers   scraper.Registry
	cleaner    *cleaner.Cleaner
	normalizer *normalizer.Normalizer
	engine     *predictor.Engine
	cache      *cache.Store
	store      store.ListingStore
	metrics    *metrics.Metrics
	retry      scraper.RetryPolicy

	maxBatchURLs int
	concurrency  int
}

// Options bundle the orchestrator's tunables.
type Options struct {
	MaxBatchURLs int
	Concurrency  int
	Retry        scraper.RetryPolicy
}

func New(
	scrapers scraper.Registry,
	norm *normalizer.Normalizer,
	engine *predictor.Engine,
	cacheStore *cache.Store,
	listingStore store.ListingStore,
	m *metrics.Metrics,
	opts Options,
) *Orchestrator {
	if opts.MaxBatchURLs <= 0 {
		opts.MaxBatchURLs = 100
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	if opts.Retry.MaxRetries == 0 && opts.Retry.Backoff == 0 {
		opts.Retry = scraper.DefaultRetryPolicy
	}
	if listingStore == nil {
		listingStore = store.NopStore{}
	}
	return &Orchestrator{
		scrapers:     scrapers,
		cleaner:      cleaner.New(),
		normalizer:   norm,
		engine:       engine,
		cache:        cacheStore,
		store:        listingStore,
		metrics:      m,
		retry:        opts.Retry,
		maxBatchURLs: opts.MaxBatchURLs,
		concurrency:  opts.Concurrency,
	}
}

// EvaluateURL runs the full pipeline for one listing URL. The cached
// return reports whether the evaluation was served from cache. With
// refresh set, any cached entry is dropped first.
func (o *Orchestrator) EvaluateURL(ctx context.Context, rawURL string, refresh bool) (*domain.Evaluation, bool, error) {
	eval, cached, normalized, err := o.lookup(ctx, rawURL, refresh)
	if err != nil {
		return nil, false, err
	}
	if !cached {
		if err := o.store.Save(ctx, normalized, eval); err != nil {
			slog.Warn("persist listing", "url", normalized, "error", err)
		}
	}
	return eval, cached, nil
}

// lookup resolves a URL through detection, normalization and the cache.
// Persistence is left to the caller: single evaluations save per item,
// batches collect fresh results and save them in one round trip.
func (o *Orchestrator) lookup(ctx context.Context, rawURL string, refresh bool) (*domain.Evaluation, bool, string, error) {
	p, err := platform.Detect(rawURL)
	if err != nil {
		o.metrics.IncError(domain.ErrorKind(err))
		return nil, false, "", err
	}

	normalized := platform.NormalizeURL(rawURL)
	key := cache.Key(normalized)

	if refresh {
		if err := o.cache.Invalidate(ctx, key); err != nil {
			slog.Warn("cache invalidate", "url", normalized, "error", err)
		}
	}

	eval, cached, err := o.cache.GetOrCompute(ctx, key, func(ctx context.Context) (*domain.Evaluation, error) {
		return o.evaluate(ctx, p, normalized)
	})
	if err != nil {
		o.metrics.IncError(domain.ErrorKind(err))
		return nil, false, "", err
	}

	if cached {
		o.metrics.IncCacheHit()
	} else {
		o.metrics.IncCacheMiss()
	}
	return eval, cached, normalized, nil
}

// evaluate is the uncached pipeline: scrape, clean, normalize, predict.
func (o *Orchestrator) evaluate(ctx context.Context, p domain.Platform, url string) (*domain.Evaluation, error) {
	adapter := o.scrapers.Get(p)
	if adapter == nil {
		return nil, domain.UnsupportedPlatformError{URL: url}
	}

	start := time.Now()
	o.metrics.IncScrape(string(p))
	done := o.metrics.ScrapeStarted()

	var raw *domain.RawListing
	err := o.retry.Do(ctx, func() error {
		var fetchErr error
		raw, fetchErr = adapter.FetchListing(ctx, url)
		return fetchErr
	})
	done()
	o.metrics.ObserveScrape(string(p), time.Since(start))
	if err != nil {
		return nil, err
	}

	raw.RawData = o.cleaner.CleanMap(raw.RawData)

	features, err := o.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	prediction, err := o.engine.Predict(features)
	if err != nil {
		return nil, err
	}
	o.metrics.IncPrediction()

	return &domain.Evaluation{Features: features, Prediction: prediction}, nil
}

// EvaluateDetails predicts from user-supplied attributes, skipping the
// scrape and cache entirely.
func (o *Orchestrator) EvaluateDetails(details normalizer.Details) (*domain.Evaluation, error) {
	features, err := o.normalizer.NormalizeDetails(details)
	if err != nil {
		o.metrics.IncError(domain.ErrorKind(err))
		return nil, err
	}

	prediction, err := o.engine.Predict(features)
	if err != nil {
		o.metrics.IncError(domain.ErrorKind(err))
		return nil, err
	}
	o.metrics.IncPrediction()

	return &domain.Evaluation{Features: features, Prediction: prediction}, nil
}

// RunBatch evaluates up to the configured maximum of URLs with a bounded
// worker pool. Results keep input order. Individual failures are
// recorded per item and never abort the batch; only an oversized request
// fails as a whole.
func (o *Orchestrator) RunBatch(ctx context.Context, urls []string) (*domain.BatchJob, error) {
	if len(urls) > o.maxBatchURLs {
		return nil, domain.BatchSizeExceededError{Size: len(urls), Max: o.maxBatchURLs}
	}
	o.metrics.AddBatchURLs(len(urls))

	job := &domain.BatchJob{
		Items: make([]domain.BatchItem, len(urls)),
	}

	sem := make(chan struct{}, o.concurrency)
	var wg sync.WaitGroup

	// Fresh evaluations are persisted in one SaveBatch after the pool
	// drains; cache hits were already saved when first computed.
	var mu sync.Mutex
	fresh := make(map[string]*domain.Evaluation)

	for i, url := range urls {
		wg.Add(1)
		go func(i int, url string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				job.Items[i] = domain.BatchItem{
					URL:   url,
					Error: ctx.Err().Error(),
					Kind:  domain.ErrorKind(ctx.Err()),
				}
				return
			}

			eval, cached, normalized, err := o.lookup(ctx, url, false)
			if err != nil {
				job.Items[i] = domain.BatchItem{
					URL:   url,
					Error: err.Error(),
					Kind:  domain.ErrorKind(err),
				}
				return
			}
			if !cached {
				mu.Lock()
				fresh[normalized] = eval
				mu.Unlock()
			}
			job.Items[i] = domain.BatchItem{
				URL:     url,
				Success: true,
				Result:  eval,
			}
		}(i, url)
	}
	wg.Wait()

	if len(fresh) > 0 {
		if err := o.store.SaveBatch(ctx, fresh); err != nil {
			slog.Warn("persist batch", "count", len(fresh), "error", err)
		}
	}

	job.Summary.Total = len(urls)
	for _, item := range job.Items {
		if item.Success {
			job.Summary.Successful++
		} else {
			job.Summary.Failed++
		}
	}
	return job, nil
}

// CacheSize reports the number of cached evaluations for health checks.
func (o *Orchestrator) CacheSize(ctx context.Context) int {
	return o.cache.Size(ctx)
}
