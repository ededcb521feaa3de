package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the prediction service.
type Metrics struct {
	Registry         *prometheus.Registry
	ScrapesTotal     *prometheus.CounterVec
	ScrapeDuration   *prometheus.HistogramVec
	PredictionsTotal prometheus.Counter
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	ErrorsTotal      *prometheus.CounterVec
	BatchURLsTotal   prometheus.Counter
	InflightScrapes  prometheus.Gauge
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
}

// NewMetrics constructs and registers all collectors on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	scrapes := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricer_scrapes_total",
			Help: "Total listing scrape attempts by platform.",
		},
		[]string{"platform"},
	)
	scrapeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pricer_scrape_duration_seconds",
			Help:    "Listing fetch and parse latency by platform.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"platform"},
	)
	predictions := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricer_predictions_total",
			Help: "Total successful price predictions.",
		},
	)
	cacheHits := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricer_cache_hits_total",
			Help: "Evaluations served from cache.",
		},
	)
	cacheMisses := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricer_cache_misses_total",
			Help: "Evaluations that required a fresh scrape.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricer_errors_total",
			Help: "Total pipeline errors by kind.",
		},
		[]string{"kind"},
	)
	batchURLs := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricer_batch_urls_total",
			Help: "Total URLs accepted into batch jobs.",
		},
	)
	inflight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricer_inflight_scrapes",
			Help: "Scrapes currently in progress.",
		},
	)
	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricer_http_requests_total",
			Help: "Total HTTP API requests by path and status.",
		},
		[]string{"path", "status"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricer_http_request_duration_seconds",
			Help:    "HTTP API request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)

	registry.MustRegister(
		scrapes, scrapeDuration, predictions, cacheHits, cacheMisses,
		errorsTotal, batchURLs, inflight, requests, requestDuration,
	)

	return &Metrics{
		Registry:         registry,
		ScrapesTotal:     scrapes,
		ScrapeDuration:   scrapeDuration,
		PredictionsTotal: predictions,
		CacheHitsTotal:   cacheHits,
		CacheMissesTotal: cacheMisses,
		ErrorsTotal:      errorsTotal,
		BatchURLsTotal:   batchURLs,
		InflightScrapes:  inflight,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
	}
}

// IncScrape increments the scrape counter for a platform.
func (m *Metrics) IncScrape(platform string) {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(platform).Inc()
}

// ObserveScrape records a scrape duration for a platform.
func (m *Metrics) ObserveScrape(platform string, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.WithLabelValues(platform).Observe(d.Seconds())
}

// IncPrediction increments the successful prediction counter.
func (m *Metrics) IncPrediction() {
	if m == nil {
		return
	}
	m.PredictionsTotal.Inc()
}

// ScrapeStarted marks a fetch in flight; call the returned func when done.
func (m *Metrics) ScrapeStarted() func() {
	if m == nil {
		return func() {}
	}
	m.InflightScrapes.Inc()
	return m.InflightScrapes.Dec
}

// IncCacheHit increments the cache hit counter.
func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHitsTotal.Inc()
}

// IncCacheMiss increments the cache miss counter.
func (m *Metrics) IncCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMissesTotal.Inc()
}

// IncError increments the errors counter for a kind label.
func (m *Metrics) IncError(kind string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(kind).Inc()
}

// AddBatchURLs counts URLs accepted into a batch job.
func (m *Metrics) AddBatchURLs(n int) {
	if m == nil {
		return
	}
	m.BatchURLsTotal.Add(float64(n))
}

// IncRequest increments the HTTP request counter.
func (m *Metrics) IncRequest(path, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(path, status).Inc()
}

// ObserveRequest records an HTTP request duration.
func (m *Metrics) ObserveRequest(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}
