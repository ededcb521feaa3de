// Package server exposes the prediction pipeline over HTTP.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/metrics"
	"github.com/autodeal-hq/go-pricer/internal/normalizer"
	"github.com/autodeal-hq/go-pricer/internal/orchestrator"
	"github.com/autodeal-hq/go-pricer/internal/platform"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

// Server holds the HTTP handler dependencies.
type Server struct {
	orch    *orchestrator.Orchestrator
	metrics *metrics.Metrics
	logger  *slog.Logger
	limiter *IPLimiter
	cors    string
}

func New(orch *orchestrator.Orchestrator, m *metrics.Metrics, logger *slog.Logger, cfg *config.Config) *Server {
	return &Server{
		orch:    orch,
		metrics: m,
		logger:  logger,
		limiter: NewIPLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window),
		cors:    cfg.Server.CORSOrigin,
	}
}

// Handler builds the routed, middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/platforms", s.handlePlatforms)
	mux.HandleFunc("POST /api/predict/from-url", s.handlePredictFromURL)
	mux.HandleFunc("POST /api/predict/batch", s.handlePredictBatch)
	mux.HandleFunc("POST /api/predict/from-details", s.handlePredictFromDetails)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}))

	return Chain(mux,
		Recover(s.logger),
		Logger(s.logger),
		Instrument(s.metrics),
		CORS(s.cors),
		RateLimit(s.limiter),
	)
}

// statusFor maps the error taxonomy onto HTTP status codes for the
// single-URL endpoints. Batch endpoints never use this; they report
// failures per item inside a 200.
func statusFor(err error) int {
	switch domain.ErrorKind(err) {
	case "unsupported_platform":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "timeout":
		return http.StatusRequestTimeout
	case "rate_limited":
		return http.StatusTooManyRequests
	case "batch_size_exceeded":
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]any{
		"success": false,
		"error":   err.Error(),
		"kind":    domain.ErrorKind(err),
	})
}

func (s *Server) handlePlatforms(w http.ResponseWriter, _ *http.Request) {
	supported := platform.Supported()
	writeJSON(w, http.StatusOK, map[string]any{
		"supported": supported,
		"count":     len(supported),
	})
}

// PredictURLRequest is the JSON body for POST /api/predict/from-url.
type PredictURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handlePredictFromURL(w http.ResponseWriter, r *http.Request) {
	var req PredictURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}
	if req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "url is required",
		})
		return
	}

	refresh := r.URL.Query().Get("refresh") == "1"

	eval, cached, err := s.orch.EvaluateURL(r.Context(), req.URL, refresh)
	if err != nil {
		s.logger.Error("predict from url", "url", req.URL, "kind", domain.ErrorKind(err), "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cached":  cached,
		"data":    eval,
	})
}

// PredictBatchRequest is the JSON body for POST /api/predict/batch.
type PredictBatchRequest struct {
	URLs []string `json:"urls"`
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	var req PredictBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	job, err := s.orch.RunBatch(r.Context(), req.URLs)
	if err != nil {
		// Only an oversized batch fails as a whole.
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"results": job.Items,
		"summary": job.Summary,
	})
}

func (s *Server) handlePredictFromDetails(w http.ResponseWriter, r *http.Request) {
	var details normalizer.Details
	if err := json.NewDecoder(r.Body).Decode(&details); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "invalid request body",
		})
		return
	}

	eval, err := s.orch.EvaluateDetails(details)
	if err != nil {
		// Missing required details is a client error here, unlike the
		// scrape path where it reflects the page content.
		if domain.ErrorKind(err) == "incomplete_listing" {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   err.Error(),
				"kind":    domain.ErrorKind(err),
			})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"prediction": eval.Prediction,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"active_scrapes": scraper.ActiveFetches(),
		"cache_size":     s.orch.CacheSize(r.Context()),
	})
}
