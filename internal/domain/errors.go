package domain

import (
	"errors"
	"fmt"
)

// UnsupportedPlatformError indicates no adapter matches the URL. Terminal.
type UnsupportedPlatformError struct {
	URL string
}

func (e UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported_platform: no adapter for %q", e.URL)
}

// NotFoundError indicates the listing is gone (HTTP 404 or a removed-listing
// page). Terminal, never retried.
type NotFoundError struct {
	URL string
	Err error
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("not_found: %s", e.URL)
}

func (e NotFoundError) Unwrap() error {
	return e.Err
}

// TimeoutError indicates the per-request deadline was exceeded.
type TimeoutError struct {
	URL string
	Err error
}

func (e TimeoutError) Error() string {
	return fmt.Errorf("timeout: %s: %w", e.URL, e.Err).Error()
}

func (e TimeoutError) Unwrap() error {
	return e.Err
}

// RateLimitedError indicates the target rate-limited the request (HTTP 429).
// Gets exactly one retry with backoff before surfacing.
type RateLimitedError struct {
	URL string
	Err error
}

func (e RateLimitedError) Error() string {
	return fmt.Sprintf("rate_limited: %s", e.URL)
}

func (e RateLimitedError) Unwrap() error {
	return e.Err
}

// ParseError indicates the page structure did not match the adapter's
// expectations. Terminal; the adapter needs updating, not a retry.
type ParseError struct {
	Platform Platform
	URL      string
	Reason   string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse: [%s] %s: %s", e.Platform, e.URL, e.Reason)
}

// IncompleteListingError indicates a required field (make/model/year) is
// missing after extraction.
type IncompleteListingError struct {
	Missing []string
}

func (e IncompleteListingError) Error() string {
	return fmt.Sprintf("incomplete_listing: missing required fields %v", e.Missing)
}

// ErrModelUnavailable means the regression model is not loaded. Fatal for
// the request, never crashes the process.
var ErrModelUnavailable = errors.New("model_unavailable: prediction model not loaded")

// BatchSizeExceededError rejects an oversized batch before any work starts.
type BatchSizeExceededError struct {
	Size int
	Max  int
}

func (e BatchSizeExceededError) Error() string {
	return fmt.Sprintf("batch_size_exceeded: %d urls (max %d)", e.Size, e.Max)
}

// ErrorKind maps an error to its taxonomy label, used for metrics labels,
// batch item reporting, and HTTP status selection.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	var unsupported UnsupportedPlatformError
	if errors.As(err, &unsupported) {
		return "unsupported_platform"
	}
	var notFound NotFoundError
	if errors.As(err, &notFound) {
		return "not_found"
	}
	var timeout TimeoutError
	if errors.As(err, &timeout) {
		return "timeout"
	}
	var rateLimited RateLimitedError
	if errors.As(err, &rateLimited) {
		return "rate_limited"
	}
	var parse ParseError
	if errors.As(err, &parse) {
		return "parse"
	}
	var incomplete IncompleteListingError
	if errors.As(err, &incomplete) {
		return "incomplete_listing"
	}
	if errors.Is(err, ErrModelUnavailable) {
		return "model_unavailable"
	}
	var tooBig BatchSizeExceededError
	if errors.As(err, &tooBig) {
		return "batch_size_exceeded"
	}
	return "other"
}
