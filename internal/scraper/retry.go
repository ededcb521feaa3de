package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// RetryPolicy controls how fetches react to transient failures. It is
// injected rather than hard-coded so per-platform tuning and tests can
// shrink the backoff to nothing.
type RetryPolicy struct {
	// MaxRetries is the number of re-attempts after the first try.
	// Rate-limited and timed-out responses are the only retryable kinds.
	MaxRetries int
	// Backoff is the wait before the first retry; it doubles per attempt.
	Backoff time.Duration
}

// DefaultRetryPolicy retries rate-limited fetches exactly once.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 1,
	Backoff:    2 * time.Second,
}

// Retryable reports whether an error warrants another attempt.
// NotFound, ParseError and unsupported-platform failures are terminal.
func Retryable(err error) bool {
	var rateLimited domain.RateLimitedError
	if errors.As(err, &rateLimited) {
		return true
	}
	var timeout domain.TimeoutError
	return errors.As(err, &timeout)
}

// Do runs fn under the policy, sleeping with doubling backoff between
// retryable failures. Context cancellation cuts the wait short.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	var lastErr error
	wait := p.Backoff

	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !Retryable(lastErr) || attempt == p.MaxRetries {
			return lastErr
		}

		select {
		case <-ctx.Done():
			return lastErr
		case <-time.After(wait):
		}
		wait *= 2
	}
	return lastErr
}
