package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"

	"github.com/PuerkitoBio/goquery"
	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/gocolly/colly/v2"
)

// activeFetches counts in-flight page fetches across all adapters,
// exposed through the health endpoint.
var activeFetches int64

// ActiveFetches returns the number of fetches currently in flight.
func ActiveFetches() int64 {
	return atomic.LoadInt64(&activeFetches)
}

// Fetcher is the shared page-fetching core. Each adapter owns one
// instance so pacing applies per adapter, not globally serialized.
type Fetcher struct {
	collector *colly.Collector
}

// NewFetcher builds a fetcher configured from the scraper config.
// Pacing (base delay plus random jitter) is enforced by colly's limit
// rule before every request.
func NewFetcher(cfg config.ScraperConfig) (*Fetcher, error) {
	c := colly.NewCollector(
		colly.UserAgent(cfg.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(cfg.Timeout)

	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.DelayBase,
		RandomDelay: cfg.DelayJitter,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	return &Fetcher{collector: c}, nil
}

// WithTransport swaps the underlying HTTP transport. Tests use this to
// install an httpmock transport.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}

// FetchDocument retrieves a listing page and parses it into a goquery
// document. HTTP statuses are classified into the error taxonomy:
// 404/410 NotFoundError, 429 RateLimitedError, timeouts TimeoutError.
// Each call is a single attempt; the retry policy lives one layer up
// so a retried fetch never multiplies into nested budgets.
func (f *Fetcher) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.TimeoutError{URL: url, Err: err}
	}

	atomic.AddInt64(&activeFetches, 1)
	defer atomic.AddInt64(&activeFetches, -1)

	var body []byte
	var fetchErr error

	collector := f.collector.Clone()
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	collector.OnError(func(r *colly.Response, err error) {
		statusCode := 0
		if r != nil {
			statusCode = r.StatusCode
		}
		fetchErr = classify(url, err, statusCode)
	})

	if err := collector.Visit(url); err != nil {
		if fetchErr == nil {
			fetchErr = classify(url, err, 0)
		}
	}
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if len(body) == 0 {
		return nil, domain.ParseError{URL: url, Reason: "empty response body"}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, domain.ParseError{URL: url, Reason: fmt.Sprintf("parse html: %v", err)}
	}
	return doc, nil
}

// classify maps a transport error and status code onto the taxonomy.
func classify(url string, err error, statusCode int) error {
	switch statusCode {
	case http.StatusNotFound, http.StatusGone:
		return domain.NotFoundError{URL: url, Err: err}
	case http.StatusTooManyRequests:
		return domain.RateLimitedError{URL: url, Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return domain.TimeoutError{URL: url, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.TimeoutError{URL: url, Err: err}
	}

	if err == nil {
		err = fmt.Errorf("http status %d", statusCode)
	}
	return fmt.Errorf("fetch %s: %w", url, err)
}
