package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/domain"
)

func testFetcher(t *testing.T, transport *httpmock.MockTransport) *Fetcher {
	t.Helper()
	f, err := NewFetcher(config.ScraperConfig{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryBackoff: time.Millisecond,
		UserAgent:    "test-agent",
	})
	if err != nil {
		t.Fatal(err)
	}
	f.WithTransport(transport)
	return f
}

func TestFetchDocumentParsesHTML(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/listing/1",
		httpmock.NewStringResponder(200, `<html><body><h1 class="title">2019 Toyota Camry</h1></body></html>`))

	f := testFetcher(t, transport)
	doc, err := f.FetchDocument(context.Background(), "http://example.test/listing/1")
	if err != nil {
		t.Fatalf("FetchDocument() error = %v", err)
	}
	if got := doc.Find("h1.title").Text(); got != "2019 Toyota Camry" {
		t.Errorf("title = %q", got)
	}
}

func TestFetchDocumentStatusClassification(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
		want   string
	}{
		{404, func(err error) bool { var e domain.NotFoundError; return errors.As(err, &e) }, "NotFoundError"},
		{410, func(err error) bool { var e domain.NotFoundError; return errors.As(err, &e) }, "NotFoundError"},
		{429, func(err error) bool { var e domain.RateLimitedError; return errors.As(err, &e) }, "RateLimitedError"},
	}

	for _, tt := range tests {
		transport := httpmock.NewMockTransport()
		transport.RegisterResponder("GET", "http://example.test/listing/x",
			httpmock.NewStringResponder(tt.status, ""))

		f := testFetcher(t, transport)
		_, err := f.FetchDocument(context.Background(), "http://example.test/listing/x")
		if err == nil || !tt.check(err) {
			t.Errorf("status %d: error = %v, want %s", tt.status, err, tt.want)
		}
	}
}

func TestFetchDocumentEmptyBody(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/listing/empty",
		httpmock.NewStringResponder(200, ""))

	f := testFetcher(t, transport)
	_, err := f.FetchDocument(context.Background(), "http://example.test/listing/empty")
	var parse domain.ParseError
	if !errors.As(err, &parse) {
		t.Errorf("error = %v, want ParseError for empty body", err)
	}
}

func TestFetchDocumentCancelledContext(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://example.test/listing/1",
		httpmock.NewStringResponder(200, "<html></html>"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := testFetcher(t, transport)
	_, err := f.FetchDocument(ctx, "http://example.test/listing/1")
	var timeout domain.TimeoutError
	if !errors.As(err, &timeout) {
		t.Errorf("error = %v, want TimeoutError for cancelled context", err)
	}
}
