package dubizzle

import (
	"context"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/autodeal-hq/go-pricer/internal/config"
	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

func newTestScraper(t *testing.T, transport *httpmock.MockTransport) *Scraper {
	t.Helper()
	fetcher, err := scraper.NewFetcher(config.ScraperConfig{
		Timeout:      5 * time.Second,
		RetryBackoff: time.Millisecond,
		UserAgent:    "test-agent",
	})
	if err != nil {
		t.Fatal(err)
	}
	fetcher.WithTransport(transport)
	return New(fetcher)
}

// Mileage and price carry Arabic-Indic digits, as Dubizzle serves them
// on Arabic-locale pages.
const nextDataPage = `
<html><head>
<script id="__NEXT_DATA__" type="application/json">
{
	"props": {
		"pageProps": {
			"listing": {
				"title": "Nissan Patrol Platinum",
				"make": "Nissan",
				"model": "Patrol",
				"year": 2021,
				"kilometers": "٥٥٠٠٠",
				"price": "١٨٥٠٠٠",
				"currency": "AED",
				"fuel_type": "بنزين",
				"neighbourhood": "دبي"
			}
		}
	}
}
</script>
</head><body></body></html>`

const fallbackPage = `
<html><body>
	<h1 data-testid="listing-title">Toyota Land Cruiser GXR</h1>
	<span data-testid="listing-price">٢٥٠٬٠٠٠ درهم</span>
	<span data-testid="listing-location">أبوظبي</span>
</body></html>`

func TestFetchListingNextData(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://dubizzle.test/motors/1",
		httpmock.NewStringResponder(200, nextDataPage))

	s := newTestScraper(t, transport)
	raw, err := s.FetchListing(context.Background(), "http://dubizzle.test/motors/1")
	if err != nil {
		t.Fatalf("FetchListing() error = %v", err)
	}

	if raw.Platform != domain.PlatformDubizzle {
		t.Errorf("Platform = %v", raw.Platform)
	}
	if raw.RawData["make"] != "Nissan" || raw.RawData["model"] != "Patrol" {
		t.Errorf("RawData = %v", raw.RawData)
	}
	// Arabic-Indic digits fold to ASCII during extraction.
	if raw.RawData["mileage"] != "55000" {
		t.Errorf("mileage = %v, want 55000", raw.RawData["mileage"])
	}
	if raw.RawData["price"] != "185000" {
		t.Errorf("price = %v, want 185000", raw.RawData["price"])
	}
	if raw.RawData["mileage_unit"] != "km" {
		t.Errorf("mileage_unit = %v, want km default", raw.RawData["mileage_unit"])
	}
}

func TestFetchListingSelectorFallback(t *testing.T) {
	transport := httpmock.NewMockTransport()
	transport.RegisterResponder("GET", "http://dubizzle.test/motors/2",
		httpmock.NewStringResponder(200, fallbackPage))

	s := newTestScraper(t, transport)
	raw, err := s.FetchListing(context.Background(), "http://dubizzle.test/motors/2")
	if err != nil {
		t.Fatalf("FetchListing() error = %v", err)
	}

	if raw.RawData["title"] != "Toyota Land Cruiser GXR" {
		t.Errorf("title = %v", raw.RawData["title"])
	}
	if raw.RawData["currency"] != "AED" {
		t.Errorf("currency = %v, want AED default", raw.RawData["currency"])
	}
}
