// Package dubizzle implements the Dubizzle listing adapter.
//
// Dubizzle is a Next.js site; listing details live in the __NEXT_DATA__
// script payload. Markup falls back to Arabic/RTL text that must be
// normalized before extraction.
package dubizzle

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:    "h1[data-testid='listing-title']",
	Price:    "span[data-testid='listing-price']",
	Location: "span[data-testid='listing-location']",
	Images:   "div[data-testid='image-gallery'] img",
	Removed:  "div[data-testid='listing-unavailable']",
}

type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformDubizzle
}

func (s *Scraper) FetchListing(ctx context.Context, url string) (*domain.RawListing, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	if scraper.IsRemoved(doc, selectors) {
		return nil, domain.NotFoundError{URL: url}
	}

	data := parseNextData(doc.Find("script#__NEXT_DATA__").Text())
	if data == nil {
		data = scraper.ExtractFields(doc, selectors)
		normalizeRTLFields(data)
	}
	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no __NEXT_DATA__ and no fallback fields"}
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = "AED"
	}
	if _, ok := data["mileage_unit"]; !ok {
		data["mileage_unit"] = "km"
	}

	return &domain.RawListing{
		URL:         url,
		Platform:    s.Platform(),
		RawData:     data,
		ExtractedAt: time.Now(),
	}, nil
}

// parseNextData extracts the listing object from the Next.js data
// payload. Returns nil when the shape does not match.
func parseNextData(script string) map[string]any {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil
	}

	var payload struct {
		Props struct {
			PageProps struct {
				Listing map[string]any `json:"listing"`
			} `json:"pageProps"`
		} `json:"props"`
	}
	if err := json.Unmarshal([]byte(script), &payload); err != nil {
		return nil
	}
	listing := payload.Props.PageProps.Listing
	if len(listing) == 0 {
		return nil
	}

	data := make(map[string]any)
	copyKey := func(dst, src string) {
		if v, ok := listing[src]; ok && v != nil {
			data[dst] = v
		}
	}
	copyKey("title", "title")
	copyKey("make", "make")
	copyKey("model", "model")
	copyKey("year", "year")
	copyKey("mileage", "kilometers")
	copyKey("price", "price")
	copyKey("currency", "currency")
	copyKey("condition", "condition")
	copyKey("fuel", "fuel_type")
	copyKey("location", "neighbourhood")
	copyKey("images", "photos")

	normalizeRTLFields(data)
	if len(data) == 0 {
		return nil
	}
	return data
}

// normalizeRTLFields folds Arabic digits and bidi marks out of every
// string field so downstream parsing sees ASCII numbers.
func normalizeRTLFields(data map[string]any) {
	for k, v := range data {
		if s, ok := v.(string); ok {
			data[k] = scraper.NormalizeRTL(s)
		}
	}
}
