// Package carscom implements the Cars.com listing adapter.
package carscom

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:    "h1.listing-title",
	Price:    "span.primary-price",
	Mileage:  "div.listing-mileage",
	Location: "div.dealer-address",
	Images:   "div.gallery-slides img",
	Removed:  "div.unavailable-listing, div.listing-expired",
}

// Scraper fetches Cars.com listing pages. Detail pages publish a
// schema.org Vehicle block, so JSON-LD is the primary source and CSS
// selectors are the fallback.
type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformCarsCom
}

func (s *Scraper) FetchListing(ctx context.Context, url string) (*domain.RawListing, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	if scraper.IsRemoved(doc, selectors) {
		return nil, domain.NotFoundError{URL: url}
	}

	data := scraper.ExtractVehicleJSONLD(doc)
	if data == nil {
		data = scraper.ExtractFields(doc, selectors)
	}
	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no vehicle data in document"}
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = "USD"
	}
	if _, ok := data["mileage_unit"]; !ok {
		data["mileage_unit"] = "mi"
	}

	return &domain.RawListing{
		URL:         url,
		Platform:    s.Platform(),
		RawData:     data,
		ExtractedAt: time.Now(),
	}, nil
}
