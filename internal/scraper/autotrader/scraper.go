// Package autotrader implements the AutoTrader listing adapter.
package autotrader

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1[data-cmp='heading']",
	Price:     "span[data-cmp='firstPrice']",
	Mileage:   "div[data-cmp='mileageSpecification']",
	Location:  "div[data-cmp='ownerDistance']",
	Images:    "div[data-cmp='mediaGallery'] img",
	Removed:   "div[data-cmp='expiredListing']",
	SpecRow:   "div[data-cmp='listColumns'] li",
	SpecLabel: "span.label",
	SpecValue: "span.value",
}

// Scraper fetches AutoTrader listing pages.
type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformAutoTrader
}

func (s *Scraper) FetchListing(ctx context.Context, url string) (*domain.RawListing, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	if scraper.IsRemoved(doc, selectors) {
		return nil, domain.NotFoundError{URL: url}
	}

	// JSON-LD is present on most detail pages but spec rows carry the
	// condition and fuel fields it omits, so merge both.
	data := scraper.ExtractFields(doc, selectors)
	if ld := scraper.ExtractVehicleJSONLD(doc); ld != nil {
		for k, v := range ld {
			if _, exists := data[k]; !exists {
				data[k] = v
			}
		}
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
