// Package syarah implements the Syarah listing adapter.
package syarah

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1.post-title",
	Price:     "div.post-price strong",
	Mileage:   "span.odometer-value",
	Condition: "span.car-condition",
	Fuel:      "span.fuel-type",
	Location:  "div.showroom-city",
	Images:    "div.car-gallery img",
	Removed:   "div.sold-out-banner",
}

// Scraper fetches Syarah listing pages. Syarah publishes schema.org
// vehicle data for SEO; the Arabic markup is only a fallback.
type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformSyarah
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
	for k, v := range data {
		if str, ok := v.(string); ok {
			data[k] = scraper.NormalizeRTL(str)
		}
	}

	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no vehicle data in document"}
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = "SAR"
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
