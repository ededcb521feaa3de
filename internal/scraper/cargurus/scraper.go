// Package cargurus implements the CarGurus listing adapter.
package cargurus

import (
	"context"
	"strings"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1.Jvlsfj",
	Price:     "span._3RZp1c",
	Location:  "p._2EogPy",
	Images:    "div.image-gallery img",
	Removed:   "div.listing-not-available",
	SpecRow:   "section.vdp-specs tr",
	SpecLabel: "th",
	SpecValue: "td",
}

// Scraper fetches CarGurus listing pages. CarGurus renders specs into a
// table; mileage, fuel and condition come from spec rows keyed by label.
type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformCarGurus
}

func (s *Scraper) FetchListing(ctx context.Context, url string) (*domain.RawListing, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	if scraper.IsRemoved(doc, selectors) {
		return nil, domain.NotFoundError{URL: url}
	}

	data := scraper.ExtractFields(doc, selectors)
	if ld := scraper.ExtractVehicleJSONLD(doc); ld != nil {
		for k, v := range ld {
			if _, exists := data[k]; !exists {
				data[k] = v
			}
		}
	}
	liftSpecs(data)

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

// liftSpecs promotes known spec-table rows to top-level raw fields.
func liftSpecs(data map[string]any) {
	for key, field := range map[string]string{
		"spec:mileage":   "mileage",
		"spec:fuel type": "fuel",
		"spec:condition": "condition",
		"spec:make":      "make",
		"spec:model":     "model",
		"spec:year":      "year",
	} {
		if v, ok := data[key]; ok {
			if _, exists := data[field]; !exists {
				if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
					data[field] = s
				}
			}
		}
	}
}
