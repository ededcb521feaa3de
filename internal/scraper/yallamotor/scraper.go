// Package yallamotor implements the YallaMotor listing adapter.
package yallamotor

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1.usedcar-title",
	Price:     "div.usedcar-price",
	Location:  "span.usedcar-location",
	Images:    "ul.usedcar-slider img",
	Removed:   "div.car-sold-ribbon",
	SpecRow:   "div.usedcar-specs li",
	SpecLabel: "span.spec-name",
	SpecValue: "span.spec-val",
}

// specFields maps YallaMotor's English spec labels to raw field names.
// The site serves English labels even on Arabic locale pages.
var specFields = map[string]string{
	"spec:make":      "make",
	"spec:model":     "model",
	"spec:year":      "year",
	"spec:km driven": "mileage",
	"spec:condition": "condition",
	"spec:fuel type": "fuel",
}

type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformYallaMotor
}

func (s *Scraper) FetchListing(ctx context.Context, url string) (*domain.RawListing, error) {
	doc, err := s.fetcher.FetchDocument(ctx, url)
	if err != nil {
		return nil, err
	}

	if scraper.IsRemoved(doc, selectors) {
		return nil, domain.NotFoundError{URL: url}
	}

	raw := scraper.ExtractFields(doc, selectors)

	data := make(map[string]any, len(raw))
	for k, v := range raw {
		key := k
		if field, mapped := specFields[k]; mapped {
			key = field
		}
		if str, ok := v.(string); ok {
			// Values may still carry Arabic digits on localized pages
			v = scraper.NormalizeRTL(str)
		}
		if _, exists := data[key]; !exists {
			data[key] = v
		}
	}

	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no listing fields in document"}
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
