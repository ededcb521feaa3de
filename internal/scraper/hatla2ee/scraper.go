// Package hatla2ee implements the Hatla2ee listing adapter.
package hatla2ee

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1.usedUnitCarName",
	Price:     "div.usedUnitCarPrice",
	Location:  "span.usedUnitLocation",
	Images:    "div.usedUnitSlider img",
	Removed:   "div.removedAdNotice",
	SpecRow:   "div.usedUnitSpecs li",
	SpecLabel: "span.DescLabel",
	SpecValue: "span.DescValue",
}

// specFields maps Hatla2ee's Arabic spec labels to raw field names.
var specFields = map[string]string{
	"spec:الماركة":     "make",
	"spec:الموديل":     "model",
	"spec:سنة الصنع":   "year",
	"spec:الكيلومترات": "mileage",
	"spec:الحالة":      "condition",
	"spec:نوع الوقود":  "fuel",
}

type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformHatla2ee
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
		s, ok := v.(string)
		if !ok {
			data[k] = v
			continue
		}
		key := k
		if field, mapped := specFields[scraper.NormalizeRTL(k)]; mapped {
			key = field
		}
		if _, exists := data[key]; !exists {
			data[key] = scraper.NormalizeRTL(s)
		}
	}

	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no listing fields in document"}
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = "EGP"
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
