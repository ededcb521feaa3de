// Package opensooq implements the OpenSooq listing adapter.
package opensooq

import (
	"context"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
	"github.com/autodeal-hq/go-pricer/internal/scraper"
)

var selectors = scraper.Selectors{
	Title:     "h1.postTitle",
	Price:     "div.postPrice",
	Location:  "span.postLocation",
	Images:    "div.postImages img",
	Removed:   "div.deletedPost",
	SpecRow:   "ul.specsList li",
	SpecLabel: "span.specLabel",
	SpecValue: "span.specValue",
}

// specFields maps OpenSooq's Arabic spec labels (post RTL normalization)
// to raw field names.
var specFields = map[string]string{
	"spec:الماركة":          "make",
	"spec:الموديل":          "model",
	"spec:سنة الصنع":        "year",
	"spec:المسافة المقطوعة": "mileage",
	"spec:حالة السيارة":     "condition",
	"spec:نوع الوقود":       "fuel",
}

// Scraper fetches OpenSooq listing pages. All field text is Arabic and
// passes through RTL normalization before the spec labels are matched.
type Scraper struct {
	fetcher *scraper.Fetcher
}

func New(fetcher *scraper.Fetcher) *Scraper {
	return &Scraper{fetcher: fetcher}
}

func (s *Scraper) Platform() domain.Platform {
	return domain.PlatformOpenSooq
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
		normalized := scraper.NormalizeRTL(s)
		key := k
		if field, mapped := specFields[scraper.NormalizeRTL(k)]; mapped {
			key = field
		}
		if _, exists := data[key]; !exists {
			data[key] = normalized
		}
	}

	if len(data) == 0 {
		return nil, domain.ParseError{Platform: s.Platform(), URL: url, Reason: "no listing fields in document"}
	}

	if _, ok := data["currency"]; !ok {
		data["currency"] = "JOD"
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
