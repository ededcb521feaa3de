package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selectors defines the CSS selectors an HTML adapter reads its fields
// from. Empty selectors are skipped.
type Selectors struct {
	Title     string
	Make      string
	Model     string
	Year      string
	Mileage   string
	Price     string
	Currency  string
	Condition string
	Fuel      string
	Location  string
	// Images selects img elements; src then data-src are consulted
	Images string
	// Removed marks the "listing no longer available" page structure
	Removed string
	// Spec rows: label/value pairs in a details table
	SpecRow, SpecLabel, SpecValue string
}

// ExtractFields pulls raw string fields out of a listing document.
// Values are trimmed but otherwise untouched; unit and currency handling
// belongs to the normalizer.
func ExtractFields(doc *goquery.Document, sel Selectors) map[string]any {
	data := make(map[string]any)

	put := useSelector(doc, data)
	put("title", sel.Title)
	put("make", sel.Make)
	put("model", sel.Model)
	put("year", sel.Year)
	put("mileage", sel.Mileage)
	put("price", sel.Price)
	put("currency", sel.Currency)
	put("condition", sel.Condition)
	put("fuel", sel.Fuel)
	put("location", sel.Location)

	if sel.Images != "" {
		var images []string
		doc.Find(sel.Images).Each(func(_ int, s *goquery.Selection) {
			src, ok := s.Attr("src")
			if !ok || src == "" {
				src, _ = s.Attr("data-src")
			}
			if src != "" && !strings.HasPrefix(src, "data:") {
				images = append(images, src)
			}
		})
		if len(images) > 0 {
			data["images"] = images
		}
	}

	if sel.SpecRow != "" {
		doc.Find(sel.SpecRow).Each(func(_ int, row *goquery.Selection) {
			label := strings.TrimSpace(row.Find(sel.SpecLabel).Text())
			value := strings.TrimSpace(row.Find(sel.SpecValue).Text())
			if label == "" || value == "" {
				return
			}
			data["spec:"+strings.ToLower(label)] = value
		})
	}

	return data
}

// IsRemoved reports whether the document matches the platform's
// "listing removed" page structure.
func IsRemoved(doc *goquery.Document, sel Selectors) bool {
	return sel.Removed != "" && doc.Find(sel.Removed).Length() > 0
}

func useSelector(doc *goquery.Document, data map[string]any) func(key, selector string) {
	return func(key, selector string) {
		if selector == "" {
			return
		}
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			data[key] = text
		}
	}
}
