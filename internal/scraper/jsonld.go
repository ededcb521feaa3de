package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// vehicleTypes are the schema.org types car marketplaces publish for
// listing pages.
var vehicleTypes = map[string]struct{}{
	"Vehicle": {},
	"Car":     {},
	"Product": {},
}

// ExtractVehicleJSONLD scans ld+json script blocks for a schema.org
// vehicle object and flattens the fields adapters care about. Returns
// nil when no usable block exists, letting callers fall back to CSS
// selectors.
func ExtractVehicleJSONLD(doc *goquery.Document) map[string]any {
	var found map[string]any

	doc.Find("script[type='application/ld+json']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.Text())
		if content == "" {
			return true
		}

		var raw any
		if err := json.Unmarshal([]byte(content), &raw); err != nil {
			return true
		}

		for _, obj := range jsonLDObjects(raw) {
			if flat := flattenVehicle(obj); flat != nil {
				found = flat
				return false
			}
		}
		return true
	})

	return found
}

// jsonLDObjects unwraps a JSON-LD payload, which may be a single object,
// an array, or a @graph container.
func jsonLDObjects(raw any) []map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []map[string]any
			for _, g := range graph {
				if m, ok := g.(map[string]any); ok {
					out = append(out, m)
				}
			}
			return out
		}
		return []map[string]any{v}
	case []any:
		var out []map[string]any
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func flattenVehicle(obj map[string]any) map[string]any {
	typeName, _ := obj["@type"].(string)
	if _, ok := vehicleTypes[typeName]; !ok {
		return nil
	}

	data := make(map[string]any)

	if name := asString(obj["name"]); name != "" {
		data["title"] = name
	}
	if brand := nestedName(obj["brand"]); brand != "" {
		data["make"] = brand
	}
	if model := nestedName(obj["model"]); model != "" {
		data["model"] = model
	}
	if year := asString(obj["vehicleModelDate"]); year != "" {
		data["year"] = year
	} else if year := asString(obj["productionDate"]); year != "" {
		data["year"] = year
	}
	if fuel := asString(obj["fuelType"]); fuel != "" {
		data["fuel"] = fuel
	}
	if cond := asString(obj["itemCondition"]); cond != "" {
		data["condition"] = strings.TrimPrefix(cond, "https://schema.org/")
	}

	if odo, ok := obj["mileageFromOdometer"].(map[string]any); ok {
		if value := asString(odo["value"]); value != "" {
			data["mileage"] = value
		}
		if unit := asString(odo["unitCode"]); unit != "" {
			// UN/CEFACT: KMT = kilometres, SMI = statute miles
			data["mileage_unit"] = unit
		}
	}

	if offers, ok := obj["offers"].(map[string]any); ok {
		if price := asString(offers["price"]); price != "" {
			data["price"] = price
		}
		if currency := asString(offers["priceCurrency"]); currency != "" {
			data["currency"] = currency
		}
	}

	switch img := obj["image"].(type) {
	case string:
		if img != "" {
			data["images"] = []string{img}
		}
	case []any:
		var images []string
		for _, item := range img {
			if s, ok := item.(string); ok && s != "" {
				images = append(images, s)
			}
		}
		if len(images) > 0 {
			data["images"] = images
		}
	}

	if len(data) == 0 {
		return nil
	}
	return data
}

func asString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func nestedName(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		return asString(val["name"])
	}
	return ""
}
