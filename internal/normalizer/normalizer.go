// Package normalizer converts raw extracted listings into the canonical
// feature record. Normalization is pure: no I/O, and re-normalizing the
// same input yields an identical result.
package normalizer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// kmPerMile is the exact statute-mile conversion factor.
const kmPerMile = 1.609344

// Normalizer converts RawListing to the canonical CarFeatures format
type Normalizer struct {
	rates *Rates
}

// New creates a normalizer backed by the given rate table.
func New(rates *Rates) *Normalizer {
	if rates == nil {
		rates = NewRates()
	}
	return &Normalizer{rates: rates}
}

// Rates exposes the underlying table for the periodic refresh job.
func (n *Normalizer) Rates() *Rates {
	return n.rates
}

// Normalize converts a raw listing into canonical features. Missing
// make/model/year fail fast; optional fields take documented defaults
// (condition Good, fuel Gasoline).
func (n *Normalizer) Normalize(raw *domain.RawListing) (*domain.CarFeatures, error) {
	data := raw.RawData
	if data == nil {
		data = map[string]any{}
	}

	mk := CanonicalMake(getString(data, "make", "brand"))
	model := strings.TrimSpace(getString(data, "model"))
	year := parseYear(getString(data, "year"))

	// Several platforms only expose "2018 Toyota Camry SE" style titles
	if mk == "" || model == "" || year == 0 {
		title := getString(data, "title")
		if tMake, tModel := splitTitle(title); tMake != "" {
			if mk == "" {
				mk = tMake
			}
			if model == "" {
				model = tModel
			}
		}
		if year == 0 {
			year = yearFromText(title)
		}
	}

	var missing []string
	if mk == "" {
		missing = append(missing, "make")
	}
	if model == "" {
		missing = append(missing, "model")
	}
	if year == 0 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return nil, domain.IncompleteListingError{Missing: missing}
	}

	features := &domain.CarFeatures{
		Make:      mk,
		Model:     model,
		Year:      year,
		Condition: mapCondition(getString(data, "condition")),
		FuelType:  mapFuel(getString(data, "fuel", "fuel_type")),
		Location:  canonicalizeLocation(getString(data, "location", "city")),
		Images:    getStringArray(data, "images"),
		Platform:  raw.Platform,
		ScrapedAt: raw.ExtractedAt,
	}

	mileage := parseNumber(getString(data, "mileage", "kilometers", "odometer"))
	if mileage > 0 {
		if usesMiles(data) {
			mileage *= kmPerMile
		}
		features.MileageKM = math.Round(mileage*100) / 100
	}

	price := parseNumber(getString(data, "price"))
	currency := strings.ToUpper(strings.TrimSpace(getString(data, "currency")))
	if price > 0 && currency != "" {
		features.CurrencyOriginal = currency
		if usd, ok := n.rates.ToUSD(price, currency); ok {
			features.ListingPriceUSD = math.Round(usd*100) / 100
		}
	}

	return features, nil
}

// usesMiles decides the distance unit from the explicit unit field or
// the mileage text itself.
func usesMiles(data map[string]any) bool {
	unit := strings.ToLower(getString(data, "mileage_unit"))
	switch unit {
	case "mi", "mile", "miles", "smi":
		return true
	case "km", "kms", "kmt", "kilometers", "kilometres":
		return false
	}
	text := strings.ToLower(getString(data, "mileage"))
	return strings.Contains(text, "mi") && !strings.Contains(text, "km")
}

var numberRe = regexp.MustCompile(`[\d][\d,.]*`)

// parseNumber extracts the first numeric value from free text like
// "62,500 km" or "AED 45,000". Thousands separators are dropped; a
// trailing decimal component is kept.
func parseNumber(s string) float64 {
	match := numberRe.FindString(s)
	if match == "" {
		return 0
	}

	// "45,000" comma is a thousands separator; "45,5" (rare) is decimal.
	// Treat comma groups of three digits as separators, otherwise as a
	// decimal point. A dot in the match settles it: the dot is the
	// decimal point and every comma is a separator ("19,500.00").
	if strings.Count(match, ".") > 1 {
		match = strings.ReplaceAll(match, ".", "")
	}
	if strings.Contains(match, ".") {
		match = strings.ReplaceAll(match, ",", "")
	} else if idx := strings.LastIndex(match, ","); idx != -1 {
		if len(match)-idx-1 == 3 {
			match = strings.ReplaceAll(match, ",", "")
		} else {
			match = strings.ReplaceAll(match[:idx], ",", "") + "." + match[idx+1:]
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(match, "."), 64)
	if err != nil {
		return 0
	}
	return f
}

var yearRe = regexp.MustCompile(`\b((?:19|20)\d{2})\b`)

func parseYear(s string) int {
	value := parseNumber(s)
	year := int(value)
	if year >= 1950 && year <= 2100 {
		return year
	}
	return 0
}

func yearFromText(s string) int {
	if match := yearRe.FindString(s); match != "" {
		year, _ := strconv.Atoi(match)
		return year
	}
	return 0
}

// getString tries multiple keys and returns the first non-empty value
func getString(data map[string]any, keys ...string) string {
	for _, key := range keys {
		if val, ok := data[key]; ok {
			switch v := val.(type) {
			case string:
				if v != "" {
					return strings.TrimSpace(v)
				}
			case float64:
				if v == float64(int64(v)) {
					return strconv.FormatInt(int64(v), 10)
				}
				return fmt.Sprintf("%v", v)
			case int:
				return strconv.Itoa(v)
			}
		}
	}
	return ""
}

// getStringArray extracts a string slice from data, accepting both
// []string and the []any produced by JSON decoding.
func getStringArray(data map[string]any, key string) []string {
	val, ok := data[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []any:
		var out []string
		for _, item := range v {
			switch elem := item.(type) {
			case string:
				if elem != "" {
					out = append(out, elem)
				}
			case map[string]any:
				if u, ok := elem["url"].(string); ok && u != "" {
					out = append(out, u)
				}
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
