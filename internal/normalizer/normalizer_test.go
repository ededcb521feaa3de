package normalizer

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

func rawListing(platform domain.Platform, data map[string]any) *domain.RawListing {
	return &domain.RawListing{
		URL:         "https://example.test/listing/1",
		Platform:    platform,
		RawData:     data,
		ExtractedAt: time.Date(2026, 7, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestNormalizeMilesToKilometers(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformCarsCom, map[string]any{
		"make":         "Toyota",
		"model":        "Camry",
		"year":         "2018",
		"mileage":      "50,000",
		"mileage_unit": "mi",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if math.Abs(features.MileageKM-80467.2) > 1 {
		t.Errorf("MileageKM = %v, want 80467.2 within 1 km", features.MileageKM)
	}
}

func TestNormalizeKilometersUntouched(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformDubizzle, map[string]any{
		"make":         "Nissan",
		"model":        "Patrol",
		"year":         "2020",
		"mileage":      "62,500 km",
		"mileage_unit": "km",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.MileageKM != 62500 {
		t.Errorf("MileageKM = %v, want 62500", features.MileageKM)
	}
}

func TestNormalizeCommaAndDecimalTogether(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformCarsCom, map[string]any{
		"make":         "Toyota",
		"model":        "Camry",
		"year":         "2019",
		"mileage":      "39,500.5",
		"mileage_unit": "mi",
		"price":        "19,500.00",
		"currency":     "USD",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.ListingPriceUSD != 19500 {
		t.Errorf("ListingPriceUSD = %v, want 19500", features.ListingPriceUSD)
	}
	if math.Abs(features.MileageKM-39500.5*1.609344) > 0.01 {
		t.Errorf("MileageKM = %v, want %v", features.MileageKM, 39500.5*1.609344)
	}
}

func TestNormalizeCurrencyConversion(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		currency string
		wantUSD  float64
	}{
		{"aed", "45,000", "AED", 45000 * 0.2723},
		{"sar", "80000", "SAR", 80000 * 0.2666},
		{"jod", "15000", "jod", 15000 * 1.4104},
		{"usd passthrough", "22,500", "USD", 22500},
	}

	n := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features, err := n.Normalize(rawListing(domain.PlatformDubizzle, map[string]any{
				"make":     "Toyota",
				"model":    "Corolla",
				"year":     "2019",
				"price":    tt.price,
				"currency": tt.currency,
			}))
			if err != nil {
				t.Fatalf("Normalize() error = %v", err)
			}
			want := math.Round(tt.wantUSD*100) / 100
			if features.ListingPriceUSD != want {
				t.Errorf("ListingPriceUSD = %v, want %v", features.ListingPriceUSD, want)
			}
		})
	}
}

func TestNormalizeUnknownCurrencyKeepsOriginal(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformDubizzle, map[string]any{
		"make":     "Kia",
		"model":    "Sportage",
		"year":     "2021",
		"price":    "9,000,000",
		"currency": "XYZ",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.HasListingPrice() {
		t.Errorf("ListingPriceUSD = %v, want absent for unknown currency", features.ListingPriceUSD)
	}
	if features.CurrencyOriginal != "XYZ" {
		t.Errorf("CurrencyOriginal = %q, want XYZ", features.CurrencyOriginal)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformSyarah, map[string]any{
		"make":  "Hyundai",
		"model": "Elantra",
		"year":  "2017",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.Condition != domain.ConditionGood {
		t.Errorf("Condition = %v, want Good default", features.Condition)
	}
	if features.FuelType != domain.FuelGasoline {
		t.Errorf("FuelType = %v, want Gasoline default", features.FuelType)
	}
}

func TestNormalizeTitleFallback(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformAutoTrader, map[string]any{
		"title": "2018 Toyota Camry SE",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.Make != "Toyota" || features.Model != "Camry SE" || features.Year != 2018 {
		t.Errorf("got %s/%s/%d, want Toyota/Camry SE/2018", features.Make, features.Model, features.Year)
	}
}

func TestNormalizeMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		data    map[string]any
		missing []string
	}{
		{"all missing", map[string]any{}, []string{"make", "model", "year"}},
		{"no year", map[string]any{"make": "Toyota", "model": "Camry"}, []string{"year"}},
		{"no model", map[string]any{"make": "Toyota", "year": "2018"}, []string{"model"}},
	}

	n := New(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.Normalize(rawListing(domain.PlatformSyarah, tt.data))
			var incomplete domain.IncompleteListingError
			if !errors.As(err, &incomplete) {
				t.Fatalf("Normalize() error = %v, want IncompleteListingError", err)
			}
			if !reflect.DeepEqual(incomplete.Missing, tt.missing) {
				t.Errorf("Missing = %v, want %v", incomplete.Missing, tt.missing)
			}
		})
	}
}

func TestNormalizeArabicFields(t *testing.T) {
	n := New(nil)
	features, err := n.Normalize(rawListing(domain.PlatformOpenSooq, map[string]any{
		"make":      "تويوتا",
		"model":     "Camry",
		"year":      "2016",
		"condition": "ممتازة",
		"fuel":      "هايبرد",
		"location":  "عمان",
	}))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if features.Make != "Toyota" {
		t.Errorf("Make = %q, want Toyota", features.Make)
	}
	if features.Condition != domain.ConditionExcellent {
		t.Errorf("Condition = %v, want Excellent", features.Condition)
	}
	if features.FuelType != domain.FuelHybrid {
		t.Errorf("FuelType = %v, want Hybrid", features.FuelType)
	}
	if features.Location.City != "Amman" || features.Location.Country != "JO" {
		t.Errorf("Location = %+v, want Amman/JO", features.Location)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New(nil)
	raw := rawListing(domain.PlatformCarsCom, map[string]any{
		"make":         "Honda",
		"model":        "Civic",
		"year":         "2019",
		"mileage":      "31,042",
		"mileage_unit": "mi",
		"price":        "18,500",
		"currency":     "USD",
		"condition":    "Certified Pre-Owned",
		"fuel":         "Gasoline",
		"location":     "Chicago, IL",
	})

	first, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	second, err := n.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize() second run error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Normalize not deterministic:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"62,500 km", 62500},
		{"AED 45,000", 45000},
		{"$18,995", 18995},
		{"45,5", 45.5},
		{"12345.67", 12345.67},
		{"19,500.00", 19500},
		{"39,500.5 mi", 39500.5},
		{"$1,234,567.89", 1234567.89},
		{"no digits", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := parseNumber(tt.in); got != tt.want {
			t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMapConditionVocabulary(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Condition
	}{
		{"Excellent condition", domain.ConditionExcellent},
		{"like new", domain.ConditionExcellent},
		{"Used", domain.ConditionGood},
		{"fair", domain.ConditionFair},
		{"salvage title", domain.ConditionPoor},
		{"something else entirely", domain.ConditionGood},
	}
	for _, tt := range tests {
		if got := mapCondition(tt.in); got != tt.want {
			t.Errorf("mapCondition(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRatesUpdate(t *testing.T) {
	rates := NewRates()
	if _, ok := rates.ToUSD(100, "ZZZ"); ok {
		t.Fatal("ToUSD accepted unknown currency before update")
	}
	rates.Update(map[string]float64{"zzz": 0.5})
	usd, ok := rates.ToUSD(100, "ZZZ")
	if !ok || usd != 50 {
		t.Errorf("ToUSD after update = %v/%v, want 50/true", usd, ok)
	}
}

func TestNormalizeDetails(t *testing.T) {
	n := New(nil)
	features, err := n.NormalizeDetails(Details{
		Make:        "toyota",
		Model:       "Camry",
		Year:        2018,
		MileageKM:   85000,
		Condition:   "excellent",
		FuelType:    "hybrid",
		Location:    "Dubai",
		AskingPrice: 60000,
		Currency:    "AED",
	})
	if err != nil {
		t.Fatalf("NormalizeDetails() error = %v", err)
	}
	if features.Make != "Toyota" {
		t.Errorf("Make = %q, want Toyota", features.Make)
	}
	if features.Condition != domain.ConditionExcellent || features.FuelType != domain.FuelHybrid {
		t.Errorf("got %v/%v, want Excellent/Hybrid", features.Condition, features.FuelType)
	}
	want := math.Round(60000*0.2723*100) / 100
	if features.ListingPriceUSD != want {
		t.Errorf("ListingPriceUSD = %v, want %v", features.ListingPriceUSD, want)
	}
}

func TestNormalizeDetailsMissing(t *testing.T) {
	n := New(nil)
	_, err := n.NormalizeDetails(Details{Model: "Camry"})
	var incomplete domain.IncompleteListingError
	if !errors.As(err, &incomplete) {
		t.Fatalf("NormalizeDetails() error = %v, want IncompleteListingError", err)
	}
	if !reflect.DeepEqual(incomplete.Missing, []string{"make", "year"}) {
		t.Errorf("Missing = %v, want [make year]", incomplete.Missing)
	}
}
