package domain

import "time"

// RawListing represents raw extracted data before normalization.
// Adapters fill whatever fields the page exposes; everything stays in
// source units and currency.
type RawListing struct {
	URL         string         `json:"url"`
	Platform    Platform       `json:"platform"`
	RawData     map[string]any `json:"raw_data"`
	ExtractedAt time.Time      `json:"extracted_at"`
}

// Condition is the canonical vehicle condition grade
type Condition string

const (
	ConditionExcellent Condition = "Excellent"
	ConditionGood      Condition = "Good"
	ConditionFair      Condition = "Fair"
	ConditionPoor      Condition = "Poor"
)

// FuelType is the canonical fuel classification
type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelDiesel   FuelType = "Diesel"
	FuelHybrid   FuelType = "Hybrid"
	FuelElectric FuelType = "Electric"
	FuelLPG      FuelType = "LPG"
)

// Location holds a canonicalized listing location. Unmatched strings
// pass through in City with Region/Country left empty.
type Location struct {
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country,omitempty"`
}

// CarFeatures is the canonical, unit/currency-consistent representation
// of a vehicle listing from any source
type CarFeatures struct {
	Make             string    `json:"make"`
	Model            string    `json:"model"`
	Year             int       `json:"year"`
	MileageKM        float64   `json:"mileage_km"`
	Condition        Condition `json:"condition"`
	FuelType         FuelType  `json:"fuel_type"`
	Location         Location  `json:"location"`
	ListingPriceUSD  float64   `json:"listing_price_usd,omitempty"` // 0 means no asking price on the listing
	CurrencyOriginal string    `json:"currency_original,omitempty"`
	Images           []string  `json:"images,omitempty"`
	Platform         Platform  `json:"platform"`
	ScrapedAt        time.Time `json:"scraped_at"`
}

// HasListingPrice reports whether the source listing carried an asking price.
func (f *CarFeatures) HasListingPrice() bool {
	return f.ListingPriceUSD > 0
}
