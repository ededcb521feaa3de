package normalizer

import (
	"math"
	"strings"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// Details are user-supplied vehicle attributes for direct prediction,
// bypassing the scrape step entirely.
type Details struct {
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	MileageKM   float64 `json:"mileage_km"`
	Condition   string  `json:"condition,omitempty"`
	FuelType    string  `json:"fuel_type,omitempty"`
	Location    string  `json:"location,omitempty"`
	AskingPrice float64 `json:"asking_price,omitempty"`
	Currency    string  `json:"currency,omitempty"`
}

// NormalizeDetails builds canonical features from user-supplied details.
// The same vocabulary, defaulting and currency rules apply as for
// scraped listings.
func (n *Normalizer) NormalizeDetails(d Details) (*domain.CarFeatures, error) {
	var missing []string
	if strings.TrimSpace(d.Make) == "" {
		missing = append(missing, "make")
	}
	if strings.TrimSpace(d.Model) == "" {
		missing = append(missing, "model")
	}
	if d.Year < 1950 || d.Year > 2100 {
		missing = append(missing, "year")
	}
	if len(missing) > 0 {
		return nil, domain.IncompleteListingError{Missing: missing}
	}

	features := &domain.CarFeatures{
		Make:      CanonicalMake(d.Make),
		Model:     strings.TrimSpace(d.Model),
		Year:      d.Year,
		MileageKM: d.MileageKM,
		Condition: mapCondition(d.Condition),
		FuelType:  mapFuel(d.FuelType),
		Location:  canonicalizeLocation(d.Location),
		ScrapedAt: time.Now().UTC(),
	}

	if d.AskingPrice > 0 {
		currency := strings.ToUpper(strings.TrimSpace(d.Currency))
		if currency == "" {
			currency = "USD"
		}
		features.CurrencyOriginal = currency
		if usd, ok := n.rates.ToUSD(d.AskingPrice, currency); ok {
			features.ListingPriceUSD = math.Round(usd*100) / 100
		}
	}

	return features, nil
}
