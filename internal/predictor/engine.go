package predictor

import (
	"math"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

const (
	maxVehicleAge = 40

	// Deal quality thresholds on listing/predicted ratio. The boundary
	// values themselves classify as Fair.
	goodDealRatio = 0.85
	poorDealRatio = 1.15
)

// Engine turns normalized car features into a price prediction. It is
// safe for concurrent use once constructed.
type Engine struct {
	model *Model
	now   func() time.Time
}

func NewEngine(model *Model) *Engine {
	return &Engine{model: model, now: time.Now}
}

// Predict estimates a market price for the given vehicle. The interval
// always brackets the estimate and confidence shrinks as the interval
// widens. Deal quality is only assessed when the listing carried a
// convertible asking price.
func (e *Engine) Predict(features *domain.CarFeatures) (*domain.PredictionResult, error) {
	if e == nil || e.model == nil {
		return nil, domain.ErrModelUnavailable
	}
	m := e.model

	estimate, seen := e.pointEstimate(features)

	band := m.ResidualBand
	if !seen {
		band += m.UnknownVehiclePenalty
	}
	if band > 0.95 {
		band = 0.95
	}

	rng := domain.PriceRange{
		Min: round2(estimate * (1 - band)),
		Max: round2(estimate * (1 + band)),
	}

	// Interval width relative to the estimate drives confidence.
	confidence := int(math.Round(100 * (1 - 2*band)))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}

	result := &domain.PredictionResult{
		PredictedPrice: round2(estimate),
		PriceRange:     rng,
		Confidence:     confidence,
	}

	if features.HasListingPrice() {
		quality, position := assessDeal(features.ListingPriceUSD, estimate)
		result.DealQuality = quality
		result.MarketPosition = position
	}

	return result, nil
}

func (e *Engine) pointEstimate(f *domain.CarFeatures) (price float64, seen bool) {
	m := e.model
	price = m.BasePrice

	makeFactor, makeKnown := m.MakeFactors[f.Make]
	if makeKnown {
		price *= makeFactor
	}
	modelAdj, modelKnown := m.ModelAdjustments[f.Make+" "+f.Model]
	if modelKnown {
		price *= modelAdj
	}

	age := e.now().Year() - f.Year
	if age < 0 {
		age = 0
	}
	if age > maxVehicleAge {
		age = maxVehicleAge
	}
	price *= math.Pow(1-m.DepreciationPerYear, float64(age))

	wear := 1 - m.MileageFactorPer10K*f.MileageKM/10000
	if wear < 0.3 {
		wear = 0.3
	}
	price *= wear

	if factor, ok := m.ConditionFactors[string(f.Condition)]; ok {
		price *= factor
	}
	if factor, ok := m.FuelFactors[string(f.FuelType)]; ok {
		price *= factor
	}

	if price < m.FloorPrice {
		price = m.FloorPrice
	}
	return price, makeKnown && modelKnown
}

func assessDeal(listing, predicted float64) (domain.DealQuality, string) {
	if predicted <= 0 {
		return domain.DealFair, "at market"
	}
	ratio := listing / predicted
	switch {
	case ratio < goodDealRatio:
		return domain.DealGood, "below market"
	case ratio > poorDealRatio:
		return domain.DealPoor, "above market"
	default:
		return domain.DealFair, "at market"
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
