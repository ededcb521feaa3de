package predictor

import (
	"encoding/json"
	"fmt"
	"os"
)

// Model is the pre-trained pricing artifact. It is produced by the
// offline training pipeline, loaded once at startup, and never mutated
// afterwards, so concurrent reads need no locking.
type Model struct {
	Version   string  `json:"version"`
	BasePrice float64 `json:"base_price"`

	// Multiplicative factors keyed by canonical make and "Make Model"
	MakeFactors      map[string]float64 `json:"make_factors"`
	ModelAdjustments map[string]float64 `json:"model_adjustments"`

	// Geometric depreciation per year of age
	DepreciationPerYear float64 `json:"depreciation_per_year"`
	// Price drop per 10,000 km driven, multiplicative
	MileageFactorPer10K float64 `json:"mileage_factor_per_10k_km"`

	ConditionFactors map[string]float64 `json:"condition_factors"`
	FuelFactors      map[string]float64 `json:"fuel_factors"`

	// ResidualBand is the symmetric interval half-width as a fraction
	// of the estimate, derived from training residuals.
	ResidualBand float64 `json:"residual_band"`
	// UnknownVehiclePenalty widens the band when make or model was not
	// seen during training.
	UnknownVehiclePenalty float64 `json:"unknown_vehicle_penalty"`

	// FloorPrice bounds the estimate from below.
	FloorPrice float64 `json:"floor_price"`
}

// LoadModel reads and validates a model artifact from disk.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var m Model
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}
	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid model artifact %s: %w", path, err)
	}
	return &m, nil
}

func (m *Model) validate() error {
	if m.BasePrice <= 0 {
		return fmt.Errorf("base_price must be positive")
	}
	if m.DepreciationPerYear < 0 || m.DepreciationPerYear >= 1 {
		return fmt.Errorf("depreciation_per_year must be in [0,1)")
	}
	if m.MileageFactorPer10K < 0 || m.MileageFactorPer10K >= 1 {
		return fmt.Errorf("mileage_factor_per_10k_km must be in [0,1)")
	}
	if m.ResidualBand <= 0 || m.ResidualBand >= 1 {
		return fmt.Errorf("residual_band must be in (0,1)")
	}
	if m.FloorPrice < 0 {
		return fmt.Errorf("floor_price cannot be negative")
	}
	return nil
}
