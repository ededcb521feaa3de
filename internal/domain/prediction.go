package domain

// DealQuality is the three-way verdict comparing asking price to the
// predicted fair price
type DealQuality string

const (
	DealGood DealQuality = "Good"
	DealFair DealQuality = "Fair"
	DealPoor DealQuality = "Poor"
)

// PriceRange bounds the estimate: Min <= Predicted <= Max always holds.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// PredictionResult is the output of the prediction engine.
// Confidence is canonically an integer in [0,100]; callers supplying
// 0-1 fractions must convert at the boundary.
type PredictionResult struct {
	PredictedPrice float64     `json:"predicted_price"`
	PriceRange     PriceRange  `json:"price_range"`
	Confidence     int         `json:"confidence"`
	DealQuality    DealQuality `json:"deal_quality,omitempty"`
	MarketPosition string      `json:"market_position,omitempty"`
}

// Evaluation bundles the normalized features with their prediction.
// This is the cached unit: it only exists after a fully successful
// scrape+normalize+predict run.
type Evaluation struct {
	Features   *CarFeatures      `json:"features"`
	Prediction *PredictionResult `json:"prediction"`
}

// BatchItem records the outcome of one URL inside a batch. Exactly one
// of Result or Error is set.
type BatchItem struct {
	URL     string      `json:"url"`
	Success bool        `json:"success"`
	Result  *Evaluation `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"error_kind,omitempty"`
}

// BatchSummary counts outcomes for a completed batch
type BatchSummary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// BatchJob holds per-URL outcomes in input order plus the summary.
type BatchJob struct {
	Items   []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}
