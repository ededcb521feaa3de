package normalizer

import (
	"strings"
	"sync"
)

// defaultRates is the built-in USD conversion table covering every
// currency the supported marketplaces list in. The external rate
// provider overwrites these periodically; absolute precision is not the
// point, consistency is.
var defaultRates = map[string]float64{
	"USD": 1.0,
	"AED": 0.2723,
	"SAR": 0.2666,
	"JOD": 1.4104,
	"EGP": 0.0206,
	"KWD": 3.2573,
	"QAR": 0.2747,
	"BHD": 2.6525,
	"OMR": 2.5974,
	"EUR": 1.09,
	"GBP": 1.27,
}

// Rates is a USD conversion lookup table, safe for concurrent reads and
// periodic replacement.
type Rates struct {
	mu    sync.RWMutex
	table map[string]float64
}

// NewRates builds a rate table seeded with the built-in defaults.
func NewRates() *Rates {
	table := make(map[string]float64, len(defaultRates))
	for k, v := range defaultRates {
		table[k] = v
	}
	return &Rates{table: table}
}

// ToUSD converts an amount in the given currency to USD. The second
// return is false when the currency is not in the table.
func (r *Rates) ToUSD(amount float64, currency string) (float64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rate, ok := r.table[strings.ToUpper(strings.TrimSpace(currency))]
	if !ok {
		return 0, false
	}
	return amount * rate, true
}

// Update replaces rates for the given currencies. Unknown currencies are
// added; existing ones are overwritten. Called by the periodic refresh
// job with data from the external rate provider.
func (r *Rates) Update(rates map[string]float64) {
	if len(rates) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for currency, rate := range rates {
		if rate > 0 {
			r.table[strings.ToUpper(currency)] = rate
		}
	}
}
