package normalizer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ratesFeedTimeout bounds the refresh request so a slow provider never
// stalls the cron worker.
const ratesFeedTimeout = 15 * time.Second

// feedResponse matches the common exchange-rate API shape: rates quoted
// per 1 USD, so the USD value of one unit is the inverse.
type feedResponse struct {
	Rates map[string]float64 `json:"rates"`
}

// FetchRates pulls the latest USD conversion table from an external
// feed and applies it. The built-in table keeps serving until a fetch
// succeeds, so a dead feed only means stale rates, never an outage.
func (r *Rates) FetchRates(ctx context.Context, feedURL string) error {
	ctx, cancel := context.WithTimeout(ctx, ratesFeedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return fmt.Errorf("build rates request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rates feed returned %s", resp.Status)
	}

	var feed feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return fmt.Errorf("decode rates feed: %w", err)
	}
	if len(feed.Rates) == 0 {
		return fmt.Errorf("rates feed returned no rates")
	}

	updates := make(map[string]float64, len(feed.Rates))
	for currency, perUSD := range feed.Rates {
		if perUSD > 0 {
			updates[currency] = 1 / perUSD
		}
	}
	r.Update(updates)
	return nil
}
