package normalizer

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rates": {"AED": 3.6725, "EGP": 48.50}}`))
	}))
	defer srv.Close()

	rates := NewRates()
	if err := rates.FetchRates(context.Background(), srv.URL); err != nil {
		t.Fatalf("FetchRates() error = %v", err)
	}

	usd, ok := rates.ToUSD(3.6725, "AED")
	if !ok {
		t.Fatal("AED missing after refresh")
	}
	if math.Abs(usd-1.0) > 1e-9 {
		t.Errorf("3.6725 AED = %v USD, want 1", usd)
	}
}

func TestFetchRatesFeedErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates": `))
		}},
		{"empty rates", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"rates": {}}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			rates := NewRates()
			if err := rates.FetchRates(context.Background(), srv.URL); err == nil {
				t.Error("FetchRates() = nil, want error")
			}
			// Built-in table still serves.
			if _, ok := rates.ToUSD(100, "AED"); !ok {
				t.Error("built-in AED rate lost after failed refresh")
			}
		})
	}
}
