package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

func TestRecordID(t *testing.T) {
	a := recordID("https://www.cars.com/vehicledetail/abc/")
	b := recordID("https://www.cars.com/vehicledetail/abc/")
	if a != b {
		t.Errorf("recordID not deterministic: %q vs %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("recordID length = %d, want 64 hex chars", len(a))
	}
	if a == recordID("https://www.cars.com/vehicledetail/xyz/") {
		t.Error("distinct URLs produced the same record id")
	}
}

func TestUpsertArgs(t *testing.T) {
	eval := &domain.Evaluation{
		Features: &domain.CarFeatures{
			Make:      "Toyota",
			Model:     "Camry",
			Year:      2019,
			MileageKM: 80000,
			Condition: domain.ConditionGood,
			FuelType:  domain.FuelGasoline,
			Images:    []string{"https://img.test/1.jpg", "https://img.test/2,large.jpg"},
			Platform:  domain.PlatformCarsCom,
			ScrapedAt: time.Now(),
		},
		Prediction: &domain.PredictionResult{
			PredictedPrice: 18000,
			PriceRange:     domain.PriceRange{Min: 15840, Max: 20160},
			Confidence:     76,
		},
	}

	args := upsertArgs("https://www.cars.com/vehicledetail/abc/", eval)
	if len(args) != 22 {
		t.Fatalf("upsertArgs returned %d values, want 22", len(args))
	}
	if args[2] != "carscom" || args[3] != "Toyota" || args[5] != 2019 {
		t.Errorf("args = %v", args[:6])
	}
	images, ok := args[14].(*pq.StringArray)
	if !ok {
		t.Fatalf("images arg = %T, want *pq.StringArray", args[14])
	}
	if !reflect.DeepEqual([]string(*images), eval.Features.Images) {
		t.Errorf("images arg = %v", *images)
	}
}
