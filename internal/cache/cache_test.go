package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

func testEvaluation(price float64) *domain.Evaluation {
	return &domain.Evaluation{
		Features: &domain.CarFeatures{Make: "Toyota", Model: "Camry", Year: 2019},
		Prediction: &domain.PredictionResult{
			PredictedPrice: price,
			PriceRange:     domain.PriceRange{Min: price * 0.9, Max: price * 1.1},
			Confidence:     76,
		},
	}
}

func newTestStore(t *testing.T, ttl time.Duration) (*Store, *time.Time) {
	t.Helper()
	backend, err := NewMemoryBackend(128)
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(backend, ttl)
	clock := time.Date(2026, 7, 14, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }
	return store, &clock
}

func TestStoreTTLBoundary(t *testing.T) {
	store, clock := newTestStore(t, 24*time.Hour)
	ctx := context.Background()
	key := Key("https://cars.com/vehicledetail/abc")

	_, _, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		return testEvaluation(15000), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}

	*clock = clock.Add(23*time.Hour + 59*time.Minute)
	if _, ok, _ := store.Get(ctx, key); !ok {
		t.Error("entry missing just before TTL expiry")
	}

	*clock = clock.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Error("entry still served after TTL expiry")
	}
	if store.Size(ctx) != 0 {
		t.Errorf("Size = %d after expiry eviction, want 0", store.Size(ctx))
	}
}

func TestStoreSingleFlight(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	key := Key("https://cars.com/vehicledetail/flight")

	var computations atomic.Int32
	release := make(chan struct{})

	const callers = 10
	var wg sync.WaitGroup
	results := make([]*domain.Evaluation, callers)
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _, errs[i] = store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
				computations.Add(1)
				<-release
				return testEvaluation(21000), nil
			})
		}(i)
	}

	// Let every goroutine reach the store before releasing the leader.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := computations.Load(); got != 1 {
		t.Errorf("compute ran %d times for %d concurrent callers, want 1", got, callers)
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil {
			t.Fatalf("caller %d error = %v", i, errs[i])
		}
		if results[i] == nil || results[i].Prediction.PredictedPrice != 21000 {
			t.Errorf("caller %d got %+v, want shared result", i, results[i])
		}
	}
}

func TestStoreComputeErrorNotCached(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	key := Key("https://cars.com/vehicledetail/err")

	boom := errors.New("scrape failed")
	_, _, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrCompute() error = %v, want %v", err, boom)
	}

	// Failure must not leave an entry behind; the next call recomputes.
	var ran bool
	_, cached, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		ran = true
		return testEvaluation(9000), nil
	})
	if err != nil {
		t.Fatalf("GetOrCompute() retry error = %v", err)
	}
	if !ran {
		t.Error("second compute did not run after failed first")
	}
	if cached {
		t.Error("retry reported cached = true")
	}
}

func TestStoreGetOrComputeServesCached(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	key := Key("https://cars.com/vehicledetail/cached")

	if _, cached, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		return testEvaluation(12000), nil
	}); err != nil || cached {
		t.Fatalf("first call cached=%v err=%v, want false/nil", cached, err)
	}

	_, cached, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		t.Error("compute ran despite live cache entry")
		return nil, errors.New("unreachable")
	})
	if err != nil {
		t.Fatalf("GetOrCompute() error = %v", err)
	}
	if !cached {
		t.Error("second call reported cached = false")
	}
}

func TestStoreInvalidate(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()
	key := Key("https://cars.com/vehicledetail/inv")

	if _, _, err := store.GetOrCompute(ctx, key, func(context.Context) (*domain.Evaluation, error) {
		return testEvaluation(10000), nil
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.Invalidate(ctx, key); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, ok, _ := store.Get(ctx, key); ok {
		t.Error("entry survived Invalidate")
	}
}

func TestKeyStability(t *testing.T) {
	a := Key("https://cars.com/vehicledetail/abc")
	b := Key("https://cars.com/vehicledetail/abc")
	if a != b {
		t.Errorf("Key not stable: %q != %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("Key length = %d, want 64 hex chars", len(a))
	}
	if a == Key("https://cars.com/vehicledetail/xyz") {
		t.Error("distinct URLs produced identical keys")
	}
}

func TestMemoryBackendEviction(t *testing.T) {
	backend, err := NewMemoryBackend(2)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	now := time.Now()

	for _, k := range []string{"a", "b", "c"} {
		if err := backend.Set(ctx, k, &Entry{Key: k, Value: testEvaluation(1), CreatedAt: now}); err != nil {
			t.Fatal(err)
		}
	}

	if backend.Len(ctx) != 2 {
		t.Errorf("Len = %d after overflow, want 2", backend.Len(ctx))
	}
	if _, ok, _ := backend.Get(ctx, "a"); ok {
		t.Error("oldest entry survived LRU eviction")
	}
	if _, ok, _ := backend.Get(ctx, "c"); !ok {
		t.Error("newest entry missing")
	}
}
