package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// ListingStore persists evaluated listings for offline analysis and
// model retraining. Writes are best effort from the pipeline's point
// of view; a store failure never fails a prediction request.
type ListingStore interface {
	Save(ctx context.Context, url string, eval *domain.Evaluation) error
	SaveBatch(ctx context.Context, evals map[string]*domain.Evaluation) error
	Close() error
}

// recordID derives a stable document key from the normalized URL so a
// rescrape overwrites its previous row instead of duplicating it.
func recordID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// NopStore discards everything. Used when STORE_BACKEND=none.
type NopStore struct{}

func (NopStore) Save(context.Context, string, *domain.Evaluation) error         { return nil }
func (NopStore) SaveBatch(context.Context, map[string]*domain.Evaluation) error { return nil }
func (NopStore) Close() error                                                   { return nil }
