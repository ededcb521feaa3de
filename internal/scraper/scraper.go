// Package scraper defines the adapter contract and the shared fetching
// core every marketplace adapter builds on.
package scraper

import (
	"context"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// Scraper is the common interface for all marketplace adapters.
// Implementations differ only in parsing rules and pacing; the contract
// is identical across platforms.
type Scraper interface {
	// FetchListing fetches and parses a single listing page. The returned
	// RawListing carries the platform tag and raw currency/units as found
	// on the page; adapters never normalize.
	FetchListing(ctx context.Context, url string) (*domain.RawListing, error)

	// Platform returns the marketplace this adapter handles
	Platform() domain.Platform
}

// Registry maps platform tags to their adapters
type Registry map[domain.Platform]Scraper

// Get returns the adapter for a platform, or nil if none is registered.
func (r Registry) Get(p domain.Platform) Scraper {
	return r[p]
}
