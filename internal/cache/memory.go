package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// MemoryBackend is a bounded in-process backend. LRU eviction caps
// memory; staleness is handled by the Store's read-time TTL check.
type MemoryBackend struct {
	entries *lru.Cache[string, *Entry]
}

// NewMemoryBackend creates a backend holding at most capacity entries.
func NewMemoryBackend(capacity int) (*MemoryBackend, error) {
	if capacity <= 0 {
		capacity = 4096
	}
	entries, err := lru.New[string, *Entry](capacity)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &MemoryBackend{entries: entries}, nil
}

func (b *MemoryBackend) Get(_ context.Context, key string) (*Entry, bool, error) {
	entry, ok := b.entries.Get(key)
	return entry, ok, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, entry *Entry) error {
	b.entries.Add(key, entry)
	return nil
}

func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.entries.Remove(key)
	return nil
}

func (b *MemoryBackend) Len(_ context.Context) int {
	return b.entries.Len()
}
