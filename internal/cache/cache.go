// Package cache keeps rendered pages for a fixed time-to-live.
//
// Entries are never invalidated by writes; they expire after their TTL or
// when the store is cleared.
package cache

import (
	"context"
	"time"
)

// Entry is one rendered response.
type Entry struct {
	Status      int
	ContentType string
	Body        []byte
}

// Store is a key-value store with per-entry expiry.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, bool, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
