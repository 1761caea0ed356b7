package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is a process-local Store.
type MemoryStore struct {
	c *gocache.Cache
}

// NewMemoryStore returns a store that sweeps expired entries every cleanup
// interval. Expired entries are never returned, swept or not.
func NewMemoryStore(cleanup time.Duration) *MemoryStore {
	return &MemoryStore{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*Entry, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return v.(*Entry), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, entry *Entry, ttl time.Duration) error {
	s.c.Set(key, entry, ttl)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.c.Delete(key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.c.Flush()
	return nil
}

// Len counts entries, including expired ones not yet swept.
func (s *MemoryStore) Len() int {
	return s.c.ItemCount()
}
