package cachestore

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

type MemCacheStore struct {
	data *expirable.LRU[string, string]
}

var _ CacheStore = (*MemCacheStore)(nil)

func NewMemCacheStore(capacity int, ttl time.Duration) *MemCacheStore {
	return &MemCacheStore{
		data: expirable.NewLRU[string, string](capacity, nil, ttl),
	}
}

func (s *MemCacheStore) Get(ctx context.Context, username string) (LookupEntry, bool, error) {
	raw, ok := s.data.Get(cacheKey(username))
	if !ok {
		return LookupEntry{}, false, nil
	}
	entry, ok := decodeEntry(raw)
	if !ok {
		return LookupEntry{}, false, nil
	}
	return entry, true, nil
}

func (s *MemCacheStore) Set(ctx context.Context, username string, entry LookupEntry) error {
	s.data.Add(cacheKey(username), encodeEntry(entry))
	return nil
}

func (s *MemCacheStore) Purge(ctx context.Context, username string) error {
	s.data.Remove(cacheKey(username))
	return nil
}
