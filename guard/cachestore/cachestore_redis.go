package cachestore

import (
	"context"
	"time"

	"github.com/go-redis/cache/v9"
	"github.com/redis/go-redis/v9"
)

type RedisCacheStore struct {
	data *cache.Cache
	ttl  time.Duration
}

var _ CacheStore = (*RedisCacheStore)(nil)

func NewRedisCacheStore(redisURL string, ttl time.Duration) (*RedisCacheStore, error) {
	ctx := context.Background()
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	// check redis connection
	_, err = rdb.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	data := cache.New(&cache.Options{
		Redis:      rdb,
		LocalCache: cache.NewTinyLFU(10_000, ttl),
	})
	return &RedisCacheStore{
		data: data,
		ttl:  ttl,
	}, nil
}

func (s *RedisCacheStore) Get(ctx context.Context, username string) (LookupEntry, bool, error) {
	var raw string
	err := s.data.Get(ctx, cacheKey(username), &raw)
	if err == cache.ErrCacheMiss {
		return LookupEntry{}, false, nil
	}
	if err != nil {
		return LookupEntry{}, false, err
	}
	entry, ok := decodeEntry(raw)
	if !ok {
		return LookupEntry{}, false, nil
	}
	return entry, true, nil
}

func (s *RedisCacheStore) Set(ctx context.Context, username string, entry LookupEntry) error {
	return s.data.Set(&cache.Item{
		Ctx:   ctx,
		Key:   cacheKey(username),
		Value: encodeEntry(entry),
		TTL:   s.ttl,
	})
}

func (s *RedisCacheStore) Purge(ctx context.Context, username string) error {
	err := s.data.Delete(ctx, cacheKey(username))
	if err == cache.ErrCacheMiss {
		return nil
	}
	return err
}
