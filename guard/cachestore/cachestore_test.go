package cachestore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemCacheStore(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCacheStore(100, time.Minute)

	_, ok, err := cs.Get(ctx, "alice")
	assert.NoError(err)
	assert.False(ok)

	assert.NoError(cs.Set(ctx, "Alice", LookupEntry{UserID: 42, FirstName: "Алиса"}))

	// lookup is case-insensitive
	entry, ok, err := cs.Get(ctx, "aLiCe")
	assert.NoError(err)
	assert.True(ok)
	assert.False(entry.Negative())
	assert.EqualValues(42, entry.UserID)
	assert.Equal("Алиса", entry.FirstName)

	// negative entries round-trip too
	assert.NoError(cs.Set(ctx, "ghost", LookupEntry{}))
	entry, ok, err = cs.Get(ctx, "ghost")
	assert.NoError(err)
	assert.True(ok)
	assert.True(entry.Negative())

	assert.NoError(cs.Purge(ctx, "alice"))
	_, ok, err = cs.Get(ctx, "alice")
	assert.NoError(err)
	assert.False(ok)
}

func TestEntryCodec(t *testing.T) {
	assert := assert.New(t)

	e, ok := decodeEntry(encodeEntry(LookupEntry{UserID: 7, FirstName: "Боб|третий"}))
	assert.True(ok)
	assert.EqualValues(7, e.UserID)
	// first name may itself contain the separator; everything after the
	// first cut belongs to the name
	assert.Equal("Боб|третий", e.FirstName)

	_, ok = decodeEntry("garbage")
	assert.False(ok)
	_, ok = decodeEntry("notanint|x")
	assert.False(ok)
}
