package countstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemCountStoreBasics(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	c, err := cs.GetCount(ctx, 100, 1)
	assert.NoError(err)
	assert.EqualValues(0, c)

	// one message with three flagged tokens adds 3, not 1
	assert.NoError(cs.Increment(ctx, 100, 1, 3))
	assert.NoError(cs.Increment(ctx, 100, 1, 1))
	c, err = cs.GetCount(ctx, 100, 1)
	assert.NoError(err)
	assert.EqualValues(4, c)

	// zero and negative deltas are no-ops
	assert.NoError(cs.Increment(ctx, 100, 1, 0))
	assert.NoError(cs.Increment(ctx, 100, 1, -2))
	c, err = cs.GetCount(ctx, 100, 1)
	assert.NoError(err)
	assert.EqualValues(4, c)

	// chat scoping
	c, err = cs.GetCount(ctx, 200, 1)
	assert.NoError(err)
	assert.EqualValues(0, c)
}

func TestMemCountStoreTopN(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()
	assert.NoError(cs.Increment(ctx, 7, 30, 3))
	assert.NoError(cs.Increment(ctx, 7, 10, 3))
	assert.NoError(cs.Increment(ctx, 7, 20, 1))

	// tie on count=3 breaks by ascending user ID
	top, err := cs.TopN(ctx, 7, 2)
	assert.NoError(err)
	assert.Equal([]UserCount{
		{UserID: 10, Count: 3},
		{UserID: 30, Count: 3},
	}, top)

	top, err = cs.TopN(ctx, 7, 10)
	assert.NoError(err)
	assert.Len(top, 3)
	assert.Equal(UserCount{UserID: 20, Count: 1}, top[2])

	// empty chat
	top, err = cs.TopN(ctx, 9, 5)
	assert.NoError(err)
	assert.Empty(top)
}

func TestMergeBoundaryTieGroup(t *testing.T) {
	assert := assert.New(t)

	// a lexically-ordered over-fetch window cut through a tie at count=5,
	// missing user 9; merging the full tie group restores them, and the
	// canonical sort then prefers the lowest ID
	window := []UserCount{
		{UserID: 50, Count: 9},
		{UserID: 10, Count: 5},
		{UserID: 11, Count: 5},
	}
	tieGroup := []UserCount{
		{UserID: 10, Count: 5},
		{UserID: 11, Count: 5},
		{UserID: 9, Count: 5},
	}

	merged := mergeRows(window, tieGroup)
	assert.Len(merged, 4)

	top := sortAndTruncate(merged, 2)
	assert.Equal([]UserCount{
		{UserID: 50, Count: 9},
		{UserID: 9, Count: 5},
	}, top)

	// merging with nothing new is a no-op
	assert.Len(mergeRows(merged, tieGroup), 4)
}

func TestMemCountStoreConcurrent(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	cs := NewMemCountStore()

	// concurrent increments and reads; run with `-race`
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				assert.NoError(cs.Increment(ctx, 1, 42, 1))
				_, err := cs.GetCount(ctx, 1, 42)
				assert.NoError(err)
				_, err = cs.TopN(ctx, 1, 3)
				assert.NoError(err)
			}
		}()
	}
	wg.Wait()

	c, err := cs.GetCount(ctx, 1, 42)
	assert.NoError(err)
	assert.EqualValues(100, c)
}
