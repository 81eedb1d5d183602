package engine

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyguard/joyguard/guard/blockstore"
	"github.com/joyguard/joyguard/guard/cachestore"
	"github.com/joyguard/joyguard/guard/countstore"
	"github.com/joyguard/joyguard/guard/keyword"
)

func testEngine() *Engine {
	return &Engine{
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		Store:    blockstore.NewMemStore(),
		Counters: countstore.NewMemCountStore(),
		Cache:    cachestore.NewMemCacheStore(100, time.Minute),
		Lexicon:  keyword.NewLexicon([]string{"бля", "хуй"}),
	}
}

func TestEvaluateTruthTable(t *testing.T) {
	ctx := context.Background()

	const (
		chat   = int64(1)
		sender = int64(100)
		target = int64(200)
	)

	fixtures := []struct {
		name     string
		global   bool
		personal bool
		excepted bool
		suppress bool
	}{
		{name: "clean", suppress: false},
		{name: "personal only", personal: true, suppress: true},
		{name: "global only", global: true, suppress: true},
		{name: "global with exception", global: true, excepted: true, suppress: false},
		{name: "global and personal", global: true, personal: true, suppress: true},
		// the exception only exempts from the global layer, not the
		// personal block
		{name: "exception but personal", global: true, personal: true, excepted: true, suppress: true},
		{name: "exception without global is inert", excepted: true, suppress: false},
	}

	for _, fix := range fixtures {
		t.Run(fix.name, func(t *testing.T) {
			assert := assert.New(t)
			eng := testEngine()

			if fix.global {
				_, err := eng.Store.ToggleGlobalBlock(ctx, chat, target, "")
				require.NoError(t, err)
			}
			if fix.excepted {
				_, err := eng.Store.ToggleException(ctx, chat, target, sender)
				require.NoError(t, err)
			}
			if fix.personal {
				_, err := eng.Store.TogglePersonalBlock(ctx, chat, target, sender, "")
				require.NoError(t, err)
			}

			dec, err := eng.Evaluate(ctx, chat, sender, target)
			assert.NoError(err)
			assert.Equal(fix.suppress, dec.Suppress)
			if fix.suppress {
				assert.EqualValues(target, dec.BlockerID)
				assert.NotEmpty(dec.Notice)
			}
		})
	}
}

func TestEvaluateSelfNeverSuppressed(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()

	_, err := eng.Store.ToggleGlobalBlock(ctx, 1, 200, "")
	require.NoError(t, err)

	dec, err := eng.Evaluate(ctx, 1, 200, 200)
	assert.NoError(err)
	assert.False(dec.Suppress)
}

func TestEvaluateChatScoping(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	eng := testEngine()

	_, err := eng.Store.TogglePersonalBlock(ctx, 1, 200, 100, "")
	require.NoError(t, err)

	dec, err := eng.Evaluate(ctx, 1, 100, 200)
	assert.NoError(err)
	assert.True(dec.Suppress)

	dec, err = eng.Evaluate(ctx, 2, 100, 200)
	assert.NoError(err)
	assert.False(dec.Suppress)
}

func TestNoticeFallbackTiers(t *testing.T) {
	ctx := context.Background()

	// tier 1: the block's own notice
	t.Run("personal notice", func(t *testing.T) {
		assert := assert.New(t)
		eng := testEngine()
		_, err := eng.Store.TogglePersonalBlock(ctx, 1, 200, 100, "занят, позже")
		require.NoError(t, err)
		require.NoError(t, eng.Store.SetAutoresponder(ctx, 200, "автоответ"))

		dec, err := eng.Evaluate(ctx, 1, 100, 200)
		assert.NoError(err)
		assert.Equal("занят, позже", dec.Notice)
	})

	// tier 2: the blocker's global autoresponder
	t.Run("autoresponder", func(t *testing.T) {
		assert := assert.New(t)
		eng := testEngine()
		_, err := eng.Store.TogglePersonalBlock(ctx, 1, 200, 100, "")
		require.NoError(t, err)
		require.NoError(t, eng.Store.SetAutoresponder(ctx, 200, "автоответ"))

		dec, err := eng.Evaluate(ctx, 1, 100, 200)
		assert.NoError(err)
		assert.Equal("автоответ", dec.Notice)
	})

	// tier 3: the fixed default
	t.Run("default", func(t *testing.T) {
		assert := assert.New(t)
		eng := testEngine()
		_, err := eng.Store.TogglePersonalBlock(ctx, 1, 200, 100, "")
		require.NoError(t, err)

		dec, err := eng.Evaluate(ctx, 1, 100, 200)
		assert.NoError(err)
		assert.Equal(DefaultNotice, dec.Notice)
	})

	// the global block's own message sits in tier 1 on the global path
	t.Run("global notice", func(t *testing.T) {
		assert := assert.New(t)
		eng := testEngine()
		_, err := eng.Store.ToggleGlobalBlock(ctx, 1, 200, "всем молчать")
		require.NoError(t, err)

		dec, err := eng.Evaluate(ctx, 1, 100, 200)
		assert.NoError(err)
		assert.Equal("всем молчать", dec.Notice)
	})
}
