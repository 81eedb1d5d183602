package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/joyguard/joyguard/guard/blockstore"
	"github.com/joyguard/joyguard/guard/cachestore"
	"github.com/joyguard/joyguard/guard/countstore"
	"github.com/joyguard/joyguard/guard/keyword"
)

// PlatformClient is the slice of the chat platform the engine needs for
// deferred username resolution. Everything else (delivery, deletion,
// keyboards) stays on the far side of the Verdict boundary.
type PlatformClient interface {
	FetchUserByUsername(ctx context.Context, username string) (*UserRef, error)
}

// Engine is the runtime for the block & target resolution rules: one per
// process, constructed at startup, safe for concurrent use.
//
// Mutations are serialized per chat by the Store; the read-only enforcement
// path runs unsynchronized, and a block toggled mid-flight is a benign race.
type Engine struct {
	Logger   *slog.Logger
	Store    blockstore.Store
	Counters countstore.CountStore
	Cache    cachestore.CacheStore
	Lexicon  *keyword.Lexicon
	Platform PlatformClient

	// deferred username fetches: bounded so a slow platform degrades to
	// "target unresolved" instead of stalling the message
	FetchTimeout time.Duration
	FetchLimiter *rate.Limiter
}

const defaultFetchTimeout = 5 * time.Second

func (eng *Engine) logger() *slog.Logger {
	if eng.Logger == nil {
		return slog.Default()
	}
	return eng.Logger
}

func (eng *Engine) fetchTimeout() time.Duration {
	if eng.FetchTimeout <= 0 {
		return defaultFetchTimeout
	}
	return eng.FetchTimeout
}

// TopSwearers returns the chat's vocabulary-hit leaderboard.
func (eng *Engine) TopSwearers(ctx context.Context, chatID int64, n int) ([]countstore.UserCount, error) {
	return eng.Counters.TopN(ctx, chatID, n)
}
