package blockstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrConflict: a uniqueness violation surfaced despite the per-chat
	// locking discipline. Callers treat the toggle as having had no effect.
	ErrConflict = errors.New("blockstore: conflicting concurrent write")

	ErrNotFound = errors.New("blockstore: not found")
)

// Store is the persistence boundary for the moderation engine. All toggle
// methods are atomic read-decide-write operations, serialized per chat by
// the implementation, and return the state after the toggle.
//
// Read methods that miss return zero values and nil error; ErrNotFound is
// reserved for lookups where the caller needs the distinction (GetProfile*).
type Store interface {
	// personal blocks
	TogglePersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64, notice string) (nowBlocked bool, err error)
	GetPersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64) (*PersonalBlock, error)
	ListChatBlocks(ctx context.Context, chatID int64) ([]PersonalBlock, error)
	ListBlocksByBlocker(ctx context.Context, chatID, blockerID int64) ([]PersonalBlock, error)

	// global block-all and its exception set
	ToggleGlobalBlock(ctx context.Context, chatID, blockerID int64, notice string) (nowBlocked bool, err error)
	GetGlobalBlock(ctx context.Context, chatID, blockerID int64) (*GlobalBlock, error)
	ToggleException(ctx context.Context, chatID, blockerID, allowedID int64) (nowAllowed bool, err error)
	IsExcepted(ctx context.Context, chatID, blockerID, allowedID int64) (bool, error)
	ListExceptions(ctx context.Context, chatID, blockerID int64) ([]int64, error)

	// autoresponders
	SetAutoresponder(ctx context.Context, userID int64, message string) error
	GetAutoresponder(ctx context.Context, userID int64) (string, error)

	// user profile cache
	UpsertProfile(ctx context.Context, profile UserProfile) error
	GetProfile(ctx context.Context, userID int64) (*UserProfile, error)
	GetProfileByUsername(ctx context.Context, username string) (*UserProfile, error)

	// support tickets
	SaveSupportMessage(ctx context.Context, userID int64, message string) error
	TouchSupportCooldown(ctx context.Context, userID int64, window time.Duration) (ok bool, retryAfter time.Duration, err error)
}
