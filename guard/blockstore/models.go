package blockstore

import (
	"time"
)

// PersonalBlock: blocker forbids blocked from replying to them in one chat.
// Present row means blocked; the row is created and destroyed by toggling.
type PersonalBlock struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	ChatID    int64 `gorm:"uniqueIndex:idx_personal_block,priority:1"`
	BlockerID int64 `gorm:"uniqueIndex:idx_personal_block,priority:2"`
	BlockedID int64 `gorm:"uniqueIndex:idx_personal_block,priority:3"`
	// shown to the blocked party instead of their message; empty falls back
	// to the blocker's global autoresponder
	Notice string
}

// GlobalBlock: "block everyone in this chat" for one user. At most one row
// per (chat, blocker).
type GlobalBlock struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	ChatID    int64 `gorm:"uniqueIndex:idx_global_block,priority:1"`
	BlockerID int64 `gorm:"uniqueIndex:idx_global_block,priority:2"`
	Notice    string
}

// GlobalBlockException exempts one user from a blocker's active global
// block. Rows only carry meaning while the matching GlobalBlock exists;
// enabling a new GlobalBlock wipes the previous episode's exceptions.
type GlobalBlockException struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	ChatID    int64 `gorm:"uniqueIndex:idx_global_exception,priority:1"`
	BlockerID int64 `gorm:"uniqueIndex:idx_global_exception,priority:2"`
	AllowedID int64 `gorm:"uniqueIndex:idx_global_exception,priority:3"`
}

// GlobalAutoresponder: per-user default notice, chat-independent.
type GlobalAutoresponder struct {
	UserID    int64 `gorm:"primarykey"`
	Message   string
	UpdatedAt time.Time
}

// UserProfile is a denormalized cache of observed users, used to resolve
// @username mentions to numeric IDs. Upserted on every sighting,
// last-write-wins; at most one profile may claim a given lowercase username.
type UserProfile struct {
	UserID        int64  `gorm:"primarykey"`
	Username      string // case-preserved, without "@"
	UsernameLower string `gorm:"index"`
	FirstName     string
	LastName      string
	UpdatedAt     time.Time
}

// SupportMessage is a stored support ticket from the private-chat flow.
type SupportMessage struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UserID    int64 `gorm:"index"`
	Message   string
}

// SupportCooldown tracks the anti-spam window for support tickets.
type SupportCooldown struct {
	UserID          int64 `gorm:"primarykey"`
	LastMessageTime int64
}
