package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/joyguard/joyguard/guard/blockstore"
	"github.com/joyguard/joyguard/guard/cachestore"
)

// Target is a candidate recipient extracted from a message. ID == 0 means
// the target is unresolved: only the username is known, and it may still be
// upgraded by a deferred platform fetch.
type Target struct {
	ID          int64
	Username    string // without "@"
	DisplayName string
}

func (t Target) Resolved() bool {
	return t.ID != 0
}

// ResolveTargets extracts the ordered, de-duplicated target list from a
// message: reply-to author first, then platform-resolved mentions, then
// plain @usernames looked up against the profile cache. Never touches the
// network; unresolved targets are upgraded separately (UpgradeTargets).
func (eng *Engine) ResolveTargets(ctx context.Context, msg *Message) []Target {
	var out []Target
	seenID := make(map[int64]bool)
	seenName := make(map[string]bool)

	add := func(t Target) {
		if t.Resolved() {
			if seenID[t.ID] {
				return
			}
			seenID[t.ID] = true
		} else {
			lower := strings.ToLower(t.Username)
			if lower == "" || seenName[lower] {
				return
			}
			seenName[lower] = true
		}
		if t.Username != "" {
			seenName[strings.ToLower(t.Username)] = true
		}
		out = append(out, t)
	}

	if msg.ReplyTo != nil {
		add(targetFromUser(*msg.ReplyTo))
	}
	for _, m := range msg.Mentions {
		if m.User != nil {
			add(targetFromUser(*m.User))
			continue
		}
		add(eng.lookupUsername(ctx, m.Username))
	}
	return out
}

func targetFromUser(u UserRef) Target {
	return Target{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(),
	}
}

// lookupUsername resolves a plain @username against the lookup cache and
// the profile table. A miss yields an unresolved Target with "@username"
// as its provisional display name.
func (eng *Engine) lookupUsername(ctx context.Context, username string) Target {
	username = strings.TrimPrefix(username, "@")
	unresolved := Target{
		Username:    username,
		DisplayName: "@" + username,
	}

	if eng.Cache != nil {
		entry, ok, err := eng.Cache.Get(ctx, username)
		if err != nil {
			eng.logger().Warn("username cache read failed", "username", username, "err", err)
		} else if ok {
			if entry.Negative() {
				return unresolved
			}
			return Target{ID: entry.UserID, Username: username, DisplayName: entry.FirstName}
		}
	}

	profile, err := eng.Store.GetProfileByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, blockstore.ErrNotFound) {
			eng.logger().Warn("profile lookup failed", "username", username, "err", err)
		}
		return unresolved
	}
	t := Target{
		ID:       profile.UserID,
		Username: profile.Username,
		DisplayName: UserRef{
			ID:        profile.UserID,
			Username:  profile.Username,
			FirstName: profile.FirstName,
			LastName:  profile.LastName,
		}.DisplayName(),
	}
	eng.cacheLookup(ctx, username, t)
	return t
}

// UpgradeTargets attempts deferred platform resolution for any unresolved
// targets, in place. Failures and timeouts leave the target unresolved;
// they never fail the message.
func (eng *Engine) UpgradeTargets(ctx context.Context, targets []Target) {
	if eng.Platform == nil {
		return
	}
	for i := range targets {
		if targets[i].Resolved() {
			continue
		}
		if upgraded, ok := eng.fetchByUsername(ctx, targets[i].Username); ok {
			targets[i] = upgraded
		}
	}
}

func (eng *Engine) fetchByUsername(ctx context.Context, username string) (Target, bool) {
	log := eng.logger().With("username", username)

	if eng.FetchLimiter != nil && !eng.FetchLimiter.Allow() {
		log.Warn("username fetch rate limited")
		return Target{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, eng.fetchTimeout())
	defer cancel()

	user, err := eng.Platform.FetchUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// remember the miss so repeated mentions don't re-fetch
			eng.cacheLookup(ctx, username, Target{})
			log.Debug("username unknown to platform")
		} else {
			resolutionTimeouts.Inc()
			log.Warn("deferred username fetch failed", "err", err)
		}
		return Target{}, false
	}

	if err := eng.Store.UpsertProfile(ctx, blockstore.UserProfile{
		UserID:    user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}); err != nil {
		log.Warn("profile upsert after fetch failed", "err", err)
	}
	t := targetFromUser(*user)
	eng.cacheLookup(ctx, username, t)
	return t, true
}

func (eng *Engine) cacheLookup(ctx context.Context, username string, t Target) {
	if eng.Cache == nil {
		return
	}
	entry := cachestore.LookupEntry{UserID: t.ID, FirstName: t.DisplayName}
	if err := eng.Cache.Set(ctx, username, entry); err != nil {
		eng.logger().Warn("username cache write failed", "username", username, "err", err)
	}
}

// observeUsers opportunistically refreshes the profile cache from every
// user the message exposes with a full identity.
func (eng *Engine) observeUsers(ctx context.Context, msg *Message) {
	seen := []UserRef{msg.Sender}
	if msg.ReplyTo != nil {
		seen = append(seen, *msg.ReplyTo)
	}
	for _, m := range msg.Mentions {
		if m.User != nil {
			seen = append(seen, *m.User)
		}
	}
	for _, u := range seen {
		if u.ID == 0 {
			continue
		}
		if err := eng.Store.UpsertProfile(ctx, blockstore.UserProfile{
			UserID:    u.ID,
			Username:  u.Username,
			FirstName: u.FirstName,
			LastName:  u.LastName,
		}); err != nil {
			eng.logger().Warn("profile upsert failed", "user_id", u.ID, "err", err)
			continue
		}
		if u.Username != "" {
			eng.cacheLookup(ctx, u.Username, targetFromUser(u))
		}
	}
}
