// Caching for @username lookups in front of the profile table and the
// platform API. Entries are short-lived: usernames get reassigned, and a
// negative entry must not shadow a user who registered five minutes later.
package cachestore

import (
	"context"
	"strconv"
	"strings"
)

// LookupEntry is a cached resolution of a lowercased username. A zero
// UserID marks a cached negative lookup.
type LookupEntry struct {
	UserID    int64
	FirstName string
}

func (e LookupEntry) Negative() bool {
	return e.UserID == 0
}

// CacheStore caches username resolutions. Get returns (zero entry, false)
// on a miss; a cached negative lookup returns (entry, true) with
// entry.Negative() set.
type CacheStore interface {
	Get(ctx context.Context, username string) (LookupEntry, bool, error)
	Set(ctx context.Context, username string, entry LookupEntry) error
	Purge(ctx context.Context, username string) error
}

func cacheKey(username string) string {
	return "username/" + strings.ToLower(username)
}

func encodeEntry(e LookupEntry) string {
	return strconv.FormatInt(e.UserID, 10) + "|" + e.FirstName
}

func decodeEntry(raw string) (LookupEntry, bool) {
	id, name, found := strings.Cut(raw, "|")
	if !found {
		return LookupEntry{}, false
	}
	uid, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return LookupEntry{}, false
	}
	return LookupEntry{UserID: uid, FirstName: name}, true
}
