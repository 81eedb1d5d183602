package countstore

import (
	"context"
	"fmt"
	"sort"
)

// UserCount is one leaderboard row.
type UserCount struct {
	UserID int64
	Count  int64
}

// CountStore accumulates per-user-per-chat vocabulary hit counters and
// produces ranked leaderboards. Counters only ever grow; there is no reset
// in this interface.
type CountStore interface {
	Increment(ctx context.Context, chatID, userID int64, delta int) error
	GetCount(ctx context.Context, chatID, userID int64) (int64, error)
	// TopN returns up to n rows, count descending, ties broken by ascending
	// user ID so output is deterministic.
	TopN(ctx context.Context, chatID int64, n int) ([]UserCount, error)
}

func chatBucket(chatID int64) string {
	return fmt.Sprintf("swears/%d", chatID)
}

// mergeRows unions two row sets, keeping the first sighting of each user.
func mergeRows(rows, extra []UserCount) []UserCount {
	seen := make(map[int64]bool, len(rows))
	for _, r := range rows {
		seen[r.UserID] = true
	}
	for _, r := range extra {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			rows = append(rows, r)
		}
	}
	return rows
}

// sortAndTruncate applies the canonical leaderboard ordering in place.
func sortAndTruncate(rows []UserCount, n int) []UserCount {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].UserID < rows[j].UserID
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
