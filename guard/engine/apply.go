package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/joyguard/joyguard/guard/blockstore"
)

// ApplyStop executes a targeted STOP command. While the actor has an
// active global block, STOP toggles the target's exception instead of a
// personal block: that precedence is the whole point of the layering.
func (eng *Engine) ApplyStop(ctx context.Context, chatID int64, actor UserRef, targets []Target, payload string) (string, error) {
	target, ok := firstResolved(targets)
	if !ok {
		return "", userInputErr(adviceNoTarget)
	}
	if target.ID == actor.ID {
		return "", userInputErr(adviceSelf)
	}

	gb, err := eng.Store.GetGlobalBlock(ctx, chatID, actor.ID)
	if err != nil {
		return "", fmt.Errorf("reading global block: %w", err)
	}
	if gb != nil {
		nowAllowed, err := eng.Store.ToggleException(ctx, chatID, actor.ID, target.ID)
		if err != nil {
			return "", toggleErr(err)
		}
		exceptionToggles.Inc()
		if nowAllowed {
			return textExceptionAdded(actor.DisplayName(), target.DisplayName), nil
		}
		return textExceptionRemoved(actor.DisplayName(), target.DisplayName), nil
	}

	nowBlocked, err := eng.Store.TogglePersonalBlock(ctx, chatID, actor.ID, target.ID, payload)
	if err != nil {
		return "", toggleErr(err)
	}
	personalToggles.Inc()
	if nowBlocked {
		return textBlocked(actor.DisplayName(), target.DisplayName, payload != ""), nil
	}
	return textUnblocked(actor.DisplayName(), target.DisplayName), nil
}

// ApplyStopAll toggles the actor's chat-wide block. Enabling starts a new
// episode (the store wipes prior exceptions); disabling leaves personal
// blocks untouched.
func (eng *Engine) ApplyStopAll(ctx context.Context, chatID int64, actor UserRef, payload string) (string, error) {
	nowBlocked, err := eng.Store.ToggleGlobalBlock(ctx, chatID, actor.ID, payload)
	if err != nil {
		return "", toggleErr(err)
	}
	globalToggles.Inc()
	if nowBlocked {
		return textGlobalOn(actor.DisplayName(), payload != ""), nil
	}
	return textGlobalOff(actor.DisplayName()), nil
}

func firstResolved(targets []Target) (Target, bool) {
	for _, t := range targets {
		if t.Resolved() {
			return t, true
		}
	}
	return Target{}, false
}

// toggleErr maps a surfaced storage conflict to an advisory "had no
// effect" reply instead of propagating a crash.
func toggleErr(err error) error {
	if errors.Is(err, blockstore.ErrConflict) {
		storageConflicts.Inc()
		return userInputErr(adviceConflict)
	}
	return err
}

// BlockList renders the chat's active blocks, grouped by blocker.
func (eng *Engine) BlockList(ctx context.Context, chatID int64) (string, error) {
	rows, err := eng.Store.ListChatBlocks(ctx, chatID)
	if err != nil {
		return "", fmt.Errorf("listing chat blocks: %w", err)
	}

	grouped := make(map[int64][]int64)
	var blockers []int64
	for _, row := range rows {
		if _, ok := grouped[row.BlockerID]; !ok {
			blockers = append(blockers, row.BlockerID)
		}
		grouped[row.BlockerID] = append(grouped[row.BlockerID], row.BlockedID)
	}
	sort.Slice(blockers, func(i, j int) bool { return blockers[i] < blockers[j] })

	var lines []string
	for _, blockerID := range blockers {
		var names []string
		for _, blockedID := range grouped[blockerID] {
			names = append(names, eng.displayName(ctx, blockedID))
		}
		lines = append(lines, fmt.Sprintf("• %s заблокировал(а) ответы от: %s.",
			eng.displayName(ctx, blockerID), strings.Join(names, ", ")))
	}
	return formatBlockList(lines), nil
}

// BlockProfile renders one user's own blocks in the chat: their global
// block state, its exceptions, and their personal blocks.
func (eng *Engine) BlockProfile(ctx context.Context, chatID int64, user UserRef) (string, error) {
	var lines []string

	gb, err := eng.Store.GetGlobalBlock(ctx, chatID, user.ID)
	if err != nil {
		return "", fmt.Errorf("reading global block: %w", err)
	}
	if gb != nil {
		line := "• Вы запретили всем отвечать на свои сообщения."
		excepted, err := eng.Store.ListExceptions(ctx, chatID, user.ID)
		if err != nil {
			return "", fmt.Errorf("listing exceptions: %w", err)
		}
		if len(excepted) > 0 {
			var names []string
			for _, id := range excepted {
				names = append(names, eng.displayName(ctx, id))
			}
			line += " Исключения: " + strings.Join(names, ", ") + "."
		}
		lines = append(lines, line)
	}

	rows, err := eng.Store.ListBlocksByBlocker(ctx, chatID, user.ID)
	if err != nil {
		return "", fmt.Errorf("listing personal blocks: %w", err)
	}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("• Вы заблокировали ответы от: %s.", eng.displayName(ctx, row.BlockedID)))
	}

	if len(lines) == 0 {
		return "📋 У вас нет активных блокировок в этом чате.", nil
	}
	return "📋 Ваши блокировки в этом чате:\n\n" + strings.Join(lines, "\n"), nil
}

// SwearTop renders the chat's vocabulary-hit leaderboard.
func (eng *Engine) SwearTop(ctx context.Context, chatID int64, n int) (string, error) {
	rows, err := eng.Counters.TopN(ctx, chatID, n)
	if err != nil {
		return "", fmt.Errorf("reading leaderboard: %w", err)
	}
	if len(rows) == 0 {
		return topEmpty, nil
	}
	var b strings.Builder
	b.WriteString("🏆 Топ сквернословов этого чата:\n")
	for i, row := range rows {
		fmt.Fprintf(&b, "%d. %s — %d\n", i+1, eng.displayName(ctx, row.UserID), row.Count)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (eng *Engine) displayName(ctx context.Context, userID int64) string {
	profile, err := eng.Store.GetProfile(ctx, userID)
	if err != nil {
		return fmt.Sprintf("ID%d", userID)
	}
	return UserRef{
		ID:        profile.UserID,
		Username:  profile.Username,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
	}.DisplayName()
}
