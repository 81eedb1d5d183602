package engine

import (
	"context"
	"fmt"
)

// Decision is the enforcement verdict for one (sender, target) pair.
type Decision struct {
	Suppress bool
	// substitute text for the suppressed sender; empty when Suppress is false
	Notice string
	// who the restriction belongs to (the addressed target)
	BlockerID int64
}

// Evaluate decides whether sender may address target in this chat.
// Precedence: an active global block (without an exception for the sender)
// beats everything; then a personal block; otherwise allow. Read-only.
func (eng *Engine) Evaluate(ctx context.Context, chatID, senderID, targetID int64) (Decision, error) {
	allow := Decision{}
	if senderID == targetID {
		// one's own blocks never apply to oneself
		return allow, nil
	}

	gb, err := eng.Store.GetGlobalBlock(ctx, chatID, targetID)
	if err != nil {
		return allow, fmt.Errorf("reading global block: %w", err)
	}
	if gb != nil {
		excepted, err := eng.Store.IsExcepted(ctx, chatID, targetID, senderID)
		if err != nil {
			return allow, fmt.Errorf("reading exception set: %w", err)
		}
		if !excepted {
			notice, err := eng.noticeFor(ctx, targetID, gb.Notice)
			if err != nil {
				return allow, err
			}
			return Decision{Suppress: true, Notice: notice, BlockerID: targetID}, nil
		}
	}

	pb, err := eng.Store.GetPersonalBlock(ctx, chatID, targetID, senderID)
	if err != nil {
		return allow, fmt.Errorf("reading personal block: %w", err)
	}
	if pb != nil {
		notice, err := eng.noticeFor(ctx, targetID, pb.Notice)
		if err != nil {
			return allow, err
		}
		return Decision{Suppress: true, Notice: notice, BlockerID: targetID}, nil
	}

	return allow, nil
}

// noticeFor applies the fallback chain: the block's own notice, then the
// blocker's global autoresponder, then the fixed default.
func (eng *Engine) noticeFor(ctx context.Context, blockerID int64, specific string) (string, error) {
	if specific != "" {
		return specific, nil
	}
	auto, err := eng.Store.GetAutoresponder(ctx, blockerID)
	if err != nil {
		return "", fmt.Errorf("reading autoresponder: %w", err)
	}
	if auto != "" {
		return auto, nil
	}
	return DefaultNotice, nil
}
