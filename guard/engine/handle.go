package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/joyguard/joyguard/guard/command"
)

type Action int

const (
	// nothing to do; the message passes through
	ActionNone Action = iota
	// delete the message and post Text (with the sender's mention prepended)
	ActionDeleteAndNotify
	// reply with Text
	ActionCommandResult
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionDeleteAndNotify:
		return "delete-and-notify"
	case ActionCommandResult:
		return "command-result"
	default:
		return "<unknown>"
	}
}

// Verdict is what the platform layer executes for one group message.
type Verdict struct {
	Action Action
	Text   string
}

const topDefaultLimit = 10

// HandleGroupMessage runs the full per-message chain: vocabulary scan,
// command interpretation, and addressed-target enforcement, in that order.
// The swear scan always runs, even on command messages.
func (eng *Engine) HandleGroupMessage(ctx context.Context, msg *Message) (vrd Verdict, err error) {
	start := time.Now()
	// like an HTTP server, recover panics from rule execution
	defer func() {
		if r := recover(); r != nil {
			eng.logger().Error("group message handling panicked", "chat", msg.ChatID, "err", r)
			vrd, err = Verdict{}, nil
		}
		messagesProcessed.WithLabelValues(vrd.Action.String()).Inc()
		handleDuration.Observe(time.Since(start).Seconds())
	}()

	eng.observeUsers(ctx, msg)
	eng.tallySwears(ctx, msg)

	cmd := command.Parse(msg.Text)
	if cmd.Kind != command.KindNone {
		text, err := eng.runCommand(ctx, msg, cmd)
		if err != nil {
			var advice *UserInputError
			if errors.As(err, &advice) {
				return Verdict{Action: ActionCommandResult, Text: advice.Advice}, nil
			}
			return Verdict{}, err
		}
		return Verdict{Action: ActionCommandResult, Text: text}, nil
	}

	if !msg.Addressed() {
		return Verdict{}, nil
	}

	targets := eng.ResolveTargets(ctx, msg)
	eng.UpgradeTargets(ctx, targets)
	for _, t := range targets {
		if !t.Resolved() {
			// untargetable; skipping is deliberate, not blocking
			continue
		}
		dec, err := eng.Evaluate(ctx, msg.ChatID, msg.Sender.ID, t.ID)
		if err != nil {
			return Verdict{}, err
		}
		if dec.Suppress {
			suppressions.Inc()
			return Verdict{
				Action: ActionDeleteAndNotify,
				Text:   SuppressionNotice(t.DisplayName, dec.Notice),
			}, nil
		}
	}
	return Verdict{}, nil
}

func (eng *Engine) runCommand(ctx context.Context, msg *Message, cmd command.Command) (string, error) {
	commandsProcessed.WithLabelValues(cmd.Kind.String()).Inc()

	switch cmd.Kind {
	case command.KindStop:
		targets := eng.ResolveTargets(ctx, msg)
		eng.UpgradeTargets(ctx, targets)
		payload := command.CleanPayload(cmd.Payload, targetUsernames(targets))
		return eng.ApplyStop(ctx, msg.ChatID, msg.Sender, targets, payload)
	case command.KindStopAll:
		payload := command.CleanPayload(cmd.Payload, nil)
		return eng.ApplyStopAll(ctx, msg.ChatID, msg.Sender, payload)
	case command.KindList:
		return eng.BlockList(ctx, msg.ChatID)
	case command.KindListMine:
		return eng.BlockProfile(ctx, msg.ChatID, msg.Sender)
	case command.KindTop:
		return eng.SwearTop(ctx, msg.ChatID, topDefaultLimit)
	}
	return "", nil
}

func (eng *Engine) tallySwears(ctx context.Context, msg *Message) {
	if eng.Lexicon == nil || eng.Counters == nil || msg.Sender.ID == 0 {
		return
	}
	hits := eng.Lexicon.Scan(msg.Text)
	if hits == 0 {
		return
	}
	swearHits.Add(float64(hits))
	if err := eng.Counters.Increment(ctx, msg.ChatID, msg.Sender.ID, hits); err != nil {
		eng.logger().Warn("swear counter increment failed", "chat", msg.ChatID, "user", msg.Sender.ID, "err", err)
	}
}

func targetUsernames(targets []Target) []string {
	var names []string
	for _, t := range targets {
		if t.Username != "" {
			names = append(names, strings.TrimPrefix(t.Username, "@"))
		}
	}
	return names
}
