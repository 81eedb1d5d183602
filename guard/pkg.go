package guard

import (
	"github.com/joyguard/joyguard/guard/command"
	"github.com/joyguard/joyguard/guard/engine"
)

type Engine = engine.Engine
type Message = engine.Message
type Mention = engine.Mention
type UserRef = engine.UserRef
type Target = engine.Target
type Verdict = engine.Verdict
type Decision = engine.Decision
type UserInputError = engine.UserInputError
type PlatformClient = engine.PlatformClient

type Command = command.Command

var (
	ActionNone            = engine.ActionNone
	ActionDeleteAndNotify = engine.ActionDeleteAndNotify
	ActionCommandResult   = engine.ActionCommandResult

	ErrUserNotFound = engine.ErrUserNotFound
)
