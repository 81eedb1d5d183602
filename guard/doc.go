// Block & target resolution engine for group-chat moderation.
//
// This package (`github.com/joyguard/joyguard/guard`) decides, for every
// incoming group message, whether the sender is permitted to address the
// recipient, and substitutes a configured notice when they are not. It
// covers personal blocks, per-user "block everyone" mode with exceptions,
// multi-target resolution from replies and mentions, and the swear-word
// tally that shares the same message-scanning pass.
//
// See `cmd/joyguard` for the Telegram daemon built on this package.
package guard
