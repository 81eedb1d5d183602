// Parsing of the bot's in-chat command surface ("спринг стоп", "спринг
// список", ...) out of raw message text.
package command

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

type Kind int

const (
	KindNone Kind = iota
	KindStop
	KindStopAll
	KindList
	KindListMine
	KindTop
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindStop:
		return "stop"
	case KindStopAll:
		return "stop-all"
	case KindList:
		return "list"
	case KindListMine:
		return "list-mine"
	case KindTop:
		return "top"
	default:
		return "<unknown>"
	}
}

// Command is a recognized moderation command. Payload is the raw notice
// text (lines after the command line) before CleanPayload runs.
type Command struct {
	Kind    Kind
	Payload string
}

// Phrases are matched case-insensitively anywhere in the message, so
// incidental prefixes ("эй, спринг стоп") don't break recognition. The
// qualifier ("все", "мои") has to follow on the same line.
var phrases = []struct {
	kind Kind
	re   *regexp.Regexp
}{
	{KindStopAll, regexp.MustCompile(`(?i)спринг[ \t]+стоп[ \t]+все`)},
	{KindStop, regexp.MustCompile(`(?i)спринг[ \t]+стоп`)},
	{KindListMine, regexp.MustCompile(`(?i)спринг[ \t]+список[ \t]+мои`)},
	{KindList, regexp.MustCompile(`(?i)спринг[ \t]+список`)},
	{KindTop, regexp.MustCompile(`(?i)спринг[ \t]+топ`)},
}

// Parse classifies message text. Non-command text yields KindNone.
func Parse(text string) Command {
	for _, p := range phrases {
		end, ok := matchPhrase(text, p.re)
		if !ok {
			continue
		}
		cmd := Command{Kind: p.kind}
		if p.kind == KindStop || p.kind == KindStopAll {
			cmd.Payload = payloadAfter(text, end)
		}
		return cmd
	}
	return Command{Kind: KindNone}
}

// matchPhrase finds the first occurrence whose boundaries are not glued to
// adjacent letters or digits ("спринг стопор" is not a stop command).
// Returns the byte offset just past the phrase.
func matchPhrase(text string, re *regexp.Regexp) (int, bool) {
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > 0 {
			r, _ := utf8.DecodeLastRuneInString(text[:loc[0]])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		if loc[1] < len(text) {
			r, _ := utf8.DecodeRuneInString(text[loc[1]:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				continue
			}
		}
		return loc[1], true
	}
	return 0, false
}

// payloadAfter extracts the notice payload: everything after the command
// line. Same-line content following the phrase (usually the target's
// @username) is not payload.
func payloadAfter(text string, end int) string {
	rest := text[end:]
	i := strings.IndexByte(rest, '\n')
	if i < 0 {
		return ""
	}
	return rest[i+1:]
}

var leadingPunct = regexp.MustCompile(`^[-—–:\s]+`)

// CleanPayload normalizes a raw payload in to the stored notice text:
// resolved targets' @usernames are removed (the notice must not echo the
// command's own mention), leading dash/colon punctuation is stripped, and
// whitespace runs collapse to single spaces. Empty result means no payload.
func CleanPayload(payload string, usernames []string) string {
	p := payload
	for _, u := range usernames {
		if u == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)@` + regexp.QuoteMeta(u))
		p = re.ReplaceAllString(p, " ")
	}
	p = leadingPunct.ReplaceAllString(p, "")
	return strings.Join(strings.Fields(p), " ")
}
