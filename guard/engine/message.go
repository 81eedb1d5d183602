package engine

import (
	"fmt"
	"strings"
)

// UserRef identifies a platform user. ID is the platform's numeric
// identifier; the rest is display metadata, any of which may be empty.
type UserRef struct {
	ID        int64
	Username  string // without "@"
	FirstName string
	LastName  string
}

func (u UserRef) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return fmt.Sprintf("ID%d", u.ID)
}

// Mention is one mention occurrence in message text, in text order. Either
// User is set (a platform-resolved entity carrying a numeric identity) or
// Username holds a plain "@username" occurrence that still needs lookup.
type Mention struct {
	User     *UserRef
	Username string
}

// Message is the platform-neutral shape of an incoming group message.
type Message struct {
	ChatID    int64
	MessageID int
	Sender    UserRef
	ReplyTo   *UserRef
	Text      string
	Mentions  []Mention
}

// Addressed reports whether the message references anyone at all; messages
// that don't address a recipient skip target resolution entirely.
func (m *Message) Addressed() bool {
	return m.ReplyTo != nil || len(m.Mentions) > 0
}
