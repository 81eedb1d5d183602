// Conversational session state for the bot's private-chat menu. Each
// private chat is in exactly one state; any menu navigation or the cancel
// keyword clears it unconditionally.
package session

import (
	"sync"
)

type Kind int

const (
	KindNone Kind = iota
	KindAwaitingAutoresponder
	KindAwaitingSupport
	KindAwaitingAdminReply
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindAwaitingAutoresponder:
		return "awaiting-autoresponder"
	case KindAwaitingSupport:
		return "awaiting-support"
	case KindAwaitingAdminReply:
		return "awaiting-admin-reply"
	default:
		return "<unknown>"
	}
}

// State is a tagged variant: RecipientID is only meaningful for
// KindAwaitingAdminReply, where it pins the ticket author being replied to.
type State struct {
	Kind        Kind
	RecipientID int64
}

// Store keeps per-user private-chat session state in memory. Sessions are
// ephemeral by design; a restart drops them back to KindNone.
type Store struct {
	lk     sync.Mutex
	states map[int64]State
}

func NewStore() *Store {
	return &Store{
		states: make(map[int64]State),
	}
}

func (s *Store) Get(userID int64) State {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.states[userID]
}

// Set replaces whatever state the user was in.
func (s *Store) Set(userID int64, state State) {
	s.lk.Lock()
	defer s.lk.Unlock()
	if state.Kind == KindNone {
		delete(s.states, userID)
		return
	}
	s.states[userID] = state
}

// Cancel clears the session from any state.
func (s *Store) Cancel(userID int64) {
	s.lk.Lock()
	defer s.lk.Unlock()
	delete(s.states, userID)
}
