package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionStates(t *testing.T) {
	assert := assert.New(t)

	s := NewStore()
	assert.Equal(KindNone, s.Get(10).Kind)

	s.Set(10, State{Kind: KindAwaitingAutoresponder})
	assert.Equal(KindAwaitingAutoresponder, s.Get(10).Kind)

	// states are mutually exclusive: setting one replaces the other
	s.Set(10, State{Kind: KindAwaitingAdminReply, RecipientID: 77})
	got := s.Get(10)
	assert.Equal(KindAwaitingAdminReply, got.Kind)
	assert.EqualValues(77, got.RecipientID)

	// cancel works from any state
	s.Cancel(10)
	assert.Equal(KindNone, s.Get(10).Kind)
	s.Cancel(10) // and is idempotent

	// users are independent
	s.Set(10, State{Kind: KindAwaitingSupport})
	assert.Equal(KindNone, s.Get(11).Kind)

	// setting KindNone is equivalent to cancel
	s.Set(10, State{Kind: KindNone})
	assert.Equal(KindNone, s.Get(10).Kind)
}
