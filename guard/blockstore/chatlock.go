package blockstore

import (
	"sync"
)

// chatLocks hands out one mutex per chat so toggle read-decide-write
// sequences for the same chat never interleave, while unrelated chats
// proceed in parallel. Mutexes are never reclaimed; the set of chats a bot
// serves is small and stable.
type chatLocks struct {
	lk    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newChatLocks() *chatLocks {
	return &chatLocks{
		locks: make(map[int64]*sync.Mutex),
	}
}

func (c *chatLocks) forChat(chatID int64) *sync.Mutex {
	c.lk.Lock()
	defer c.lk.Unlock()
	m, ok := c.locks[chatID]
	if !ok {
		m = &sync.Mutex{}
		c.locks[chatID] = m
	}
	return m
}

func (c *chatLocks) withChat(chatID int64, fn func() error) error {
	m := c.forChat(chatID)
	m.Lock()
	defer m.Unlock()
	return fn()
}
