package countstore

import (
	"context"
	"sync"
)

type MemCountStore struct {
	lk     sync.Mutex
	counts map[string]map[int64]int64
}

func NewMemCountStore() *MemCountStore {
	return &MemCountStore{
		counts: make(map[string]map[int64]int64),
	}
}

var _ CountStore = (*MemCountStore)(nil)

func (s *MemCountStore) Increment(ctx context.Context, chatID, userID int64, delta int) error {
	if delta <= 0 {
		return nil
	}
	s.lk.Lock()
	defer s.lk.Unlock()
	k := chatBucket(chatID)
	m, ok := s.counts[k]
	if !ok {
		m = make(map[int64]int64)
		s.counts[k] = m
	}
	m[userID] += int64(delta)
	return nil
}

func (s *MemCountStore) GetCount(ctx context.Context, chatID, userID int64) (int64, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	m, ok := s.counts[chatBucket(chatID)]
	if !ok {
		return 0, nil
	}
	return m[userID], nil
}

func (s *MemCountStore) TopN(ctx context.Context, chatID int64, n int) ([]UserCount, error) {
	s.lk.Lock()
	m := s.counts[chatBucket(chatID)]
	rows := make([]UserCount, 0, len(m))
	for uid, c := range m {
		rows = append(rows, UserCount{UserID: uid, Count: c})
	}
	s.lk.Unlock()
	return sortAndTruncate(rows, n), nil
}
