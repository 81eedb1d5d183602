package blockstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

type personalKey struct {
	chatID, blockerID, blockedID int64
}

type globalKey struct {
	chatID, blockerID int64
}

// MemStore is a mutex-guarded in-memory Store, used in tests and for
// running the daemon without a database.
type MemStore struct {
	lk             sync.Mutex
	personal       map[personalKey]*PersonalBlock
	global         map[globalKey]*GlobalBlock
	exceptions     map[globalKey]map[int64]bool
	autoresponders map[int64]string
	profiles       map[int64]*UserProfile
	support        []SupportMessage
	cooldowns      map[int64]int64
}

var _ Store = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		personal:       make(map[personalKey]*PersonalBlock),
		global:         make(map[globalKey]*GlobalBlock),
		exceptions:     make(map[globalKey]map[int64]bool),
		autoresponders: make(map[int64]string),
		profiles:       make(map[int64]*UserProfile),
		cooldowns:      make(map[int64]int64),
	}
}

func (s *MemStore) TogglePersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64, notice string) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	k := personalKey{chatID, blockerID, blockedID}
	if _, ok := s.personal[k]; ok {
		delete(s.personal, k)
		return false, nil
	}
	s.personal[k] = &PersonalBlock{
		ChatID:    chatID,
		BlockerID: blockerID,
		BlockedID: blockedID,
		Notice:    notice,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (s *MemStore) GetPersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64) (*PersonalBlock, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	row, ok := s.personal[personalKey{chatID, blockerID, blockedID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *MemStore) ListChatBlocks(ctx context.Context, chatID int64) ([]PersonalBlock, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	var rows []PersonalBlock
	for k, row := range s.personal {
		if k.chatID == chatID {
			rows = append(rows, *row)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].BlockerID != rows[j].BlockerID {
			return rows[i].BlockerID < rows[j].BlockerID
		}
		return rows[i].BlockedID < rows[j].BlockedID
	})
	return rows, nil
}

func (s *MemStore) ListBlocksByBlocker(ctx context.Context, chatID, blockerID int64) ([]PersonalBlock, error) {
	rows, err := s.ListChatBlocks(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, row := range rows {
		if row.BlockerID == blockerID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *MemStore) ToggleGlobalBlock(ctx context.Context, chatID, blockerID int64, notice string) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	k := globalKey{chatID, blockerID}
	if _, ok := s.global[k]; ok {
		delete(s.global, k)
		return false, nil
	}
	// episode boundary: drop the previous episode's exceptions
	delete(s.exceptions, k)
	s.global[k] = &GlobalBlock{
		ChatID:    chatID,
		BlockerID: blockerID,
		Notice:    notice,
		CreatedAt: time.Now(),
	}
	return true, nil
}

func (s *MemStore) GetGlobalBlock(ctx context.Context, chatID, blockerID int64) (*GlobalBlock, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	row, ok := s.global[globalKey{chatID, blockerID}]
	if !ok {
		return nil, nil
	}
	cp := *row
	return &cp, nil
}

func (s *MemStore) ToggleException(ctx context.Context, chatID, blockerID, allowedID int64) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	k := globalKey{chatID, blockerID}
	set, ok := s.exceptions[k]
	if !ok {
		set = make(map[int64]bool)
		s.exceptions[k] = set
	}
	if set[allowedID] {
		delete(set, allowedID)
		return false, nil
	}
	set[allowedID] = true
	return true, nil
}

func (s *MemStore) IsExcepted(ctx context.Context, chatID, blockerID, allowedID int64) (bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.exceptions[globalKey{chatID, blockerID}][allowedID], nil
}

func (s *MemStore) ListExceptions(ctx context.Context, chatID, blockerID int64) ([]int64, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	set := s.exceptions[globalKey{chatID, blockerID}]
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (s *MemStore) SetAutoresponder(ctx context.Context, userID int64, message string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.autoresponders[userID] = message
	return nil
}

func (s *MemStore) GetAutoresponder(ctx context.Context, userID int64) (string, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	return s.autoresponders[userID], nil
}

func (s *MemStore) UpsertProfile(ctx context.Context, profile UserProfile) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	profile.UsernameLower = strings.ToLower(profile.Username)
	profile.UpdatedAt = time.Now()
	if profile.UsernameLower != "" {
		for _, other := range s.profiles {
			if other.UserID != profile.UserID && other.UsernameLower == profile.UsernameLower {
				other.Username = ""
				other.UsernameLower = ""
			}
		}
	}
	cp := profile
	s.profiles[profile.UserID] = &cp
	return nil
}

func (s *MemStore) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	row, ok := s.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *row
	return &cp, nil
}

func (s *MemStore) GetProfileByUsername(ctx context.Context, username string) (*UserProfile, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	lower := strings.ToLower(strings.TrimPrefix(username, "@"))
	if lower == "" {
		return nil, ErrNotFound
	}
	var best *UserProfile
	for _, row := range s.profiles {
		if row.UsernameLower != lower {
			continue
		}
		if best == nil || row.UpdatedAt.After(best.UpdatedAt) {
			best = row
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (s *MemStore) SaveSupportMessage(ctx context.Context, userID int64, message string) error {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.support = append(s.support, SupportMessage{
		UserID:    userID,
		Message:   message,
		CreatedAt: time.Now(),
	})
	return nil
}

func (s *MemStore) TouchSupportCooldown(ctx context.Context, userID int64, window time.Duration) (bool, time.Duration, error) {
	s.lk.Lock()
	defer s.lk.Unlock()
	now := time.Now().Unix()
	if last, ok := s.cooldowns[userID]; ok {
		elapsed := time.Duration(now-last) * time.Second
		if elapsed < window {
			return false, window - elapsed, nil
		}
	}
	s.cooldowns[userID] = now
	return true, 0, nil
}
