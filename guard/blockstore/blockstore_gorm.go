package blockstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists moderation state via gorm (sqlite or postgres; see
// cliutil.SetupDatabase). Toggles run inside a transaction under a per-chat
// mutex, which keeps the read-decide-write sequence serial even on sqlite
// where the database itself won't arbitrate.
type GormStore struct {
	db    *gorm.DB
	locks *chatLocks
	// autoresponders and profiles are chat-independent, serialized separately
	userLocks *chatLocks
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(
		&PersonalBlock{},
		&GlobalBlock{},
		&GlobalBlockException{},
		&GlobalAutoresponder{},
		&UserProfile{},
		&SupportMessage{},
		&SupportCooldown{},
	); err != nil {
		return nil, fmt.Errorf("migrating blockstore schema: %w", err)
	}
	return &GormStore{
		db:        db,
		locks:     newChatLocks(),
		userLocks: newChatLocks(),
	}, nil
}

func translateWriteErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrConflict
	}
	return err
}

func (s *GormStore) TogglePersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64, notice string) (bool, error) {
	var nowBlocked bool
	err := s.locks.withChat(chatID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing PersonalBlock
			err := tx.Where("chat_id = ? AND blocker_id = ? AND blocked_id = ?", chatID, blockerID, blockedID).
				First(&existing).Error
			if err == nil {
				nowBlocked = false
				return tx.Delete(&existing).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			nowBlocked = true
			return tx.Create(&PersonalBlock{
				ChatID:    chatID,
				BlockerID: blockerID,
				BlockedID: blockedID,
				Notice:    notice,
			}).Error
		})
	})
	if err != nil {
		return false, translateWriteErr(err)
	}
	return nowBlocked, nil
}

func (s *GormStore) GetPersonalBlock(ctx context.Context, chatID, blockerID, blockedID int64) (*PersonalBlock, error) {
	var row PersonalBlock
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND blocker_id = ? AND blocked_id = ?", chatID, blockerID, blockedID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) ListChatBlocks(ctx context.Context, chatID int64) ([]PersonalBlock, error) {
	var rows []PersonalBlock
	err := s.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("blocker_id, blocked_id").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) ListBlocksByBlocker(ctx context.Context, chatID, blockerID int64) ([]PersonalBlock, error) {
	var rows []PersonalBlock
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND blocker_id = ?", chatID, blockerID).
		Order("blocked_id").
		Find(&rows).Error
	return rows, err
}

func (s *GormStore) ToggleGlobalBlock(ctx context.Context, chatID, blockerID int64, notice string) (bool, error) {
	var nowBlocked bool
	err := s.locks.withChat(chatID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing GlobalBlock
			err := tx.Where("chat_id = ? AND blocker_id = ?", chatID, blockerID).
				First(&existing).Error
			if err == nil {
				nowBlocked = false
				return tx.Delete(&existing).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			// new episode: stale exceptions from the previous block must not
			// carry over
			if err := tx.Where("chat_id = ? AND blocker_id = ?", chatID, blockerID).
				Delete(&GlobalBlockException{}).Error; err != nil {
				return err
			}
			nowBlocked = true
			return tx.Create(&GlobalBlock{
				ChatID:    chatID,
				BlockerID: blockerID,
				Notice:    notice,
			}).Error
		})
	})
	if err != nil {
		return false, translateWriteErr(err)
	}
	return nowBlocked, nil
}

func (s *GormStore) GetGlobalBlock(ctx context.Context, chatID, blockerID int64) (*GlobalBlock, error) {
	var row GlobalBlock
	err := s.db.WithContext(ctx).
		Where("chat_id = ? AND blocker_id = ?", chatID, blockerID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) ToggleException(ctx context.Context, chatID, blockerID, allowedID int64) (bool, error) {
	var nowAllowed bool
	err := s.locks.withChat(chatID, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var existing GlobalBlockException
			err := tx.Where("chat_id = ? AND blocker_id = ? AND allowed_id = ?", chatID, blockerID, allowedID).
				First(&existing).Error
			if err == nil {
				nowAllowed = false
				return tx.Delete(&existing).Error
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			nowAllowed = true
			return tx.Create(&GlobalBlockException{
				ChatID:    chatID,
				BlockerID: blockerID,
				AllowedID: allowedID,
			}).Error
		})
	})
	if err != nil {
		return false, translateWriteErr(err)
	}
	return nowAllowed, nil
}

func (s *GormStore) IsExcepted(ctx context.Context, chatID, blockerID, allowedID int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&GlobalBlockException{}).
		Where("chat_id = ? AND blocker_id = ? AND allowed_id = ?", chatID, blockerID, allowedID).
		Count(&count).Error
	return count > 0, err
}

func (s *GormStore) ListExceptions(ctx context.Context, chatID, blockerID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).Model(&GlobalBlockException{}).
		Where("chat_id = ? AND blocker_id = ?", chatID, blockerID).
		Order("allowed_id").
		Pluck("allowed_id", &ids).Error
	return ids, err
}

func (s *GormStore) SetAutoresponder(ctx context.Context, userID int64, message string) error {
	row := GlobalAutoresponder{
		UserID:    userID,
		Message:   message,
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "updated_at"}),
	}).Create(&row).Error
	return translateWriteErr(err)
}

func (s *GormStore) GetAutoresponder(ctx context.Context, userID int64) (string, error) {
	var row GlobalAutoresponder
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Message, nil
}

func (s *GormStore) UpsertProfile(ctx context.Context, profile UserProfile) error {
	profile.UsernameLower = strings.ToLower(profile.Username)
	profile.UpdatedAt = time.Now()
	err := s.userLocks.withChat(profile.UserID%64, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			// the lowercase username maps to at most one user; most recent
			// sighting wins, so evict any other claimant
			if profile.UsernameLower != "" {
				if err := tx.Model(&UserProfile{}).
					Where("username_lower = ? AND user_id != ?", profile.UsernameLower, profile.UserID).
					Updates(map[string]any{"username": "", "username_lower": ""}).Error; err != nil {
					return err
				}
			}
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"username", "username_lower", "first_name", "last_name", "updated_at"}),
			}).Create(&profile).Error
		})
	})
	return translateWriteErr(err)
}

func (s *GormStore) GetProfile(ctx context.Context, userID int64) (*UserProfile, error) {
	var row UserProfile
	err := s.db.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) GetProfileByUsername(ctx context.Context, username string) (*UserProfile, error) {
	var row UserProfile
	err := s.db.WithContext(ctx).
		Where("username_lower = ?", strings.ToLower(strings.TrimPrefix(username, "@"))).
		Order("updated_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (s *GormStore) SaveSupportMessage(ctx context.Context, userID int64, message string) error {
	return translateWriteErr(s.db.WithContext(ctx).Create(&SupportMessage{
		UserID:  userID,
		Message: message,
	}).Error)
}

func (s *GormStore) TouchSupportCooldown(ctx context.Context, userID int64, window time.Duration) (bool, time.Duration, error) {
	var ok bool
	var retryAfter time.Duration
	err := s.userLocks.withChat(userID%64, func() error {
		return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			now := time.Now().Unix()
			var row SupportCooldown
			err := tx.First(&row, "user_id = ?", userID).Error
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if err == nil {
				elapsed := time.Duration(now-row.LastMessageTime) * time.Second
				if elapsed < window {
					ok = false
					retryAfter = window - elapsed
					return nil
				}
			}
			ok = true
			return tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"last_message_time"}),
			}).Create(&SupportCooldown{UserID: userID, LastMessageTime: now}).Error
		})
	})
	if err != nil {
		return false, 0, translateWriteErr(err)
	}
	return ok, retryAfter, nil
}
