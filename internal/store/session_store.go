package store

import (
	"context"
	"errors"
	"time"

	"trainhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionStore struct{ db *gorm.DB }

func (s *Store) Sessions() *SessionStore { return &SessionStore{s.DB} }

// Create inserts a new active session for the owner. expiresAt is epoch
// millis; once it passes, the TTL sweep removes the row.
func (ss *SessionStore) Create(ctx context.Context, ownerID domain.OwnerID, refreshTokenHash string, expiresAt int64) (*domain.Session, error) {
	now := time.Now().UTC()
	sess := &domain.Session{
		ID:               uuid.New(),
		OwnerID:          ownerID,
		RefreshTokenHash: refreshTokenHash,
		IsActive:         true,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := ss.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, err
	}
	return sess, nil
}

// FindActiveByOwner returns the most recent active session for the owner, or
// nil when none exists. At most one active session per owner is a discipline
// invariant, not a store constraint.
func (ss *SessionStore) FindActiveByOwner(ctx context.Context, ownerID domain.OwnerID) (*domain.Session, error) {
	var sess domain.Session
	err := ss.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Order("created_at DESC").
		First(&sess).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

// Invalidate closes the session, optionally linking it to its replacement.
// No transition ever re-enters the active state.
func (ss *SessionStore) Invalidate(ctx context.Context, sess *domain.Session, replacedBy *domain.SessionID) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"is_active":   false,
		"replaced_by": replacedBy,
		"updated_at":  now,
	}
	if err := ss.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", sess.ID).
		Updates(updates).Error; err != nil {
		return err
	}
	sess.IsActive = false
	sess.ReplacedBy = replacedBy
	sess.UpdatedAt = now
	return nil
}

// Rotate supersedes the old session with the new one and forces its expiry
// to now so the TTL sweep reclaims it immediately.
func (ss *SessionStore) Rotate(ctx context.Context, old, next *domain.Session) error {
	now := time.Now().UTC()
	updates := map[string]any{
		"is_active":   false,
		"replaced_by": next.ID,
		"expires_at":  now.UnixMilli(),
		"updated_at":  now,
	}
	if err := ss.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", old.ID).
		Updates(updates).Error; err != nil {
		return err
	}
	old.IsActive = false
	old.ReplacedBy = &next.ID
	old.ExpiresAt = now.UnixMilli()
	old.UpdatedAt = now
	return nil
}

// RotateLineage creates the next session and supersedes the prior active one,
// when present, in a single transaction. A partial rotation can never leave
// two active rows behind.
func (ss *SessionStore) RotateLineage(ctx context.Context, ownerID domain.OwnerID, refreshTokenHash string, expiresAt int64) (*domain.Session, error) {
	var next *domain.Session
	err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txStore := &SessionStore{tx}
		prior, err := txStore.FindActiveByOwner(ctx, ownerID)
		if err != nil {
			return err
		}
		next, err = txStore.Create(ctx, ownerID, refreshTokenHash, expiresAt)
		if err != nil {
			return err
		}
		if prior != nil {
			return txStore.Rotate(ctx, prior, next)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// InvalidateAllForOwner closes every active session the owner has. Used after
// a password reset.
func (ss *SessionStore) InvalidateAllForOwner(ctx context.Context, ownerID domain.OwnerID) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("owner_id = ? AND is_active = ?", ownerID, true).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now().UTC()})
	return tx.RowsAffected, tx.Error
}

// DeleteExpired is the TTL sweep: it removes every row whose expiry has
// passed, active or not.
func (ss *SessionStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := ss.db.WithContext(ctx).
		Where("expires_at <= ?", now.UnixMilli()).
		Delete(&domain.Session{})
	return tx.RowsAffected, tx.Error
}
