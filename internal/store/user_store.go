package store

import (
	"context"
	"errors"
	"time"

	"trainhub/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	return u.db.WithContext(ctx).Create(usr).Error
}

func (u *UserStore) FindByID(ctx context.Context, id domain.OwnerID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (u *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Update applies a partial update. Callers pass column-name keys.
func (u *UserStore) Update(ctx context.Context, id domain.OwnerID, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// UpdateBlocks replaces the owner's block list wholesale. Struct-based update
// so the jsonb serializer applies.
func (u *UserStore) UpdateBlocks(ctx context.Context, id domain.OwnerID, blocks domain.BlockList) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Select("blocks", "updated_at").
		Updates(&domain.User{Blocks: blocks, UpdatedAt: time.Now().UTC()}).Error
}

func (u *UserStore) SetEmailVerified(ctx context.Context, id domain.OwnerID) error {
	return u.Update(ctx, id, map[string]any{"email_verified": true})
}

func (u *UserStore) SetPasswordHash(ctx context.Context, id domain.OwnerID, hash string) error {
	return u.Update(ctx, id, map[string]any{"password_hash": hash})
}

// FindWithExpiredBlocks returns owners carrying at least one block whose
// window has passed. Used by the maintenance sweeper to compact block lists.
func (u *UserStore) FindWithExpiredBlocks(ctx context.Context, now time.Time, limit int) ([]domain.User, error) {
	var users []domain.User
	err := u.db.WithContext(ctx).
		Where("blocks IS NOT NULL AND jsonb_array_length(blocks) > 0").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	out := users[:0]
	for _, usr := range users {
		for _, b := range usr.Blocks {
			if !b.ActiveAt(now) {
				out = append(out, usr)
				break
			}
		}
	}
	return out, nil
}
