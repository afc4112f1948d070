package domain

import "time"

// Session tracks one refresh-token lineage for one owner. Only the hash of
// the refresh token is stored. Invariant: IsActive implies ReplacedBy == nil.
type Session struct {
	ID               SessionID  `gorm:"type:uuid;primaryKey"`
	OwnerID          OwnerID    `gorm:"type:uuid;index:ix_sessions_owner"`
	RefreshTokenHash string     `gorm:"type:text;not null"`
	IsActive         bool       `gorm:"not null;default:true"`
	ReplacedBy       *SessionID `gorm:"type:uuid"`
	ExpiresAt        int64      `gorm:"not null;index:ix_sessions_expires"` // epoch millis; TTL sweep trigger
	CreatedAt        time.Time  `gorm:"not null"`
	UpdatedAt        time.Time  `gorm:"not null"`
}

func (Session) TableName() string { return "sessions" }

func (s *Session) ExpiredAt(now time.Time) bool { return s.ExpiresAt <= now.UnixMilli() }
