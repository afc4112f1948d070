package domain

import "time"

type Role string

const (
	RoleAthlete Role = "athlete"
	RoleCoach   Role = "coach"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID            OwnerID   `gorm:"type:uuid;primaryKey" json:"id"`
	Name          string    `gorm:"type:text;not null" json:"name"`
	Email         string    `gorm:"type:citext;uniqueIndex:ux_users_email" json:"email"`
	IDDocument    *string   `gorm:"type:text" json:"idDocument,omitempty"`
	Role          Role      `gorm:"type:text;not null;default:'athlete'" json:"role"`
	EmailVerified bool      `gorm:"not null;default:false" json:"emailVerified"`
	PasswordHash  string    `gorm:"type:text;not null" json:"-"`
	Blocks        BlockList `gorm:"type:jsonb;serializer:json" json:"-"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (User) TableName() string { return "users" }
