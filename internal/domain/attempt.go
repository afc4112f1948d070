package domain

import "time"

// AttemptType enumerates the security-relevant operations guarded by the
// attempt ledger. Block entries reuse the same values.
type AttemptType string

const (
	AttemptLogin              AttemptType = "login"
	AttemptSignup             AttemptType = "signup"
	AttemptSignupVerification AttemptType = "signup_verification"
	AttemptPasswordRecovery   AttemptType = "password_recovery"
	AttemptPasswordChange     AttemptType = "password_change"
)

// AttemptRecord is immutable once written; rows leave the table only through
// an explicit bulk purge.
type AttemptRecord struct {
	ID          AttemptID   `gorm:"type:uuid;primaryKey"`
	OwnerID     *OwnerID    `gorm:"type:uuid;index:ix_attempts_owner"`
	Email       *string     `gorm:"type:citext;index:ix_attempts_email"`
	AttemptedAt time.Time   `gorm:"not null"`
	Success     bool        `gorm:"not null"`
	Type        AttemptType `gorm:"type:text;not null"`
}

func (AttemptRecord) TableName() string { return "attempt_records" }

// Subject identifies who performed an attempt: an owner once the account is
// known, or a bare email for pre-account flows such as signup.
type Subject struct {
	ownerID *OwnerID
	email   string
}

func ByOwner(id OwnerID) Subject { return Subject{ownerID: &id} }

func ByEmail(email string) Subject { return Subject{email: email} }

func (s Subject) Owner() (OwnerID, bool) {
	if s.ownerID == nil {
		return OwnerID{}, false
	}
	return *s.ownerID, true
}

func (s Subject) Email() (string, bool) { return s.email, s.email != "" }
