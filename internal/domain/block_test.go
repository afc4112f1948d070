package domain

import (
	"testing"
	"time"
)

func TestBlockListHasActive(t *testing.T) {
	now := time.Now()
	list := BlockList{
		{Type: AttemptLogin, Reason: BlockReasonMaxAttempts, BlockedUntil: now.Add(-time.Minute).UnixMilli()},
		{Type: AttemptPasswordRecovery, Reason: BlockReasonMaxAttempts, BlockedUntil: now.Add(time.Hour).UnixMilli()},
	}

	if list.HasActive(AttemptLogin, now) {
		t.Fatal("expired login block reported active")
	}
	if !list.HasActive(AttemptPasswordRecovery, now) {
		t.Fatal("active recovery block not reported")
	}
	if list.HasActive(AttemptSignup, now) {
		t.Fatal("absent block type reported active")
	}
}

func TestBlockActiveAtBoundary(t *testing.T) {
	now := time.Now()
	b := Block{Type: AttemptLogin, BlockedUntil: now.UnixMilli()}
	if b.ActiveAt(now) {
		t.Fatal("block active at its own expiry instant")
	}
}

func TestSessionExpiredAt(t *testing.T) {
	now := time.Now()
	live := Session{ExpiresAt: now.Add(time.Hour).UnixMilli()}
	if live.ExpiredAt(now) {
		t.Fatal("future session reported expired")
	}
	stale := Session{ExpiresAt: now.UnixMilli()}
	if !stale.ExpiredAt(now) {
		t.Fatal("session not expired at its own expiry instant")
	}
}

func TestSubjectAccessors(t *testing.T) {
	id := OwnerID{1}
	byOwner := ByOwner(id)
	if got, ok := byOwner.Owner(); !ok || got != id {
		t.Fatalf("owner subject: got %v %v", got, ok)
	}
	if _, ok := byOwner.Email(); ok {
		t.Fatal("owner subject reports an email")
	}

	byEmail := ByEmail("a@b.com")
	if got, ok := byEmail.Email(); !ok || got != "a@b.com" {
		t.Fatalf("email subject: got %q %v", got, ok)
	}
	if _, ok := byEmail.Owner(); ok {
		t.Fatal("email subject reports an owner")
	}

	var zero Subject
	if _, ok := zero.Owner(); ok {
		t.Fatal("zero subject reports an owner")
	}
	if _, ok := zero.Email(); ok {
		t.Fatal("zero subject reports an email")
	}
}
