package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trainhub/internal/domain"
	"trainhub/internal/store"

	"github.com/google/uuid"
)

type stubBlockChecker struct {
	blocked map[domain.OwnerID]domain.AttemptType
}

func (s *stubBlockChecker) IsBlocked(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) (bool, error) {
	return s.blocked[ownerID] == typ, nil
}

type stubOwnerFinder struct {
	byEmail map[string]*domain.User
}

func (s *stubOwnerFinder) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	owner, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return owner, nil
}

type stubTokenVerifier struct {
	byToken map[string]*domain.TokenClaims
}

func (s *stubTokenVerifier) Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error) {
	claims, ok := s.byToken[token]
	if !ok || claims.Type != expected {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

type guardFixture struct {
	guard   *Guard
	blocks  *stubBlockChecker
	owners  *stubOwnerFinder
	tokens  *stubTokenVerifier
	ownerID domain.OwnerID
}

func newGuardFixture() *guardFixture {
	ownerID := uuid.New()
	blocks := &stubBlockChecker{blocked: map[domain.OwnerID]domain.AttemptType{}}
	owners := &stubOwnerFinder{byEmail: map[string]*domain.User{
		"iris@example.com": {ID: ownerID, Email: "iris@example.com"},
	}}
	tokens := &stubTokenVerifier{byToken: map[string]*domain.TokenClaims{}}
	return &guardFixture{
		guard:   NewGuard(blocks, owners, tokens),
		blocks:  blocks,
		owners:  owners,
		tokens:  tokens,
		ownerID: ownerID,
	}
}

// countingHandler records invocations and echoes back the body it received,
// so tests can assert the guard's peek left the body intact.
type countingHandler struct {
	calls int
	body  string
}

func (h *countingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.calls++
	b, _ := io.ReadAll(r.Body)
	h.body = string(b)
	w.WriteHeader(http.StatusOK)
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuardByEmailForbidsBlockedOwner(t *testing.T) {
	f := newGuardFixture()
	f.blocks.blocked[f.ownerID] = domain.AttemptLogin

	next := &countingHandler{}
	h := f.guard.ByEmail(domain.AttemptLogin)(next)

	rec := post(t, h, `{"email":"iris@example.com","password":"right-or-wrong"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if next.calls != 0 {
		t.Fatalf("handler ran despite active block")
	}
}

func TestGuardByEmailPassesUnblockedOwnerAndRestoresBody(t *testing.T) {
	f := newGuardFixture()
	next := &countingHandler{}
	h := f.guard.ByEmail(domain.AttemptLogin)(next)

	body := `{"email":"iris@example.com","password":"s3cret"}`
	rec := post(t, h, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if next.calls != 1 {
		t.Fatalf("handler not invoked")
	}
	if next.body != body {
		t.Fatalf("body mangled by guard peek: %q", next.body)
	}
}

func TestGuardByEmailIgnoresBlocksOfOtherTypes(t *testing.T) {
	f := newGuardFixture()
	f.blocks.blocked[f.ownerID] = domain.AttemptPasswordRecovery

	next := &countingHandler{}
	h := f.guard.ByEmail(domain.AttemptLogin)(next)

	if rec := post(t, h, `{"email":"iris@example.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("recovery block gated the login endpoint: %d", rec.Code)
	}
}

func TestGuardByEmailPassesUnknownEmailThrough(t *testing.T) {
	f := newGuardFixture()
	next := &countingHandler{}
	h := f.guard.ByEmail(domain.AttemptLogin)(next)

	// No account means no block to consult; the handler owns the uniform
	// failure answer.
	if rec := post(t, h, `{"email":"ghost@example.com"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
	if next.calls != 1 {
		t.Fatalf("handler not invoked for unknown email")
	}
}

func TestGuardByEmailPassesUnparseableBodyThrough(t *testing.T) {
	f := newGuardFixture()
	next := &countingHandler{}
	h := f.guard.ByEmail(domain.AttemptLogin)(next)

	if rec := post(t, h, `not json at all`); rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
	if next.body != "not json at all" {
		t.Fatalf("body mangled: %q", next.body)
	}
}

func TestGuardByTokenForbidsBlockedOwner(t *testing.T) {
	f := newGuardFixture()
	f.blocks.blocked[f.ownerID] = domain.AttemptPasswordRecovery
	f.tokens.byToken["reset-token"] = &domain.TokenClaims{ID: f.ownerID, Type: domain.TokenResetPassword}

	next := &countingHandler{}
	h := f.guard.ByToken(domain.TokenResetPassword, domain.AttemptPasswordRecovery)(next)

	rec := post(t, h, `{"token":"reset-token","newPassword":"brand-new-pass"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if next.calls != 0 {
		t.Fatalf("handler ran despite active block")
	}
}

func TestGuardByTokenPassesInvalidTokenThrough(t *testing.T) {
	f := newGuardFixture()
	next := &countingHandler{}
	h := f.guard.ByToken(domain.TokenResetPassword, domain.AttemptPasswordRecovery)(next)

	// The handler answers bad tokens uniformly; the guard only gates owners
	// it can identify.
	if rec := post(t, h, `{"token":"garbage"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected passthrough, got %d", rec.Code)
	}
	if next.calls != 1 {
		t.Fatalf("handler not invoked for invalid token")
	}
}

func TestGuardByBearerForbidsBlockedOwner(t *testing.T) {
	f := newGuardFixture()
	f.blocks.blocked[f.ownerID] = domain.AttemptPasswordChange

	next := &countingHandler{}
	h := f.guard.ByBearer(domain.AttemptPasswordChange)(next)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/password/change", strings.NewReader(`{}`))
	ctx := context.WithValue(req.Context(), claimsKey{}, &domain.TokenClaims{ID: f.ownerID})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req.WithContext(ctx))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if next.calls != 0 {
		t.Fatalf("handler ran despite active block")
	}
}

func TestGuardByBearerRequiresClaims(t *testing.T) {
	f := newGuardFixture()
	next := &countingHandler{}
	h := f.guard.ByBearer(domain.AttemptPasswordChange)(next)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/password/change", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rec.Code)
	}
}
