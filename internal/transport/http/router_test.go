package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/observability/metrics"
)

func TestMain(m *testing.M) {
	metrics.MustRegister("test")
	os.Exit(m.Run())
}

type stubAuthService struct {
	loginCalls int
	loginRes   *dto.LoginResponse
	loginErr   error
}

func (s *stubAuthService) Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error) {
	s.loginCalls++
	return s.loginRes, s.loginErr
}

func (s *stubAuthService) Signup(ctx context.Context, r dto.SignupRequest) (*dto.SignupResponse, error) {
	return &dto.SignupResponse{OwnerID: "x", RequiresEmailVerification: true}, nil
}

func (s *stubAuthService) VerifySignup(ctx context.Context, token string) error { return nil }

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error { return nil }

func (s *stubAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return nil
}

func (s *stubAuthService) ChangePassword(ctx context.Context, ownerID domain.OwnerID, current, next string) error {
	return nil
}

type stubSessionService struct {
	refreshErr error
}

func (s *stubSessionService) RotateSessionAndTokens(ctx context.Context, claims domain.TokenClaims) (*dto.TokenPair, error) {
	return &dto.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubSessionService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	if s.refreshErr != nil {
		return nil, s.refreshErr
	}
	return &dto.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil
}

func (s *stubSessionService) Logout(ctx context.Context, refreshToken string) error { return nil }

type routerFixture struct {
	mux   http.Handler
	auth  *stubAuthService
	guard *guardFixture
}

func newRouterFixture() *routerFixture {
	guard := newGuardFixture()
	auth := &stubAuthService{loginRes: &dto.LoginResponse{AccessToken: "a", RefreshToken: "r"}}
	sessions := &stubSessionService{}
	mux := NewRouter(RouterConfig{RateLimit: 0, RateLimitWind: time.Minute}, auth, sessions, guard.tokens, guard.guard)
	return &routerFixture{mux: mux, auth: auth, guard: guard}
}

func TestRouterHealthz(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouterLoginHappyPath(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"iris@example.com","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if f.auth.loginCalls != 1 {
		t.Fatalf("login handler called %d times", f.auth.loginCalls)
	}
}

// A blocked owner is rejected at the edge: the login handler never runs and
// the password is never checked.
func TestRouterBlockedLoginForbiddenBeforeHandler(t *testing.T) {
	f := newRouterFixture()
	f.guard.blocks.blocked[f.guard.ownerID] = domain.AttemptLogin

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"iris@example.com","password":"even-the-right-one"}`))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if f.auth.loginCalls != 0 {
		t.Fatalf("login handler ran for a blocked owner")
	}
}

func TestRouterLoginFailureMapsTo401(t *testing.T) {
	f := newRouterFixture()
	f.auth.loginRes = nil
	f.auth.loginErr = domain.ErrInvalidCredentials

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login",
		strings.NewReader(`{"email":"iris@example.com","password":"wrong"}`))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterRefreshRejectionMapsTo401(t *testing.T) {
	guard := newGuardFixture()
	auth := &stubAuthService{}
	sessions := &stubSessionService{refreshErr: domain.ErrInvalidToken}
	mux := NewRouter(RouterConfig{}, auth, sessions, guard.tokens, guard.guard)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/refresh",
		strings.NewReader(`{"refreshToken":"stale-or-garbage"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterPasswordChangeRequiresBearer(t *testing.T) {
	f := newRouterFixture()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/password/change",
		strings.NewReader(`{"currentPassword":"a","newPassword":"b"}`))
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
