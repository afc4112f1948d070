package impl

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
	"trainhub/internal/observability/metrics"
	"trainhub/internal/observability/middleware"
	"trainhub/internal/service"
	"trainhub/internal/store"
)

type SessionConfig struct {
	RefreshTTL time.Duration
}

// sessionStore is the slice of the record store the coordinator needs.
type sessionStore interface {
	FindActiveByOwner(ctx context.Context, ownerID domain.OwnerID) (*domain.Session, error)
	Invalidate(ctx context.Context, sess *domain.Session, replacedBy *domain.SessionID) error
	RotateLineage(ctx context.Context, ownerID domain.OwnerID, refreshTokenHash string, expiresAt int64) (*domain.Session, error)
}

// SessionServiceImpl orchestrates token issuance and session rotation.
type SessionServiceImpl struct {
	cfg      SessionConfig
	tokens   service.TokenService
	sessions sessionStore
}

func NewSessionServiceImpl(cfg SessionConfig, tokens service.TokenService, st *store.Store) *SessionServiceImpl {
	return &SessionServiceImpl{cfg: cfg, tokens: tokens, sessions: st.Sessions()}
}

// RotateSessionAndTokens issues a fresh access+refresh pair, persists a new
// session holding the refresh token's hash, and supersedes the owner's prior
// active session when one exists.
func (s *SessionServiceImpl) RotateSessionAndTokens(ctx context.Context, claims domain.TokenClaims) (*dto.TokenPair, error) {
	result := "success"
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("rotate", result).Inc()
	}()

	// The inbound token's own purpose tag is transport-only; each issuer
	// stamps its own.
	claims.Type = ""

	access, err := s.tokens.IssueAccess(claims)
	if err != nil {
		result = "failure"
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(claims)
	if err != nil {
		result = "failure"
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.cfg.RefreshTTL).UnixMilli()
	next, err := s.sessions.RotateLineage(ctx, claims.ID, hashToken(refresh), expiresAt)
	if err != nil {
		result = "failure"
		return nil, err
	}

	slog.Info("rotated session",
		"session_id", next.ID,
		"owner_id", claims.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh exchanges a still-valid refresh token for a new pair. Any
// verification failure normalizes to ErrInvalidToken so callers map it
// uniformly to an unauthorized response.
func (s *SessionServiceImpl) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		metrics.TokensIssuedTotal.WithLabelValues("refresh", "failure").Inc()
		return nil, domain.ErrInvalidToken
	}
	return s.RotateSessionAndTokens(ctx, *claims)
}

// Logout closes the owner's active session without a replacement. An owner
// who never refreshed since login has no session on record; that case is a
// documented no-op and reports ErrNoActiveSession.
func (s *SessionServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.Verify(refreshToken, domain.TokenRefresh)
	if err != nil {
		return domain.ErrInvalidToken
	}
	sess, err := s.sessions.FindActiveByOwner(ctx, claims.ID)
	if err != nil {
		return err
	}
	if sess == nil {
		return domain.ErrNoActiveSession
	}
	if err := s.sessions.Invalidate(ctx, sess, nil); err != nil {
		return err
	}
	slog.Info("closed session",
		"session_id", sess.ID,
		"owner_id", claims.ID,
		"request_id", middleware.RequestIDFromContext(ctx),
	)
	return nil
}

// hashToken derives the stored one-way hash of a raw refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
