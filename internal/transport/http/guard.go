package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"trainhub/internal/domain"
	"trainhub/internal/store"
)

const maxGuardBody = 1 << 20 // 1 MiB

type blockChecker interface {
	IsBlocked(ctx context.Context, ownerID domain.OwnerID, typ domain.AttemptType) (bool, error)
}

type ownerFinder interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Guard wraps sensitive endpoints: it resolves the owner the request is
// about and rejects it with Forbidden while an active block of the given
// type is in force.
type Guard struct {
	blocks blockChecker
	owners ownerFinder
	tokens tokenVerifier
}

func NewGuard(blocks blockChecker, owners ownerFinder, tokens tokenVerifier) *Guard {
	return &Guard{blocks: blocks, owners: owners, tokens: tokens}
}

// ByEmail guards endpoints whose request body carries an email field. An
// email without an account passes through: blocks live on the owner
// aggregate, so there is nothing to check before one exists.
func (g *Guard) ByEmail(typ domain.AttemptType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := peekBody(r)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			var probe struct {
				Email string `json:"email"`
			}
			if json.Unmarshal(body, &probe) != nil || probe.Email == "" {
				next.ServeHTTP(w, r)
				return
			}
			owner, err := g.owners.FindByEmail(r.Context(), probe.Email)
			if err != nil {
				if errors.Is(err, store.ErrRecordNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				writeError(w, r, err)
				return
			}
			g.allowOrForbid(w, r, next, owner.ID, typ)
		})
	}
}

// ByToken guards endpoints whose request body carries a purpose-tagged token
// (signup verification, password reset); the owner comes from its claims.
// Token verification failures fall through to the handler, which answers
// them uniformly.
func (g *Guard) ByToken(tokenType domain.TokenType, typ domain.AttemptType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, err := peekBody(r)
			if err != nil {
				http.Error(w, "bad request", http.StatusBadRequest)
				return
			}
			var probe struct {
				Token string `json:"token"`
			}
			if json.Unmarshal(body, &probe) != nil || probe.Token == "" {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := g.tokens.Verify(probe.Token, tokenType)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			g.allowOrForbid(w, r, next, claims.ID, typ)
		})
	}
}

// ByBearer guards authenticated endpoints; it expects RequireAuth to have
// run first.
func (g *Guard) ByBearer(typ domain.AttemptType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			g.allowOrForbid(w, r, next, claims.ID, typ)
		})
	}
}

func (g *Guard) allowOrForbid(w http.ResponseWriter, r *http.Request, next http.Handler, ownerID domain.OwnerID, typ domain.AttemptType) {
	blocked, err := g.blocks.IsBlocked(r.Context(), ownerID, typ)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, r, err)
		return
	}
	if blocked {
		writeError(w, r, domain.ErrForbidden)
		return
	}
	next.ServeHTTP(w, r)
}

// peekBody reads the request body for inspection and restores it for the
// handler.
func peekBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxGuardBody))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
