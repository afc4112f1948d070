package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"trainhub/internal/domain"
	obsmw "trainhub/internal/observability/middleware"
)

type tokenVerifier interface {
	Verify(token string, expected domain.TokenType) (*domain.TokenClaims, error)
}

type claimsKey struct{}

// RequireAuth validates the bearer access token and stores its claims in the
// request context.
func RequireAuth(tokens tokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				slog.Warn("missing bearer token",
					"path", r.URL.Path,
					"request_id", obsmw.RequestIDFromContext(r.Context()),
				)
				writeError(w, r, domain.ErrUnauthorized)
				return
			}
			claims, err := tokens.Verify(strings.TrimSpace(raw[len("Bearer "):]), domain.TokenAccess)
			if err != nil {
				writeError(w, r, domain.ErrInvalidToken)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*domain.TokenClaims)
	return claims, ok
}
