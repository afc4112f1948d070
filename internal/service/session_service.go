package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
)

// SessionService coordinates "issue new tokens + create/rotate session" as a
// single workflow.
type SessionService interface {
	RotateSessionAndTokens(ctx context.Context, claims domain.TokenClaims) (*dto.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}
