package service

import (
	"context"

	"trainhub/internal/domain"
	"trainhub/internal/dto"
)

type AuthService interface {
	Login(ctx context.Context, r dto.LoginRequest) (*dto.LoginResponse, error)
	Signup(ctx context.Context, r dto.SignupRequest) (*dto.SignupResponse, error)
	VerifySignup(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, ownerID domain.OwnerID, current, next string) error
}
