package impl

import (
	"context"
	"log/slog"
)

// LogEmailService stands in for the real delivery collaborator: it logs the
// outbound message instead of sending it. Useful for dev and tests.
type LogEmailService struct{}

func NewLogEmailService() *LogEmailService { return &LogEmailService{} }

func (LogEmailService) SendSignupVerification(ctx context.Context, to, token string) error {
	slog.Info("signup verification email", "to", to, "token_len", len(token))
	return nil
}

func (LogEmailService) SendPasswordRecovery(ctx context.Context, to, token string) error {
	slog.Info("password recovery email", "to", to, "token_len", len(token))
	return nil
}
