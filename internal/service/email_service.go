package service

import "context"

// EmailService is the delivery collaborator. Rendering and queueing live
// outside this subsystem.
type EmailService interface {
	SendSignupVerification(ctx context.Context, to, token string) error
	SendPasswordRecovery(ctx context.Context, to, token string) error
}
