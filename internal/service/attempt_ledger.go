package service

import (
	"context"

	"trainhub/internal/domain"
)

// AttemptLedger is an append-only log of security-relevant attempts keyed by
// subject and type.
type AttemptLedger interface {
	Record(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success bool) error
	CountFailures(ctx context.Context, subject domain.Subject, typ domain.AttemptType) (int64, error)
	// Purge bulk-deletes records for the subject and type; a nil success
	// filter removes both outcomes. Used to reset counters after a
	// successful auth event.
	Purge(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success *bool) error
}
