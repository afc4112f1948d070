package impl

import (
	"context"
	"time"

	"trainhub/internal/domain"
	"trainhub/internal/observability/metrics"
	"trainhub/internal/store"

	"github.com/google/uuid"
)

type attemptStore interface {
	Append(ctx context.Context, rec *domain.AttemptRecord) error
	CountFailures(ctx context.Context, subject domain.Subject, typ domain.AttemptType) (int64, error)
	Delete(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success *bool) (int64, error)
}

type AttemptLedgerImpl struct {
	attempts attemptStore
}

func NewAttemptLedgerImpl(st *store.Store) *AttemptLedgerImpl {
	return &AttemptLedgerImpl{attempts: st.Attempts()}
}

func (l *AttemptLedgerImpl) Record(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success bool) error {
	rec := &domain.AttemptRecord{
		ID:          uuid.New(),
		AttemptedAt: time.Now().UTC(),
		Success:     success,
		Type:        typ,
	}
	if id, ok := subject.Owner(); ok {
		rec.OwnerID = &id
	}
	if email, ok := subject.Email(); ok {
		rec.Email = &email
	}
	if err := l.attempts.Append(ctx, rec); err != nil {
		return err
	}
	result := "failure"
	if success {
		result = "success"
	}
	metrics.AttemptsRecordedTotal.WithLabelValues(string(typ), result).Inc()
	return nil
}

func (l *AttemptLedgerImpl) CountFailures(ctx context.Context, subject domain.Subject, typ domain.AttemptType) (int64, error) {
	return l.attempts.CountFailures(ctx, subject, typ)
}

func (l *AttemptLedgerImpl) Purge(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success *bool) error {
	_, err := l.attempts.Delete(ctx, subject, typ, success)
	return err
}
