package store

import (
	"context"

	"trainhub/internal/domain"

	"gorm.io/gorm"
)

type AttemptStore struct{ db *gorm.DB }

func (s *Store) Attempts() *AttemptStore { return &AttemptStore{s.DB} }

func (as *AttemptStore) Append(ctx context.Context, rec *domain.AttemptRecord) error {
	return as.db.WithContext(ctx).Create(rec).Error
}

func (as *AttemptStore) CountFailures(ctx context.Context, subject domain.Subject, typ domain.AttemptType) (int64, error) {
	var count int64
	err := subjectScope(as.db.WithContext(ctx).Model(&domain.AttemptRecord{}), subject).
		Where("type = ? AND success = ?", typ, false).
		Count(&count).Error
	return count, err
}

// Delete bulk-removes attempt records for the subject and type. A nil success
// filter removes both outcomes.
func (as *AttemptStore) Delete(ctx context.Context, subject domain.Subject, typ domain.AttemptType, success *bool) (int64, error) {
	q := subjectScope(as.db.WithContext(ctx), subject).Where("type = ?", typ)
	if success != nil {
		q = q.Where("success = ?", *success)
	}
	tx := q.Delete(&domain.AttemptRecord{})
	return tx.RowsAffected, tx.Error
}

func subjectScope(q *gorm.DB, subject domain.Subject) *gorm.DB {
	if id, ok := subject.Owner(); ok {
		return q.Where("owner_id = ?", id)
	}
	if email, ok := subject.Email(); ok {
		return q.Where("email = ?", email)
	}
	// A zero subject matches nothing rather than everything.
	return q.Where("1 = 0")
}
