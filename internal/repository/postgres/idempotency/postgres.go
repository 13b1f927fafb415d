package idempotency

import (
	"context"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/idempotency"
	"expensezen/internal/repository/postgres/dberr"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Begin relies on the (user_id, idempotency_key) unique index: the loser of
// a concurrent insert reads back the winner's row.
func (r *PostgresRepository) Begin(ctx context.Context, record *domain.Record) (bool, *domain.Record, error) {
	err := r.db.WithContext(ctx).Create(record).Error
	if err == nil {
		return true, nil, nil
	}
	if !dberr.IsUniqueViolation(err) {
		return false, nil, apperr.Persistence("reserve idempotency key", err)
	}

	var existing domain.Record
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND idempotency_key = ?", record.UserID, record.Key).
		First(&existing).Error
	if err != nil {
		return false, nil, apperr.Persistence("load idempotency key", err)
	}
	return false, &existing, nil
}

func (r *PostgresRepository) Complete(ctx context.Context, id string, status int, body []byte) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":          domain.StateCompleted,
			"response_status": status,
			"response_body":   body,
		}).Error
	return apperr.Persistence("complete idempotency key", err)
}

func (r *PostgresRepository) Release(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Record{}).Error
	return apperr.Persistence("release idempotency key", err)
}
