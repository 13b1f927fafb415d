package notification

import (
	"context"
	"errors"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/notification"
	"expensezen/internal/domain/user"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) Append(ctx context.Context, notification *domain.Notification) error {
	return apperr.Persistence("append notification", r.db.WithContext(ctx).Create(notification).Error)
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	var items []domain.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}, Desc: true}).
		Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&items).Error; err != nil {
		return nil, apperr.Persistence("list notifications", err)
	}
	return items, nil
}

func (r *PostgresRepository) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, apperr.Persistence("mark notification read", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, apperr.Persistence("mark notifications read", result.Error)
	}
	return result.RowsAffected, nil
}

// SetAlert updates the flag on the users row; the badge is per user, not per
// notification.
func (r *PostgresRepository) SetAlert(ctx context.Context, userID string, alert bool) error {
	result := r.db.WithContext(ctx).Model(&user.User{}).Where("id = ?", userID).Update("is_alert", alert)
	if result.Error != nil {
		return apperr.Persistence("set alert", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *PostgresRepository) IsAlert(ctx context.Context, userID string) (bool, error) {
	var row user.User
	err := r.db.WithContext(ctx).Select("is_alert").Where("id = ?", userID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, user.ErrUserNotFound
		}
		return false, apperr.Persistence("get alert", err)
	}
	return row.IsAlert, nil
}
