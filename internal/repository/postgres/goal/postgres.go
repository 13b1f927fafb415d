package goal

import (
	"context"
	"errors"
	"time"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/goal"

	"gorm.io/gorm"
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

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]domain.Goal, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *PostgresRepository) ListOpen(ctx context.Context, userID string) ([]domain.Goal, error) {
	return r.list(r.db.WithContext(ctx).Where("user_id = ? AND completed = ?", userID, false))
}

func (r *PostgresRepository) list(query *gorm.DB) ([]domain.Goal, error) {
	var goals []domain.Goal
	if err := query.Order("target_date asc").Order("created_at asc").Find(&goals).Error; err != nil {
		return nil, apperr.Persistence("list goals", err)
	}
	return goals, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, goalID string) (*domain.Goal, error) {
	var goal domain.Goal
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGoalNotFound
		}
		return nil, apperr.Persistence("get goal", err)
	}
	return &goal, nil
}

func (r *PostgresRepository) Create(ctx context.Context, goal *domain.Goal) error {
	return apperr.Persistence("create goal", r.db.WithContext(ctx).Create(goal).Error)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, goalID string) (bool, error) {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", goalID, userID).Delete(&domain.Goal{})
	if result.Error != nil {
		return false, apperr.Persistence("delete goal", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted only matches open goals, so two concurrent evaluations
// cannot both count the same completion.
func (r *PostgresRepository) MarkCompleted(ctx context.Context, userID, goalID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Goal{}).
		Where("id = ? AND user_id = ? AND completed = ?", goalID, userID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
		})
	if result.Error != nil {
		return false, apperr.Persistence("complete goal", result.Error)
	}
	return result.RowsAffected == 1, nil
}
