package group

import (
	"context"
	"errors"
	"time"

	"expensezen/internal/domain/apperr"
	domain "expensezen/internal/domain/group"
	"expensezen/internal/domain/money"

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

func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func (r *PostgresRepository) ListByMember(ctx context.Context, userID string) ([]domain.GroupBudget, error) {
	var groups []domain.GroupBudget
	db := r.db.WithContext(ctx)
	err := db.
		Preload("Members", orderedMembers).
		Where("id IN (?)", db.Session(&gorm.Session{NewDB: true}).Model(&domain.Member{}).Select("group_budget_id").Where("user_id = ?", userID)).
		Order("created_at desc").
		Find(&groups).Error
	if err != nil {
		return nil, apperr.Persistence("list group budgets", err)
	}
	return groups, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, groupID string) (*domain.GroupBudget, error) {
	var group domain.GroupBudget
	err := r.db.WithContext(ctx).Preload("Members", orderedMembers).Where("id = ?", groupID).First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrGroupNotFound
		}
		return nil, apperr.Persistence("get group budget", err)
	}
	return &group, nil
}

// Create inserts the group and its member rows together.
func (r *PostgresRepository) Create(ctx context.Context, group *domain.GroupBudget) error {
	return apperr.Persistence("create group budget", r.db.WithContext(ctx).Create(group).Error)
}

func (r *PostgresRepository) Delete(ctx context.Context, groupID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_budget_id = ?", groupID).Delete(&domain.Member{}).Error; err != nil {
			return apperr.Persistence("delete group members", err)
		}
		result := tx.Where("id = ?", groupID).Delete(&domain.GroupBudget{})
		if result.Error != nil {
			return apperr.Persistence("delete group budget", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrGroupNotFound
		}
		return nil
	})
}

func (r *PostgresRepository) MarkPaid(ctx context.Context, groupID, userID string, amount money.Money, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("group_budget_id = ? AND user_id = ? AND paid = ?", groupID, userID, false).
		Updates(map[string]interface{}{
			"paid":        true,
			"paid_amount": amount,
			"paid_at":     at,
		})
	if result.Error != nil {
		return false, apperr.Persistence("mark share paid", result.Error)
	}
	return result.RowsAffected == 1, nil
}
